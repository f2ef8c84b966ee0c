package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cookwho/backend/common/apperrors"
	"github.com/cookwho/backend/common/logger"
	"github.com/cookwho/backend/repository"
)

type CategoryController struct {
	Categories *repository.CategoryRepository
}

func NewCategoryController(categories *repository.CategoryRepository) *CategoryController {
	return &CategoryController{Categories: categories}
}

// ListCategories handles GET /api/categories with an optional cuisine
// query parameter.
func (cc *CategoryController) ListCategories(c *gin.Context) {
	categories, err := cc.Categories.FindAll(c.Request.Context(), c.Query("cuisine"))
	if err != nil {
		logger.Error(c, "failed to list categories", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory handles GET /api/categories/:id.
func (cc *CategoryController) GetCategory(c *gin.Context) {
	category, err := cc.Categories.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error(c, "failed to get category", err, zap.String("id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get category"})
		return
	}
	if category == nil {
		c.Error(apperrors.New(http.StatusNotFound, "category not found", nil))
		return
	}
	c.JSON(http.StatusOK, category)
}
