package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cookwho/backend/common/apperrors"
	"github.com/cookwho/backend/common/logger"
	"github.com/cookwho/backend/models"
	"github.com/cookwho/backend/services"
)

// BasketController exposes the basket store over HTTP. The session id header
// scopes each basket; the controller also owns the cross-restaurant
// confirmation flow, composing the store's Clear and AddItem primitives.
type BasketController struct {
	Service *services.BasketService
}

func NewBasketController(service *services.BasketService) *BasketController {
	return &BasketController{Service: service}
}

const sessionHeader = "X-Session-ID"

type basketResponse struct {
	SessionID  string              `json:"session_id"`
	Items      []models.BasketItem `json:"items"`
	TotalPrice float64             `json:"total_price"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func toBasketResponse(b *models.Basket) basketResponse {
	return basketResponse{
		SessionID:  b.SessionID,
		Items:      b.Items,
		TotalPrice: b.TotalPrice(),
		UpdatedAt:  b.UpdatedAt,
	}
}

func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		c.Error(apperrors.ErrMissingSession)
		return "", false
	}
	return id, true
}

// GetBasket returns the current basket with its derived total.
func (bc *BasketController) GetBasket(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	basket, err := bc.Service.Get(c.Request.Context(), sid)
	if err != nil {
		logger.Error(c, "failed to get basket", err, zap.String("session_id", sid))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get basket"})
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

type addItemRequest struct {
	Item          models.BasketItem `json:"item" binding:"required"`
	ClearExisting bool              `json:"clear_existing"`
}

// AddItem adds an item to the basket. An item from a different restaurant
// than the current contents is rejected with 409 until the caller confirms
// by resending with clear_existing set, which clears first.
func (bc *BasketController) AddItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.Item.ID == "" || req.Item.RestaurantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id and restaurant_id are required"})
		return
	}

	ctx := c.Request.Context()
	current, err := bc.Service.Get(ctx, sid)
	if err != nil {
		logger.Error(c, "failed to load basket", err, zap.String("session_id", sid))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load basket"})
		return
	}

	if !current.IsEmpty() && current.RestaurantID() != req.Item.RestaurantID {
		if !req.ClearExisting {
			// The confirmation flag cannot ride on the error middleware's
			// payload, so this response is written directly.
			c.JSON(http.StatusConflict, gin.H{
				"error":                 apperrors.ErrDifferentRestaurant.Message,
				"requires_confirmation": true,
			})
			return
		}
		if err := bc.Service.Clear(ctx, sid); err != nil {
			logger.Error(c, "failed to clear basket", err, zap.String("session_id", sid))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear basket"})
			return
		}
	}

	basket, err := bc.Service.AddItem(ctx, sid, req.Item)
	if err != nil {
		logger.Error(c, "failed to add item", err, zap.String("session_id", sid))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// RemoveItem removes an item; removing an unknown id leaves the basket
// unchanged and still returns it.
func (bc *BasketController) RemoveItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	basket, err := bc.Service.RemoveItem(c.Request.Context(), sid, c.Param("item_id"))
	if err != nil {
		logger.Error(c, "failed to remove item", err, zap.String("session_id", sid))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item"})
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// IncrementItem raises an item's quantity by one.
func (bc *BasketController) IncrementItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	basket, err := bc.Service.IncrementQuantity(c.Request.Context(), sid, c.Param("item_id"))
	if err != nil {
		logger.Error(c, "failed to increment item", err, zap.String("session_id", sid))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update basket"})
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// DecrementItem lowers an item's quantity by one, removing it at quantity
// one.
func (bc *BasketController) DecrementItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	basket, err := bc.Service.DecrementQuantity(c.Request.Context(), sid, c.Param("item_id"))
	if err != nil {
		logger.Error(c, "failed to decrement item", err, zap.String("session_id", sid))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update basket"})
		return
	}
	c.JSON(http.StatusOK, toBasketResponse(basket))
}

// ClearBasket removes all items from the basket.
func (bc *BasketController) ClearBasket(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	if err := bc.Service.Clear(c.Request.Context(), sid); err != nil {
		logger.Error(c, "failed to clear basket", err, zap.String("session_id", sid))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear basket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "basket cleared"})
}
