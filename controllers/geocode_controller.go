package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cookwho/backend/common/apperrors"
	"github.com/cookwho/backend/common/logger"
	"github.com/cookwho/backend/services"
)

type GeocodeController struct {
	Client *services.GeocodeClient
}

func NewGeocodeController(client *services.GeocodeClient) *GeocodeController {
	return &GeocodeController{Client: client}
}

// Geocode handles GET /api/geocode?postcode=. Upstream failure surfaces as
// 502 with an error string; callers retry by re-issuing the request.
func (gc *GeocodeController) Geocode(c *gin.Context) {
	postcode := c.Query("postcode")
	if postcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "postcode is required"})
		return
	}

	point, err := gc.Client.Lookup(c.Request.Context(), postcode)
	if err != nil {
		logger.Error(c, "geocode lookup failed", err, zap.String("postcode", postcode))
		c.Error(apperrors.ErrGeocodeFailed)
		return
	}
	c.JSON(http.StatusOK, point)
}
