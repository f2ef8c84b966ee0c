package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/cookwho/backend/common/logger"
	"github.com/cookwho/backend/geo"
	"github.com/cookwho/backend/models"
	"github.com/cookwho/backend/realtime"
	"github.com/cookwho/backend/repository"
	"github.com/cookwho/backend/services"
)

// RestaurantController serves the discovery listing, per-restaurant reads
// and the live watch endpoints backed by change-stream bindings.
type RestaurantController struct {
	Discovery   *services.DiscoveryService
	Restaurants *repository.RestaurantRepository
	Menus       *repository.MenuRepository
}

func NewRestaurantController(discovery *services.DiscoveryService, restaurants *repository.RestaurantRepository, menus *repository.MenuRepository) *RestaurantController {
	return &RestaurantController{
		Discovery:   discovery,
		Restaurants: restaurants,
		Menus:       menus,
	}
}

// ListRestaurants handles GET /api/restaurants with optional lat/lon,
// max_distance_km and category_id query parameters.
func (rc *RestaurantController) ListRestaurants(c *gin.Context) {
	query := services.DiscoveryQuery{
		CategoryID: c.Query("category_id"),
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" || lonStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must both be valid numbers"})
			return
		}
		query.Location = &geo.Point{Latitude: lat, Longitude: lon}
	}

	if distStr := c.Query("max_distance_km"); distStr != "" {
		dist, err := strconv.ParseFloat(distStr, 64)
		if err != nil || dist < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_distance_km must be a non-negative number"})
			return
		}
		query.MaxDistanceKM = dist
	}

	restaurants, err := rc.Discovery.Discover(c.Request.Context(), query)
	if err != nil {
		logger.Error(c, "restaurant discovery failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list restaurants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

// GetRestaurant handles GET /api/restaurants/:id.
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	restaurant, err := rc.Restaurants.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error(c, "failed to get restaurant", err, zap.String("id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get restaurant"})
		return
	}
	if restaurant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// ListMenu handles GET /api/restaurants/:id/menu.
func (rc *RestaurantController) ListMenu(c *gin.Context) {
	items, err := rc.Menus.FindByRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Error(c, "failed to list menu", err, zap.String("id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// WatchRestaurants handles GET /api/restaurants/watch, streaming the
// available-restaurant list as server-sent events. A new event is emitted
// on every store change; disconnecting releases the change stream.
func (rc *RestaurantController) WatchRestaurants(c *gin.Context) {
	src := realtime.NewMongoCollectionSource[models.Restaurant](
		rc.Restaurants.Collection(), bson.M{"isAvailable": true})
	binding := realtime.BindCollection(src, logger.Log)
	defer binding.Close()

	streamSnapshots(c, binding.Snapshots(), binding.Done())
}

// WatchRestaurant handles GET /api/restaurants/:id/watch for a single
// document. A missing document streams as a null snapshot.
func (rc *RestaurantController) WatchRestaurant(c *gin.Context) {
	src := realtime.NewMongoDocumentSource[models.Restaurant](
		rc.Restaurants.Collection(), c.Param("id"))
	binding := realtime.BindDocument(src, logger.Log)
	defer binding.Close()

	streamSnapshots(c, binding.Snapshots(), binding.Done())
}

func streamSnapshots[T any](c *gin.Context, snapshots <-chan realtime.Snapshot[T], done <-chan struct{}) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case snap := <-snapshots:
			c.SSEvent("snapshot", snap.Data)
			return true
		case <-done:
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}
