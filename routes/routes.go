package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cookwho/backend/common/middleware"
	"github.com/cookwho/backend/controllers"
)

// requestTimeout bounds every non-streaming API request.
const requestTimeout = 15 * time.Second

// Controllers bundles the HTTP surface for registration.
type Controllers struct {
	Basket      *controllers.BasketController
	Checkout    *controllers.CheckoutController
	Restaurants *controllers.RestaurantController
	Categories  *controllers.CategoryController
	Geocode     *controllers.GeocodeController
}

func RegisterRoutes(r *gin.Engine, ctrl Controllers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Watch endpoints hold their connection open for the life of the
	// subscription, so they are registered outside the timed group.
	stream := r.Group("/api")
	{
		stream.GET("/restaurants/watch", ctrl.Restaurants.WatchRestaurants)
		stream.GET("/restaurants/:id/watch", ctrl.Restaurants.WatchRestaurant)
	}

	api := r.Group("/api")
	api.Use(middleware.RequestTimeout(requestTimeout))
	{
		basket := api.Group("/basket")
		{
			basket.GET("", ctrl.Basket.GetBasket)
			basket.POST("/items", ctrl.Basket.AddItem)
			basket.POST("/items/:item_id/increment", ctrl.Basket.IncrementItem)
			basket.POST("/items/:item_id/decrement", ctrl.Basket.DecrementItem)
			basket.DELETE("/items/:item_id", ctrl.Basket.RemoveItem)
			basket.DELETE("", ctrl.Basket.ClearBasket)
		}

		api.POST("/checkout", ctrl.Checkout.CreatePaymentIntent)
		api.POST("/checkout/webhook", ctrl.Checkout.StripeWebhook)

		api.GET("/restaurants", ctrl.Restaurants.ListRestaurants)
		api.GET("/restaurants/:id", ctrl.Restaurants.GetRestaurant)
		api.GET("/restaurants/:id/menu", ctrl.Restaurants.ListMenu)

		api.GET("/categories", ctrl.Categories.ListCategories)
		api.GET("/categories/:id", ctrl.Categories.GetCategory)

		api.GET("/geocode", ctrl.Geocode.Geocode)
	}
}
