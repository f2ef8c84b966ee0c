package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cookwho/backend/common/apperrors"
	"github.com/cookwho/backend/common/logger"
	"github.com/cookwho/backend/common/middleware"
	"github.com/cookwho/backend/config"
	"github.com/cookwho/backend/controllers"
	"github.com/cookwho/backend/database"
	"github.com/cookwho/backend/repository"
	"github.com/cookwho/backend/routes"
	"github.com/cookwho/backend/sender"
	"github.com/cookwho/backend/services"
)

func main() {
	// Load environment configuration
	_ = godotenv.Load()
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	log := logger.Log

	// --- Storage ---
	mongoClient, db, err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.CloseMongo(mongoClient); err != nil {
			log.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	// --- Repositories ---
	basketRepo := database.NewBasketRepository(redisClient, cfg.BasketTTL, log)
	restaurantRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// --- Services ---
	var alerter services.CookAlerter
	if emailSender := buildEmailSender(cfg, log); emailSender != nil {
		alerter = services.NewAlertService(restaurantRepo, userRepo, emailSender, log)
	}

	basketService := services.NewBasketService(basketRepo, &services.LogNotifier{Log: log}, alerter, log)
	discoveryService := services.NewDiscoveryService(restaurantRepo, menuRepo, log)
	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	geocodeClient := services.NewGeocodeClient(cfg.GeocodeBaseURL)

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(apperrors.ErrorMiddleware())
	r.Use(cors.Default())

	routes.RegisterRoutes(r, routes.Controllers{
		Basket:      controllers.NewBasketController(basketService),
		Checkout:    controllers.NewCheckoutController(stripeService, orderRepo, restaurantRepo, cfg.Currency),
		Restaurants: controllers.NewRestaurantController(discoveryService, restaurantRepo, menuRepo),
		Categories:  controllers.NewCategoryController(categoryRepo),
		Geocode:     controllers.NewGeocodeController(geocodeClient),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("CookWho backend starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Shutdown error", zap.Error(err))
	}
	log.Info("Server shutdown complete")
}

// buildEmailSender picks the cook-alert transport from config, or nil when
// alerts are not configured.
func buildEmailSender(cfg config.Config, log *zap.Logger) sender.EmailSender {
	switch cfg.MailProvider {
	case "mailgun":
		s, err := sender.NewMailgunSender(cfg.MailgunAPIKey, cfg.MailgunDomain, cfg.AlertsFrom)
		if err != nil {
			log.Warn("mailgun sender unavailable, cook alerts disabled", zap.Error(err))
			return nil
		}
		return s
	case "smtp":
		s, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		if err != nil {
			log.Warn("smtp sender unavailable, cook alerts disabled", zap.Error(err))
			return nil
		}
		return s
	default:
		log.Info("no mail provider configured, cook alerts disabled")
		return nil
	}
}
