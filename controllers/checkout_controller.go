package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/cookwho/backend/common/apperrors"
	"github.com/cookwho/backend/common/logger"
	"github.com/cookwho/backend/models"
	"github.com/cookwho/backend/services"
)

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type CookLookup interface {
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
}

// CheckoutController creates Stripe payment intents for baskets and records
// the corresponding pending orders, finalized later by the webhook.
type CheckoutController struct {
	Stripe      *services.StripeService
	Orders      OrderStore
	Restaurants CookLookup
	Currency    string
}

func NewCheckoutController(stripeSvc *services.StripeService, orders OrderStore, restaurants CookLookup, currency string) *CheckoutController {
	return &CheckoutController{
		Stripe:      stripeSvc,
		Orders:      orders,
		Restaurants: restaurants,
		Currency:    currency,
	}
}

type checkoutRequest struct {
	Items []models.BasketItem `json:"items"`
}

// CreatePaymentIntent handles POST /api/checkout. An empty basket is a 400;
// the amount is the basket total in minor units.
func (cc *CheckoutController) CreatePaymentIntent(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(req.Items) == 0 {
		c.Error(apperrors.ErrEmptyBasket)
		return
	}

	amount := services.MinorUnits(req.Items)

	pi, err := cc.Stripe.CreatePaymentIntent(amount, cc.Currency)
	if err != nil {
		logger.Error(c, "failed to create payment intent", err, zap.Int64("amount", amount))
		c.Error(apperrors.ErrPaymentFailed)
		return
	}

	cc.recordOrder(c, req.Items, amount, pi.ID)

	c.JSON(http.StatusOK, gin.H{"clientSecret": pi.ClientSecret})
}

// recordOrder writes the pending order. Failure is logged and swallowed:
// the payment can still proceed, the webhook just finds nothing to update.
func (cc *CheckoutController) recordOrder(c *gin.Context, items []models.BasketItem, amount int64, paymentIntentID string) {
	ctx := c.Request.Context()

	order := &models.Order{
		ID:                    uuid.NewString(),
		SessionID:             c.GetHeader(sessionHeader),
		RestaurantID:          items[0].RestaurantID,
		Items:                 items,
		TotalPrice:            amount,
		Currency:              cc.Currency,
		Status:                models.OrderStatusPending,
		StripePaymentIntentID: paymentIntentID,
	}

	if restaurant, err := cc.Restaurants.FindByID(ctx, order.RestaurantID); err == nil && restaurant != nil {
		order.CookID = restaurant.UserID
	}

	if err := cc.Orders.Create(ctx, order); err != nil {
		logger.Error(c, "failed to record order", err,
			zap.String("payment_intent_id", paymentIntentID))
	}
}

// StripeWebhook handles payment status updates. Final order states never
// regress, so replayed events are harmless.
func (cc *CheckoutController) StripeWebhook(c *gin.Context) {
	event, err := cc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		cc.handlePaymentStatus(c, event, models.OrderStatusPaid)
	case "payment_intent.payment_failed":
		cc.handlePaymentStatus(c, event, models.OrderStatusCancelled)
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (cc *CheckoutController) handlePaymentStatus(c *gin.Context, event stripe.Event, status string) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		logger.Error(c, "failed to parse payment intent from webhook", err)
		return
	}

	ctx := c.Request.Context()
	order, err := cc.Orders.FindByPaymentIntentID(ctx, pi.ID)
	if err != nil || order == nil {
		logger.Warn(c, "webhook for unknown payment intent",
			zap.String("payment_intent_id", pi.ID), zap.Error(err))
		return
	}

	if order.Status == models.OrderStatusPaid || order.Status == models.OrderStatusCancelled {
		return
	}

	if err := cc.Orders.UpdateStatus(ctx, order.ID, status); err != nil {
		logger.Error(c, "failed to update order status", err,
			zap.String("order_id", order.ID), zap.String("status", status))
	}
}
