package controllers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"

	"github.com/cookwho/backend/common/apperrors"
	"github.com/cookwho/backend/models"
	"github.com/cookwho/backend/services"
)

type memoryOrders struct {
	orders map[string]*models.Order
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{orders: make(map[string]*models.Order)}
}

func (m *memoryOrders) Create(_ context.Context, order *models.Order) error {
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *memoryOrders) FindByPaymentIntentID(_ context.Context, paymentIntentID string) (*models.Order, error) {
	for _, order := range m.orders {
		if order.StripePaymentIntentID == paymentIntentID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryOrders) UpdateStatus(_ context.Context, id, status string) error {
	if order, ok := m.orders[id]; ok {
		order.Status = status
	}
	return nil
}

type staticCooks struct{}

func (staticCooks) FindByID(_ context.Context, id string) (*models.Restaurant, error) {
	return &models.Restaurant{ID: id, UserID: "cook-1"}, nil
}

func newCheckoutRouter(orders OrderStore) *gin.Engine {
	stripeSvc := services.NewStripeService("sk_test_dummy", "whsec_dummy")
	cc := NewCheckoutController(stripeSvc, orders, staticCooks{}, "gbp")

	router := gin.New()
	router.Use(apperrors.ErrorMiddleware())
	router.POST("/api/checkout", cc.CreatePaymentIntent)
	router.POST("/api/checkout/webhook", cc.StripeWebhook)
	return router
}

func TestCreatePaymentIntentRejectsInvalidPayload(t *testing.T) {
	router := newCheckoutRouter(newMemoryOrders())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePaymentIntentRejectsEmptyBasket(t *testing.T) {
	router := newCheckoutRouter(newMemoryOrders())

	w := doJSON(t, router, http.MethodPost, "/api/checkout", "sess-1",
		checkoutRequest{Items: nil})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Basket is empty")
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	router := newCheckoutRouter(newMemoryOrders())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/webhook",
		bytes.NewReader([]byte(`{"type":"payment_intent.succeeded"}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStripeWebhookRejectsMissingSignature(t *testing.T) {
	router := newCheckoutRouter(newMemoryOrders())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/webhook",
		bytes.NewReader([]byte(`{"type":"payment_intent.succeeded"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// signWebhook produces a valid Stripe-Signature header for the payload.
func signWebhook(payload []byte, secret string) string {
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func postSignedWebhook(t *testing.T, router *gin.Engine, eventType, paymentIntentID string) *httptest.ResponseRecorder {
	t.Helper()

	payload := []byte(fmt.Sprintf(
		`{"id":"evt_1","api_version":%q,"type":%q,"data":{"object":{"id":%q,"object":"payment_intent"}}}`,
		stripe.APIVersion, eventType, paymentIntentID))
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signWebhook(payload, "whsec_dummy"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStripeWebhookMarksOrderPaid(t *testing.T) {
	orders := newMemoryOrders()
	require.NoError(t, orders.Create(context.Background(), &models.Order{
		ID:                    "order-1",
		StripePaymentIntentID: "pi_1",
		Status:                models.OrderStatusPending,
	}))
	router := newCheckoutRouter(orders)

	w := postSignedWebhook(t, router, "payment_intent.succeeded", "pi_1")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.OrderStatusPaid, orders.orders["order-1"].Status)
}

func TestStripeWebhookMarksOrderCancelled(t *testing.T) {
	orders := newMemoryOrders()
	require.NoError(t, orders.Create(context.Background(), &models.Order{
		ID:                    "order-1",
		StripePaymentIntentID: "pi_1",
		Status:                models.OrderStatusPending,
	}))
	router := newCheckoutRouter(orders)

	w := postSignedWebhook(t, router, "payment_intent.payment_failed", "pi_1")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.OrderStatusCancelled, orders.orders["order-1"].Status)
}

func TestStripeWebhookNeverRegressesFinalStatus(t *testing.T) {
	orders := newMemoryOrders()
	require.NoError(t, orders.Create(context.Background(), &models.Order{
		ID:                    "order-1",
		StripePaymentIntentID: "pi_1",
		Status:                models.OrderStatusPaid,
	}))
	router := newCheckoutRouter(orders)

	w := postSignedWebhook(t, router, "payment_intent.payment_failed", "pi_1")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.OrderStatusPaid, orders.orders["order-1"].Status)
}

func TestStripeWebhookUnknownIntentIsAcknowledged(t *testing.T) {
	router := newCheckoutRouter(newMemoryOrders())

	w := postSignedWebhook(t, router, "payment_intent.succeeded", "pi_missing")
	assert.Equal(t, http.StatusOK, w.Code)
}
