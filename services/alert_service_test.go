package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/cookwho/backend/models"
	"github.com/cookwho/backend/sender"
)

type fakeRestaurantLookup struct {
	restaurant *models.Restaurant
	err        error
}

func (f *fakeRestaurantLookup) FindByID(context.Context, string) (*models.Restaurant, error) {
	return f.restaurant, f.err
}

type fakeUserLookup struct {
	user *models.User
	err  error
}

func (f *fakeUserLookup) FindByID(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

type recordingSender struct {
	to      string
	subject string
	body    string
	sent    int
	err     error
}

func (r *recordingSender) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	r.to = to
	r.subject = subject
	r.body = body
	if r.err != nil {
		return sender.SendResult{}, r.err
	}
	r.sent++
	return sender.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

func tagineItem() models.BasketItem {
	return models.BasketItem{
		ID:           "item-tagine",
		RestaurantID: "rest-1",
		Name:         "Chicken Tagine",
		Price:        11.00,
		Quantity:     1,
	}
}

func TestCookAlertPrefersUserProfile(t *testing.T) {
	restaurants := &fakeRestaurantLookup{restaurant: &models.Restaurant{
		ID:     "rest-1",
		UserID: "user-1",
		Name:   "Fatima's Kitchen",
		Email:  "kitchen@example.com",
	}}
	users := &fakeUserLookup{user: &models.User{
		ID:          "user-1",
		Email:       "fatima@example.com",
		DisplayName: "Fatima",
	}}
	email := &recordingSender{}
	svc := NewAlertService(restaurants, users, email, zap.NewNop())

	svc.CookAlert(context.Background(), tagineItem())

	assert.Equal(t, 1, email.sent)
	assert.Equal(t, "fatima@example.com", email.to)
	assert.Equal(t, `Cook Alert! Potential Sale for "Chicken Tagine"`, email.subject)
	assert.Contains(t, email.body, "Fatima")
	assert.Contains(t, email.body, "Chicken Tagine")
}

func TestCookAlertFallsBackToRestaurantEmail(t *testing.T) {
	restaurants := &fakeRestaurantLookup{restaurant: &models.Restaurant{
		ID:     "rest-1",
		UserID: "user-1",
		Name:   "Fatima's Kitchen",
		Email:  "kitchen@example.com",
	}}
	users := &fakeUserLookup{err: errors.New("users down")}
	email := &recordingSender{}
	svc := NewAlertService(restaurants, users, email, zap.NewNop())

	svc.CookAlert(context.Background(), tagineItem())

	assert.Equal(t, 1, email.sent)
	assert.Equal(t, "kitchen@example.com", email.to)
	assert.Contains(t, email.body, "Fatima's Kitchen")
}

func TestCookAlertSkipsWhenRestaurantMissing(t *testing.T) {
	email := &recordingSender{}
	svc := NewAlertService(&fakeRestaurantLookup{}, &fakeUserLookup{}, email, zap.NewNop())

	svc.CookAlert(context.Background(), tagineItem())

	assert.Zero(t, email.sent)
}

func TestCookAlertSkipsWithoutAnyEmail(t *testing.T) {
	restaurants := &fakeRestaurantLookup{restaurant: &models.Restaurant{
		ID:     "rest-1",
		UserID: "user-1",
		Name:   "Fatima's Kitchen",
	}}
	email := &recordingSender{}
	svc := NewAlertService(restaurants, &fakeUserLookup{}, email, zap.NewNop())

	svc.CookAlert(context.Background(), tagineItem())

	assert.Zero(t, email.sent)
}
