package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cookwho/backend/models"
)

// BasketPersistence is the durable key-value port behind the basket store.
// Get returns nil for an absent (or unreadable) basket.
type BasketPersistence interface {
	Get(ctx context.Context, sessionID string) (*models.Basket, error)
	Set(ctx context.Context, basket *models.Basket) error
	Clear(ctx context.Context, sessionID string) error
}

// Notifier delivers user-visible confirmations ("item added", "item
// removed") for basket mutations.
type Notifier interface {
	Notify(ctx context.Context, sessionID, title, message string)
}

// CookAlerter is notified when an item lands in a basket so the owning cook
// can be emailed. Implemented by AlertService.
type CookAlerter interface {
	CookAlert(ctx context.Context, item models.BasketItem)
}

// BasketService is the single source of truth for in-progress orders. Every
// mutation loads the persisted basket, applies the state change and writes
// the full basket back before returning, so reads within a session never
// race a mutation. Operations on absent items are benign no-ops.
//
// The service deliberately does not police the one-restaurant invariant;
// that confirmation flow belongs to the HTTP layer, which composes Clear
// and AddItem.
type BasketService struct {
	store    BasketPersistence
	notifier Notifier
	alerter  CookAlerter
	log      *zap.Logger
}

func NewBasketService(store BasketPersistence, notifier Notifier, alerter CookAlerter, log *zap.Logger) *BasketService {
	return &BasketService{
		store:    store,
		notifier: notifier,
		alerter:  alerter,
		log:      log,
	}
}

func (s *BasketService) load(ctx context.Context, sessionID string) (*models.Basket, error) {
	basket, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if basket == nil {
		basket = models.NewBasket(sessionID)
	}
	return basket, nil
}

// Get returns the session's basket, falling back to an empty one.
func (s *BasketService) Get(ctx context.Context, sessionID string) (*models.Basket, error) {
	return s.load(ctx, sessionID)
}

// AddItem adds the item (or increments an existing entry), persists the
// basket and alerts the owning cook in the background.
func (s *BasketService) AddItem(ctx context.Context, sessionID string, item models.BasketItem) (*models.Basket, error) {
	basket, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	basket.AddItem(item)
	if err := s.store.Set(ctx, basket); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, sessionID, "Item Added",
		fmt.Sprintf("%q has been added to your basket.", item.Name))

	if s.alerter != nil {
		// Fire-and-forget: alert delivery must never block or fail the
		// mutation, and must outlive the request context.
		go func(item models.BasketItem) {
			alertCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			s.alerter.CookAlert(alertCtx, item)
		}(item)
	}

	return basket, nil
}

// RemoveItem removes the item. Removing an absent id changes nothing and
// emits no notification.
func (s *BasketService) RemoveItem(ctx context.Context, sessionID, itemID string) (*models.Basket, error) {
	basket, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !basket.RemoveItem(itemID) {
		return basket, nil
	}
	if err := s.store.Set(ctx, basket); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, sessionID, "Item Removed",
		"The item has been removed from your basket.")
	return basket, nil
}

// IncrementQuantity raises an item's quantity by one; no-op when absent.
func (s *BasketService) IncrementQuantity(ctx context.Context, sessionID, itemID string) (*models.Basket, error) {
	basket, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !basket.IncrementQuantity(itemID) {
		return basket, nil
	}
	if err := s.store.Set(ctx, basket); err != nil {
		return nil, err
	}
	return basket, nil
}

// DecrementQuantity lowers an item's quantity by one; at quantity one the
// item is removed, with the same notification as RemoveItem.
func (s *BasketService) DecrementQuantity(ctx context.Context, sessionID, itemID string) (*models.Basket, error) {
	basket, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	removed, changed := basket.DecrementQuantity(itemID)
	if !changed {
		return basket, nil
	}
	if err := s.store.Set(ctx, basket); err != nil {
		return nil, err
	}

	if removed {
		s.notifier.Notify(ctx, sessionID, "Item Removed",
			"The item has been removed from your basket.")
	}
	return basket, nil
}

// Clear empties the basket unconditionally.
func (s *BasketService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// LogNotifier records basket confirmations in the structured log. The
// client surfaces them as toasts from the mutation response.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, sessionID, title, message string) {
	n.Log.Info("basket notification",
		zap.String("session_id", sessionID),
		zap.String("title", title),
		zap.String("message", message),
	)
}
