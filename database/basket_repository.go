package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cookwho/backend/models"
)

// BasketRepository persists baskets as JSON under a fixed per-session key.
// A missing or unreadable value degrades to "no basket"; callers fall back
// to an empty one.
type BasketRepository struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewBasketRepository(client *redis.Client, ttl time.Duration, log *zap.Logger) *BasketRepository {
	return &BasketRepository{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (r *BasketRepository) getKey(sessionID string) string {
	return fmt.Sprintf("basket:session:%s", sessionID)
}

// Get returns the persisted basket, or nil when none exists. A value that
// fails to parse is logged and treated as absent, never surfaced.
func (r *BasketRepository) Get(ctx context.Context, sessionID string) (*models.Basket, error) {
	key := r.getKey(sessionID)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var basket models.Basket
	if err := json.Unmarshal([]byte(data), &basket); err != nil {
		r.log.Warn("discarding unparseable basket",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, nil
	}
	return &basket, nil
}

// Set serializes the full basket under the session key with the configured
// TTL.
func (r *BasketRepository) Set(ctx context.Context, basket *models.Basket) error {
	key := r.getKey(basket.SessionID)
	basket.UpdatedAt = time.Now()

	data, err := json.Marshal(basket)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Clear deletes the persisted basket for the session.
func (r *BasketRepository) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.getKey(sessionID)).Err()
}
