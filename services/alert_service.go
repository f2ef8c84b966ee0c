package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cookwho/backend/models"
	"github.com/cookwho/backend/sender"
)

type AlertRestaurantRepo interface {
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
}

type AlertUserRepo interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AlertService emails a cook when a customer adds one of their dishes to a
// basket. Failures are logged only; callers treat delivery as best-effort.
type AlertService struct {
	restaurants AlertRestaurantRepo
	users       AlertUserRepo
	email       sender.EmailSender
	log         *zap.Logger
}

func NewAlertService(restaurants AlertRestaurantRepo, users AlertUserRepo, email sender.EmailSender, log *zap.Logger) *AlertService {
	return &AlertService{
		restaurants: restaurants,
		users:       users,
		email:       email,
		log:         log,
	}
}

func (s *AlertService) CookAlert(ctx context.Context, item models.BasketItem) {
	restaurant, err := s.restaurants.FindByID(ctx, item.RestaurantID)
	if err != nil || restaurant == nil {
		s.log.Warn("cook alert skipped: restaurant lookup failed",
			zap.String("restaurant_id", item.RestaurantID),
			zap.Error(err))
		return
	}

	to := restaurant.Email
	displayName := restaurant.Name
	if user, err := s.users.FindByID(ctx, restaurant.UserID); err == nil && user != nil {
		if user.Email != "" {
			to = user.Email
		}
		if user.DisplayName != "" {
			displayName = user.DisplayName
		}
	}
	if to == "" {
		s.log.Warn("cook alert skipped: no email on record",
			zap.String("restaurant_id", item.RestaurantID))
		return
	}

	subject := fmt.Sprintf("Cook Alert! Potential Sale for %q", item.Name)
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Great news! A customer has just added your dish <strong>%s</strong> to their basket.</p>"+
			"<p>Get ready, a sale might be coming through soon.</p>"+
			"<p>Best,</p><p>The CookWho Team</p>",
		displayName, item.Name)

	result, err := s.email.SendEmail(ctx, to, subject, body)
	if err != nil {
		s.log.Error("failed to send cook alert",
			zap.String("to", to),
			zap.String("item", item.Name),
			zap.Error(err))
		return
	}
	s.log.Info("cook alert sent",
		zap.String("to", to),
		zap.String("item", item.Name),
		zap.String("message_id", result.MessageID))
}
