package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cookwho/backend/geo"
	"github.com/cookwho/backend/models"
)

// defaultLookupConcurrency bounds the per-restaurant category probes.
const defaultLookupConcurrency = 8

type RestaurantReader interface {
	FindAvailable(ctx context.Context) ([]models.Restaurant, error)
}

type MenuReader interface {
	HasCategoryItem(ctx context.Context, restaurantID, masterCategoryID string) (bool, error)
}

// DiscoveryQuery narrows the restaurant listing. A nil Location keeps store
// order and skips the distance cap; an empty CategoryID skips the menu
// probes.
type DiscoveryQuery struct {
	Location      *geo.Point
	MaxDistanceKM float64
	CategoryID    string
}

// DiscoveryService produces the customer-facing restaurant list: available
// cooks, optionally carrying a given master category, within an optional
// distance cap, nearest first.
type DiscoveryService struct {
	restaurants RestaurantReader
	menus       MenuReader
	log         *zap.Logger
	concurrency int
}

func NewDiscoveryService(restaurants RestaurantReader, menus MenuReader, log *zap.Logger) *DiscoveryService {
	return &DiscoveryService{
		restaurants: restaurants,
		menus:       menus,
		log:         log,
		concurrency: defaultLookupConcurrency,
	}
}

func (s *DiscoveryService) Discover(ctx context.Context, q DiscoveryQuery) ([]models.Restaurant, error) {
	available, err := s.restaurants.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}

	var allowed map[string]bool
	if q.CategoryID != "" {
		allowed = s.restaurantsWithCategory(ctx, available, q.CategoryID)
	}

	return geo.FilterRestaurants(available, geo.Filter{
		Location:      q.Location,
		MaxDistanceKM: q.MaxDistanceKM,
		AllowedIDs:    allowed,
	}), nil
}

// restaurantsWithCategory probes every candidate concurrently and joins on
// all results before reporting. A failed probe excludes that restaurant for
// this pass only; the next request runs it again.
func (s *DiscoveryService) restaurantsWithCategory(ctx context.Context, restaurants []models.Restaurant, categoryID string) map[string]bool {
	allowed := make(map[string]bool, len(restaurants))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.concurrency)
	)

	for _, r := range restaurants {
		wg.Add(1)
		go func(r models.Restaurant) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			has, err := s.menus.HasCategoryItem(ctx, r.ID, categoryID)
			if err != nil {
				s.log.Warn("category existence probe failed, excluding restaurant",
					zap.String("restaurant_id", r.ID),
					zap.String("category_id", categoryID),
					zap.Error(err))
				return
			}
			if has {
				mu.Lock()
				allowed[r.ID] = true
				mu.Unlock()
			}
		}(r)
	}
	wg.Wait()

	return allowed
}
