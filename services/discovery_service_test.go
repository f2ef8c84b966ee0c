package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cookwho/backend/geo"
	"github.com/cookwho/backend/models"
)

type fakeRestaurants struct {
	list []models.Restaurant
	err  error
}

func (f *fakeRestaurants) FindAvailable(context.Context) ([]models.Restaurant, error) {
	return f.list, f.err
}

type fakeMenus struct {
	// restaurant id -> has an item under the probed category
	has map[string]bool
	// restaurant ids whose probe fails
	failing map[string]bool
}

func (f *fakeMenus) HasCategoryItem(_ context.Context, restaurantID, _ string) (bool, error) {
	if f.failing[restaurantID] {
		return false, errors.New("probe failed")
	}
	return f.has[restaurantID], nil
}

func locatedRestaurant(id string, lat float64) models.Restaurant {
	lon := -0.1
	return models.Restaurant{
		ID:          id,
		IsAvailable: true,
		Latitude:    &lat,
		Longitude:   &lon,
	}
}

func TestDiscoverWithoutFilters(t *testing.T) {
	restaurants := &fakeRestaurants{list: []models.Restaurant{
		locatedRestaurant("a", 51.509),
		locatedRestaurant("b", 51.527),
	}}
	svc := NewDiscoveryService(restaurants, &fakeMenus{}, zap.NewNop())

	got, err := svc.Discover(context.Background(), DiscoveryQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDiscoverCategoryFanOut(t *testing.T) {
	restaurants := &fakeRestaurants{list: []models.Restaurant{
		locatedRestaurant("a", 51.509),
		locatedRestaurant("b", 51.527),
		locatedRestaurant("c", 51.536),
	}}
	menus := &fakeMenus{has: map[string]bool{"a": true, "c": true}}
	svc := NewDiscoveryService(restaurants, menus, zap.NewNop())

	got, err := svc.Discover(context.Background(), DiscoveryQuery{CategoryID: "cat-1"})
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, ids)
}

func TestDiscoverFailedProbeExcludesRestaurant(t *testing.T) {
	restaurants := &fakeRestaurants{list: []models.Restaurant{
		locatedRestaurant("a", 51.509),
		locatedRestaurant("b", 51.527),
	}}
	menus := &fakeMenus{
		has:     map[string]bool{"a": true, "b": true},
		failing: map[string]bool{"b": true},
	}
	svc := NewDiscoveryService(restaurants, menus, zap.NewNop())

	got, err := svc.Discover(context.Background(), DiscoveryQuery{CategoryID: "cat-1"})
	require.NoError(t, err)

	// The failing probe excludes b for this pass but does not fail the
	// whole listing.
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestDiscoverDistanceAndSort(t *testing.T) {
	restaurants := &fakeRestaurants{list: []models.Restaurant{
		locatedRestaurant("far", 51.680),
		locatedRestaurant("near", 51.509),
		locatedRestaurant("mid", 51.527),
	}}
	svc := NewDiscoveryService(restaurants, &fakeMenus{}, zap.NewNop())

	got, err := svc.Discover(context.Background(), DiscoveryQuery{
		Location:      &geo.Point{Latitude: 51.5, Longitude: -0.1},
		MaxDistanceKM: 5,
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
}

func TestDiscoverRepositoryError(t *testing.T) {
	svc := NewDiscoveryService(&fakeRestaurants{err: errors.New("down")}, &fakeMenus{}, zap.NewNop())

	_, err := svc.Discover(context.Background(), DiscoveryQuery{})
	assert.Error(t, err)
}
