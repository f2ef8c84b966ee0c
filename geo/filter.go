package geo

import (
	"sort"

	"github.com/cookwho/backend/models"
)

// Filter describes the restaurant display policy. Location nil means the
// caller's position is unknown: distances are not computed, the cap is not
// applied and store order is kept. AllowedIDs nil means no category filter;
// non-nil restricts the result to those ids.
type Filter struct {
	Location      *Point
	MaxDistanceKM float64
	AllowedIDs    map[string]bool
}

// FilterRestaurants applies the availability, category, and distance policy
// and returns the list sorted ascending by distance when a location is
// known. The input slice is not modified.
func FilterRestaurants(restaurants []models.Restaurant, f Filter) []models.Restaurant {
	out := make([]models.Restaurant, 0, len(restaurants))

	for _, r := range restaurants {
		if !r.IsAvailable {
			continue
		}
		if f.AllowedIDs != nil && !f.AllowedIDs[r.ID] {
			continue
		}

		if f.Location != nil {
			if !r.HasLocation() {
				continue
			}
			km := CalculateDistance(
				f.Location.Latitude, f.Location.Longitude,
				*r.Latitude, *r.Longitude,
			) / 1000
			if f.MaxDistanceKM > 0 && km > f.MaxDistanceKM {
				continue
			}
			r.DistanceKM = &km
		}
		out = append(out, r)
	}

	if f.Location != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return *out[i].DistanceKM < *out[j].DistanceKM
		})
	}
	return out
}
