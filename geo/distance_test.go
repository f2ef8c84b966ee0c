package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistanceIdenticalPoints(t *testing.T) {
	coords := [][2]float64{
		{0, 0},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
		{89.9, 179.9},
	}
	for _, c := range coords {
		assert.Zero(t, CalculateDistance(c[0], c[1], c[0], c[1]))
	}
}

func TestCalculateDistanceLondonParis(t *testing.T) {
	// London to Paris is roughly 343 km.
	d := CalculateDistance(51.5, -0.1, 48.8, 2.3)
	assert.InEpsilon(t, 343000, d, 0.01)
}

func TestCalculateDistanceSymmetry(t *testing.T) {
	there := CalculateDistance(51.5, -0.1, 48.8, 2.3)
	back := CalculateDistance(48.8, 2.3, 51.5, -0.1)
	assert.InDelta(t, there, back, 1e-6)
}
