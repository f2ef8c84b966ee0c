package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/postcodes/SW1A%201AA", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"result":{"latitude":51.501009,"longitude":-0.141588}}`))
	}))
	defer server.Close()

	client := NewGeocodeClient(server.URL)
	point, err := client.Lookup(context.Background(), "SW1A 1AA")
	require.NoError(t, err)
	assert.InDelta(t, 51.501009, point.Latitude, 1e-6)
	assert.InDelta(t, -0.141588, point.Longitude, 1e-6)
}

func TestGeocodeLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404,"error":"Postcode not found"}`))
	}))
	defer server.Close()

	client := NewGeocodeClient(server.URL)
	_, err := client.Lookup(context.Background(), "ZZ1 1ZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Postcode not found")
}

func TestGeocodeLookupBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewGeocodeClient(server.URL)
	_, err := client.Lookup(context.Background(), "SW1A 1AA")
	assert.Error(t, err)
}
