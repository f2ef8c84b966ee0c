package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cookwho/backend/geo"
)

// GeocodeClient resolves UK postcodes to coordinates through the
// postcodes.io HTTP API.
type GeocodeClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGeocodeClient(baseURL string) *GeocodeClient {
	if baseURL == "" {
		baseURL = "https://api.postcodes.io"
	}
	return &GeocodeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type postcodeResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Result struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"result"`
}

func (c *GeocodeClient) Lookup(ctx context.Context, postcode string) (*geo.Point, error) {
	endpoint := fmt.Sprintf("%s/postcodes/%s", c.baseURL, url.PathEscape(postcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode postcode: %w", err)
	}
	defer resp.Body.Close()

	var parsed postcodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to geocode postcode: %w", err)
	}
	if parsed.Status != http.StatusOK {
		return nil, fmt.Errorf("failed to geocode postcode: %s", parsed.Error)
	}

	return &geo.Point{
		Latitude:  parsed.Result.Latitude,
		Longitude: parsed.Result.Longitude,
	}, nil
}
