package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"moodtrack.app/config"
	"moodtrack.app/errors"
	"moodtrack.app/models"
)

// IPLocationSource implements LocationSource against an ip-api style
// geolocation endpoint. It is coarse but requires no device hardware,
// which fits the one-shot request contract.
type IPLocationSource struct {
	baseURL    string
	httpClient *http.Client
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewIPLocationSource creates a new IP-based location source
func NewIPLocationSource(cfg *config.LocationConfig) *IPLocationSource {
	return &IPLocationSource{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RequestOnce resolves the caller's coordinates exactly once
func (s *IPLocationSource) RequestOnce(ctx context.Context) (models.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return models.Coordinates{}, errors.NewExternalAPIError("failed to build location request", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Coordinates{}, errors.NewExternalAPIError("location request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, errors.NewExternalAPIError(
			fmt.Sprintf("location API returned status code %d", resp.StatusCode), nil)
	}

	var apiResponse ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return models.Coordinates{}, errors.NewExternalAPIError("failed to decode location response", err)
	}

	if apiResponse.Status != "success" {
		return models.Coordinates{}, errors.NewExternalAPIError(
			fmt.Sprintf("location lookup failed: %s", apiResponse.Message), nil)
	}

	return models.Coordinates{
		Latitude:  apiResponse.Lat,
		Longitude: apiResponse.Lon,
	}, nil
}
