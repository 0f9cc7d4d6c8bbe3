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

// ReverseGeocodingProvider implements Geocoder against the OpenWeatherMap
// reverse geocoding endpoint.
type ReverseGeocodingProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type geocodingResult struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// NewReverseGeocodingProvider creates a new reverse geocoding provider
func NewReverseGeocodingProvider(cfg *config.GeocodingConfig) *ReverseGeocodingProvider {
	return &ReverseGeocodingProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ReverseGeocode resolves coordinates into a "City, CC" display name
func (p *ReverseGeocodingProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error) {
	url := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&limit=1&appid=%s",
		p.baseURL, coords.Latitude, coords.Longitude, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewExternalAPIError("failed to build geocoding request", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", errors.NewExternalAPIError("geocoding request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewExternalAPIError(fmt.Sprintf("geocoding API returned status code %d", resp.StatusCode), nil)
	}

	var results []geocodingResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", errors.NewExternalAPIError("failed to decode geocoding response", err)
	}

	if len(results) == 0 || results[0].Name == "" {
		return "", errors.NewNotFoundError("no place name for coordinates")
	}

	if results[0].Country == "" {
		return results[0].Name, nil
	}
	return fmt.Sprintf("%s, %s", results[0].Name, results[0].Country), nil
}
