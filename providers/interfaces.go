// Package providers implements the external context providers consumed by
// the mood pipeline. Each request is one-shot: it resolves exactly once
// with a value or an error, bounded by the client timeout or the caller's
// context deadline. Callers never retry automatically.
package providers

import (
	"context"

	"moodtrack.app/models"
)

// WeatherProvider fetches current weather for a coordinate pair.
type WeatherProvider interface {
	FetchWeather(ctx context.Context, coords models.Coordinates) (*models.WeatherData, error)
}

// Geocoder resolves a coordinate pair into a display place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error)
}

// LocationSource delivers zero or one coordinate fix per request.
type LocationSource interface {
	RequestOnce(ctx context.Context) (models.Coordinates, error)
}
