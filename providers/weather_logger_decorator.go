package providers

import (
	"context"
	"log/slog"
	"time"

	"moodtrack.app/models"
)

// WeatherLoggerDecorator wraps a WeatherProvider and logs each request
// outcome with its duration.
type WeatherLoggerDecorator struct {
	wrapped      WeatherProvider
	providerName string
}

// NewWeatherLoggerDecorator creates a logging decorator around a provider
func NewWeatherLoggerDecorator(wrapped WeatherProvider, providerName string) *WeatherLoggerDecorator {
	return &WeatherLoggerDecorator{
		wrapped:      wrapped,
		providerName: providerName,
	}
}

// FetchWeather delegates to the wrapped provider and logs the outcome
func (d *WeatherLoggerDecorator) FetchWeather(ctx context.Context, coords models.Coordinates) (*models.WeatherData, error) {
	start := time.Now()
	weather, err := d.wrapped.FetchWeather(ctx, coords)
	duration := time.Since(start)

	if err != nil {
		slog.Warn("Weather request failed",
			"provider", d.providerName,
			"lat", coords.Latitude,
			"lon", coords.Longitude,
			"duration", duration,
			"error", err)
		return nil, err
	}

	slog.Debug("Weather request succeeded",
		"provider", d.providerName,
		"lat", coords.Latitude,
		"lon", coords.Longitude,
		"duration", duration,
		"temperature", weather.Temperature)
	return weather, nil
}
