package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"moodtrack.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server    ServerConfig    `split_words:"true"`
	Storage   StorageConfig   `split_words:"true"`
	Weather   WeatherConfig   `split_words:"true"`
	Geocoding GeocodingConfig `split_words:"true"`
	Location  LocationConfig  `split_words:"true"`
	Pipeline  PipelineConfig  `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// StorageConfig selects and configures the key-value persistence backend.
type StorageConfig struct {
	Type       string         `envconfig:"STORAGE_TYPE" default:"memory"`
	SQLitePath string         `envconfig:"STORAGE_SQLITE_PATH" default:"moodtrack.db"`
	Redis      RedisConfig    `split_words:"true"`
	Postgres   PostgresConfig `split_words:"true"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT_SECONDS" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT_SECONDS" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT_SECONDS" default:"3"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"moodtrack"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted database connection string
func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// WeatherConfig contains settings for the weather enrichment provider.
// An empty API key disables enrichment; entries are then committed
// without weather context.
type WeatherConfig struct {
	APIKey  string `envconfig:"WEATHER_API_KEY" default:""`
	BaseURL string `envconfig:"WEATHER_API_BASE_URL" default:"https://api.openweathermap.org/data/2.5"`
}

// GeocodingConfig contains settings for the reverse geocoding provider
type GeocodingConfig struct {
	APIKey  string `envconfig:"GEOCODING_API_KEY" default:""`
	BaseURL string `envconfig:"GEOCODING_BASE_URL" default:"https://api.openweathermap.org/geo/1.0"`
}

// LocationConfig contains settings for the one-shot location source
type LocationConfig struct {
	BaseURL string `envconfig:"LOCATION_BASE_URL" default:"http://ip-api.com/json"`
}

// PipelineConfig contains timing settings for the mood pipeline
type PipelineConfig struct {
	DebounceMs          int `envconfig:"PIPELINE_DEBOUNCE_MS" default:"500"`
	EnrichmentTimeoutMs int `envconfig:"PIPELINE_ENRICHMENT_TIMEOUT_MS" default:"5000"`
}

// DebounceWindow returns the suggestion quiescence window as a duration.
func (p PipelineConfig) DebounceWindow() time.Duration {
	return time.Duration(p.DebounceMs) * time.Millisecond
}

// EnrichmentTimeout returns the bound on a single enrichment attempt.
func (p PipelineConfig) EnrichmentTimeout() time.Duration {
	return time.Duration(p.EnrichmentTimeoutMs) * time.Millisecond
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Geocoding.Validate(); err != nil {
		return err
	}
	if err := c.Location.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// Validate checks storage configuration
func (s *StorageConfig) Validate() error {
	validTypes := []string{"memory", "redis", "sqlite", "postgres"}
	for _, t := range validTypes {
		if s.Type == t {
			return s.validateSelected()
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("STORAGE_TYPE must be one of: %s", strings.Join(validTypes, ", ")), nil)
}

func (s *StorageConfig) validateSelected() error {
	switch s.Type {
	case "redis":
		if s.Redis.Addr == "" {
			return errors.NewConfigurationError("REDIS_ADDR cannot be empty", nil)
		}
	case "sqlite":
		if s.SQLitePath == "" {
			return errors.NewConfigurationError("STORAGE_SQLITE_PATH cannot be empty", nil)
		}
	case "postgres":
		return s.Postgres.Validate()
	}
	return nil
}

// Validate checks PostgreSQL configuration
func (d *PostgresConfig) Validate() error {
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > 65535 {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

// Validate checks weather provider configuration
func (w *WeatherConfig) Validate() error {
	if w.BaseURL == "" {
		return errors.NewConfigurationError("WEATHER_API_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(w.BaseURL, "http://") && !strings.HasPrefix(w.BaseURL, "https://") {
		return errors.NewConfigurationError("WEATHER_API_BASE_URL must start with http:// or https://", nil)
	}
	return nil
}

// Validate checks geocoding provider configuration
func (g *GeocodingConfig) Validate() error {
	if g.BaseURL == "" {
		return errors.NewConfigurationError("GEOCODING_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(g.BaseURL, "http://") && !strings.HasPrefix(g.BaseURL, "https://") {
		return errors.NewConfigurationError("GEOCODING_BASE_URL must start with http:// or https://", nil)
	}
	return nil
}

// Validate checks location source configuration
func (l *LocationConfig) Validate() error {
	if l.BaseURL == "" {
		return errors.NewConfigurationError("LOCATION_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(l.BaseURL, "http://") && !strings.HasPrefix(l.BaseURL, "https://") {
		return errors.NewConfigurationError("LOCATION_BASE_URL must start with http:// or https://", nil)
	}
	return nil
}

// Validate checks pipeline timing configuration
func (p *PipelineConfig) Validate() error {
	if p.DebounceMs < 10 {
		return errors.NewConfigurationError("PIPELINE_DEBOUNCE_MS must be at least 10 milliseconds", nil)
	}
	if p.DebounceMs > 60000 {
		return errors.NewConfigurationError("PIPELINE_DEBOUNCE_MS cannot exceed 60000 milliseconds", nil)
	}
	if p.EnrichmentTimeoutMs < 100 {
		return errors.NewConfigurationError("PIPELINE_ENRICHMENT_TIMEOUT_MS must be at least 100 milliseconds", nil)
	}
	if p.EnrichmentTimeoutMs > 60000 {
		return errors.NewConfigurationError("PIPELINE_ENRICHMENT_TIMEOUT_MS cannot exceed 60000 milliseconds", nil)
	}
	return nil
}
