package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Test case 1: Default values - should load with no environment set
	t.Run("DefaultValues", func(t *testing.T) {
		os.Clearenv()

		config, err := LoadConfig()

		assert.NoError(t, err)
		assert.NotNil(t, config)
		assert.Equal(t, 8080, config.Server.Port)
		assert.Equal(t, "memory", config.Storage.Type)
		assert.Equal(t, "moodtrack.db", config.Storage.SQLitePath)
		assert.Equal(t, "localhost:6379", config.Storage.Redis.Addr)
		assert.Equal(t, "https://api.openweathermap.org/data/2.5", config.Weather.BaseURL)
		assert.Equal(t, "https://api.openweathermap.org/geo/1.0", config.Geocoding.BaseURL)
		assert.Equal(t, "http://ip-api.com/json", config.Location.BaseURL)
		assert.Equal(t, 500, config.Pipeline.DebounceMs)
		assert.Equal(t, 5000, config.Pipeline.EnrichmentTimeoutMs)
	})

	// Test case 2: Custom values - should use provided values
	t.Run("CustomValues", func(t *testing.T) {
		os.Clearenv()

		require.NoError(t, os.Setenv("SERVER_PORT", "9090"))
		require.NoError(t, os.Setenv("STORAGE_TYPE", "redis"))
		require.NoError(t, os.Setenv("REDIS_ADDR", "redis.internal:6380"))
		require.NoError(t, os.Setenv("WEATHER_API_KEY", "custom-api-key"))
		require.NoError(t, os.Setenv("WEATHER_API_BASE_URL", "https://test-api.example.com"))
		require.NoError(t, os.Setenv("GEOCODING_API_KEY", "custom-geo-key"))
		require.NoError(t, os.Setenv("PIPELINE_DEBOUNCE_MS", "250"))
		require.NoError(t, os.Setenv("PIPELINE_ENRICHMENT_TIMEOUT_MS", "2000"))

		config, err := LoadConfig()

		assert.NoError(t, err)
		assert.NotNil(t, config)
		assert.Equal(t, 9090, config.Server.Port)
		assert.Equal(t, "redis", config.Storage.Type)
		assert.Equal(t, "redis.internal:6380", config.Storage.Redis.Addr)
		assert.Equal(t, "custom-api-key", config.Weather.APIKey)
		assert.Equal(t, "https://test-api.example.com", config.Weather.BaseURL)
		assert.Equal(t, "custom-geo-key", config.Geocoding.APIKey)
		assert.Equal(t, 250, config.Pipeline.DebounceMs)
		assert.Equal(t, 2000, config.Pipeline.EnrichmentTimeoutMs)
		assert.Equal(t, 250*time.Millisecond, config.Pipeline.DebounceWindow())
		assert.Equal(t, 2*time.Second, config.Pipeline.EnrichmentTimeout())
	})

	// Test case 3: Invalid values - should fail validation
	t.Run("InvalidStorageType", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("STORAGE_TYPE", "cassandra"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
		assert.Contains(t, err.Error(), "STORAGE_TYPE")
	})

	t.Run("InvalidServerPort", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("SERVER_PORT", "70000"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
		assert.Contains(t, err.Error(), "SERVER_PORT")
	})

	t.Run("InvalidDebounce", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("PIPELINE_DEBOUNCE_MS", "1"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
		assert.Contains(t, err.Error(), "PIPELINE_DEBOUNCE_MS")
	})

	t.Run("InvalidWeatherBaseURL", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("WEATHER_API_BASE_URL", "ftp://example.com"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
		assert.Contains(t, err.Error(), "WEATHER_API_BASE_URL")
	})

	t.Run("PostgresValidation", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("STORAGE_TYPE", "postgres"))
		require.NoError(t, os.Setenv("DB_SSL_MODE", "sometimes"))

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
		assert.Contains(t, err.Error(), "DB_SSL_MODE")
	})
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "mood",
		Password: "secret",
		Name:     "moodtrack",
		SSLMode:  "require",
	}

	dsn := cfg.GetDSN()
	assert.Equal(t, "host=db.internal port=5433 user=mood password=secret dbname=moodtrack sslmode=require", dsn)
}
