package app

import (
	"context"
	"fmt"
	"log/slog"

	"moodtrack.app/api"
	"moodtrack.app/config"
	"moodtrack.app/metrics"
	"moodtrack.app/pipeline"
	"moodtrack.app/providers"
	"moodtrack.app/repository"
	"moodtrack.app/storage"
	"moodtrack.app/suggestion"
)

// Application represents the main application with all its dependencies
type Application struct {
	config   *config.Config
	store    storage.KeyValueStore
	pipeline *pipeline.Pipeline
	server   *api.Server
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeStorage(); err != nil {
		return nil, err
	}

	app.initializeServices()

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeStorage() error {
	slog.Info("Initializing storage backend...", "type", app.config.Storage.Type)

	store, err := storage.NewStore(&app.config.Storage)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		return fmt.Errorf("initialize storage backend: %w", err)
	}

	app.store = store
	slog.Info("Storage initialized successfully")
	return nil
}

func (app *Application) initializeServices() {
	slog.Info("Initializing services...")

	entries := repository.NewEntryStore(app.store)
	profiles := repository.NewProfileStore(app.store)

	var weather providers.WeatherProvider
	if app.config.Weather.APIKey != "" {
		weather = providers.NewWeatherLoggerDecorator(
			providers.NewOpenWeatherMapProvider(&app.config.Weather),
			"OpenWeatherMap",
		)
	} else {
		slog.Warn("No weather API key configured; entries will be committed without weather context")
	}

	var geocoder providers.Geocoder
	if app.config.Geocoding.APIKey != "" {
		geocoder = providers.NewReverseGeocodingProvider(&app.config.Geocoding)
	}

	location := providers.NewIPLocationSource(&app.config.Location)
	engine := suggestion.NewHeuristicEngine(randomSeed())

	app.pipeline = pipeline.New(context.Background(), pipeline.Options{
		Entries:        entries,
		Profiles:       profiles,
		Weather:        weather,
		Geocoder:       geocoder,
		Location:       location,
		Engine:         engine,
		Metrics:        metrics.NewPipelineMetrics(),
		DebounceWindow: app.config.Pipeline.DebounceWindow(),
		EnrichTimeout:  app.config.Pipeline.EnrichmentTimeout(),
	})

	app.server = api.NewServer(app.config, app.pipeline)

	slog.Info("Services initialized successfully")
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.pipeline != nil {
		app.pipeline.Close()
	}

	if app.store != nil {
		if err := app.store.Close(); err != nil {
			slog.Warn("Error closing storage", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
