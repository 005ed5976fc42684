package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/handlers"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/services/enrichment"
	"github.com/ternarybob/reperio/internal/services/events"
	"github.com/ternarybob/reperio/internal/services/filter"
	"github.com/ternarybob/reperio/internal/services/llm"
	"github.com/ternarybob/reperio/internal/services/places"
	"github.com/ternarybob/reperio/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Core services
	EventService      interfaces.EventService
	PlacesService     interfaces.PlacesService
	SearchRouter      interfaces.SearchRouter
	Aggregator        interfaces.CategoryAggregator
	VisionService     interfaces.VisionService
	EnrichmentService interfaces.EnrichmentService
	EnrichmentStore   interfaces.EnrichmentStorage
	FilterEngine      *filter.Engine

	// Storage
	DB *badger.BadgerDB

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	PlacesHandler *handlers.PlacesHandler
	EnrichHandler *handlers.EnrichHandler
	WSHandler     *handlers.WebSocketHandler
}

// New creates the application, wiring all services in dependency order.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.EventService = events.NewService(logger)

	db, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.DB = db

	maxAge, err := time.ParseDuration(cfg.Enrichment.CacheMaxAge)
	if err != nil {
		logger.Warn().
			Str("cache_max_age", cfg.Enrichment.CacheMaxAge).
			Msg("Invalid cache_max_age, defaulting to 24h")
		maxAge = 24 * time.Hour
	}
	a.EnrichmentStore = badger.NewEnrichmentStorage(db, maxAge, logger)

	a.PlacesService = places.NewService(&cfg.PlacesAPI, logger)
	a.SearchRouter = places.NewRouter(a.PlacesService, logger)
	a.Aggregator = places.NewAggregator(a.PlacesService, a.EventService, logger)

	vision, err := llm.NewVisionService(cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize vision service - enrichment will be unavailable")
		vision = nil
	}
	a.VisionService = vision

	a.EnrichmentService = enrichment.NewService(
		&cfg.Enrichment,
		a.VisionService,
		a.PlacesService,
		a.EnrichmentStore,
		a.EventService,
		logger,
	)

	a.FilterEngine = filter.NewEngine()

	a.APIHandler = handlers.NewAPIHandler(logger)
	a.PlacesHandler = handlers.NewPlacesHandler(
		cfg,
		a.PlacesService,
		a.SearchRouter,
		a.Aggregator,
		a.EnrichmentService,
		a.EventService,
		logger,
	)
	a.EnrichHandler = handlers.NewEnrichHandler(a.EnrichmentService, a.FilterEngine, logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, logger)

	logger.Info().Msg("Application initialized")

	return a, nil
}

// Close shuts down application components in reverse dependency order.
func (a *App) Close(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down application")

	if a.VisionService != nil {
		if err := a.VisionService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close vision service")
		}
	}
	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close database")
			return err
		}
	}

	return nil
}
