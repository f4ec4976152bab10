// Package app provides database initialization and setup.
package app

import (
	"context"
	"time"

	"github.com/guttosm/assembly-service/config"
	"github.com/guttosm/assembly-service/internal/circuitbreaker"
	"github.com/guttosm/assembly-service/internal/repository"
	"github.com/guttosm/assembly-service/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                     *repository.MongoDB
	BoxService             service.BoxService
	ProductResolver        service.ProductResolver
	EventLog               service.EventLogService
	EventWriter            *service.AsyncEventWriter
	BoxesCircuitBreaker    *circuitbreaker.CircuitBreaker
	ProductsCircuitBreaker *circuitbreaker.CircuitBreaker
	EventsCircuitBreaker   *circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes MongoDB and creates the repositories and
// services backed by it. Returns nil if the database is disabled or the
// connection fails.
func InitializeDatabase(cfg config.Config) *DatabaseComponents {
	if !cfg.Database.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.Database.URI, cfg.Database.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Msg("Connected to MongoDB")

	ttlDays := int(cfg.Database.EventsTTL.Hours() / 24)
	if err := db.SetEventsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set events TTL index (may already exist)")
	}

	cbConfig := func(name string) circuitbreaker.Config {
		return circuitbreaker.Config{
			FailureThreshold: cfg.Database.CircuitBreakerFailureThreshold,
			SuccessThreshold: cfg.Database.CircuitBreakerSuccessThreshold,
			Timeout:          cfg.Database.CircuitBreakerTimeout,
			Name:             name,
		}
	}

	boxesCB := circuitbreaker.New(cbConfig("mongodb-boxes"))
	productsCB := circuitbreaker.New(cbConfig("mongodb-products"))
	eventsCB := circuitbreaker.New(cbConfig("mongodb-events"))

	boxesRepo := repository.NewBoxesRepositoryWithCircuitBreaker(
		repository.NewBoxesRepository(db), boxesCB)
	productsRepo := repository.NewProductsRepositoryWithCircuitBreaker(
		repository.NewProductsRepository(db), productsCB)
	eventsRepo := repository.NewEventsRepositoryWithCircuitBreaker(
		repository.NewEventsRepository(db), eventsCB)

	boxService := service.NewBoxService(boxesRepo)
	resolver := service.NewProductCatalogResolver(productsRepo)
	eventLog := service.NewEventLogService(eventsRepo)
	eventWriter := service.NewAsyncEventWriter(eventLog, service.EventWriterConfig{
		BufferSize:   cfg.Events.BufferSize,
		NumWorkers:   cfg.Events.NumWorkers,
		WriteTimeout: cfg.Events.WriteTimeout,
	})

	if err := initializeDefaultBoxes(boxService); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize default box catalog")
	}

	return &DatabaseComponents{
		DB:                     db,
		BoxService:             boxService,
		ProductResolver:        resolver,
		EventLog:               eventLog,
		EventWriter:            eventWriter,
		BoxesCircuitBreaker:    boxesCB,
		ProductsCircuitBreaker: productsCB,
		EventsCircuitBreaker:   eventsCB,
	}
}

// Close flushes the event writer and closes the MongoDB connection.
func (d *DatabaseComponents) Close(ctx context.Context) {
	if d == nil {
		return
	}
	if d.EventWriter != nil {
		d.EventWriter.Stop()
	}
	if d.DB != nil {
		if err := d.DB.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to close MongoDB connection")
		}
	}
}

// initializeDefaultBoxes seeds the built-in box catalog when none exists.
func initializeDefaultBoxes(boxes service.BoxService) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	active, err := boxes.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return nil
	}

	for _, box := range service.DefaultBoxes() {
		if _, err := boxes.Create(ctx, box); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(service.DefaultBoxes())).Msg("Created default box catalog")

	return nil
}
