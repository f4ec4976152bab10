// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/assembly-service/internal/circuitbreaker"
	"github.com/guttosm/assembly-service/internal/domain/model"
)

// ProductsRepositoryWithCircuitBreaker wraps ProductsRepository with circuit breaker protection.
type ProductsRepositoryWithCircuitBreaker struct {
	repo           *ProductsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewProductsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewProductsRepositoryWithCircuitBreaker(repo *ProductsRepository, cb *circuitbreaker.CircuitBreaker) *ProductsRepositoryWithCircuitBreaker {
	return &ProductsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// GetBySKU looks up a product with circuit breaker protection. When the
// circuit is open the lookup reports a miss so the expander falls back to
// its conservative default weights instead of failing the order.
func (r *ProductsRepositoryWithCircuitBreaker) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var result *model.Product
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.GetBySKU(ctx, sku)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil, nil
	}
	return result, err
}

// Upsert writes a catalog record with circuit breaker protection.
func (r *ProductsRepositoryWithCircuitBreaker) Upsert(ctx context.Context, product model.Product) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Upsert(ctx, product)
	})
}

// List returns catalog products with circuit breaker protection.
func (r *ProductsRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]model.Product, error) {
	var result []model.Product
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, limit)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *ProductsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// BoxesRepositoryWithCircuitBreaker wraps BoxesRepository with circuit breaker protection.
type BoxesRepositoryWithCircuitBreaker struct {
	repo           *BoxesRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewBoxesRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewBoxesRepositoryWithCircuitBreaker(repo *BoxesRepository, cb *circuitbreaker.CircuitBreaker) *BoxesRepositoryWithCircuitBreaker {
	return &BoxesRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// ListActive returns active box definitions with circuit breaker protection.
func (r *BoxesRepositoryWithCircuitBreaker) ListActive(ctx context.Context) ([]model.BoxDefinition, error) {
	var result []model.BoxDefinition
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.ListActive(ctx)
		return cbErr
	})
	return result, err
}

// Create inserts a box definition with circuit breaker protection.
func (r *BoxesRepositoryWithCircuitBreaker) Create(ctx context.Context, box model.BoxDefinition) (*BoxConfig, error) {
	var result *BoxConfig
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Create(ctx, box)
		return cbErr
	})
	return result, err
}

// Update replaces a box definition with circuit breaker protection.
func (r *BoxesRepositoryWithCircuitBreaker) Update(ctx context.Context, id primitive.ObjectID, box model.BoxDefinition, active bool) (*BoxConfig, error) {
	var result *BoxConfig
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Update(ctx, id, box, active)
		return cbErr
	})
	return result, err
}

// List returns all box definitions with circuit breaker protection.
func (r *BoxesRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]BoxConfig, error) {
	var result []BoxConfig
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, limit)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *BoxesRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// EventsRepositoryWithCircuitBreaker wraps EventsRepository with circuit breaker protection.
type EventsRepositoryWithCircuitBreaker struct {
	repo           *EventsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewEventsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewEventsRepositoryWithCircuitBreaker(repo *EventsRepository, cb *circuitbreaker.CircuitBreaker) *EventsRepositoryWithCircuitBreaker {
	return &EventsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single event with circuit breaker protection.
// If the circuit is open the write is dropped; the event feed is non-critical.
func (r *EventsRepositoryWithCircuitBreaker) Create(ctx context.Context, event *EventDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, event)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil
	}
	return err
}

// CreateMany stores multiple events with circuit breaker protection.
// If the circuit is open the writes are dropped; the event feed is non-critical.
func (r *EventsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, events []*EventDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, events)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil
	}
	return err
}

// Query retrieves events with circuit breaker protection.
func (r *EventsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts EventQueryOptions) ([]*EventDocument, error) {
	var result []*EventDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the count of events with circuit breaker protection.
func (r *EventsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts EventQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *EventsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
