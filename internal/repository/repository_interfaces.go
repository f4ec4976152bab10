// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

// ProductsRepositoryInterface defines the interface for product catalog operations.
type ProductsRepositoryInterface interface {
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)
	Upsert(ctx context.Context, product model.Product) error
	List(ctx context.Context, limit int) ([]model.Product, error)
}

// BoxesRepositoryInterface defines the interface for box definition operations.
type BoxesRepositoryInterface interface {
	ListActive(ctx context.Context) ([]model.BoxDefinition, error)
	Create(ctx context.Context, box model.BoxDefinition) (*BoxConfig, error)
	Update(ctx context.Context, id primitive.ObjectID, box model.BoxDefinition, active bool) (*BoxConfig, error)
	List(ctx context.Context, limit int) ([]BoxConfig, error)
}

// EventsRepositoryInterface defines the interface for assembly event operations.
type EventsRepositoryInterface interface {
	Create(ctx context.Context, event *EventDocument) error
	CreateMany(ctx context.Context, events []*EventDocument) error
	Query(ctx context.Context, opts EventQueryOptions) ([]*EventDocument, error)
	Count(ctx context.Context, opts EventQueryOptions) (int64, error)
}
