// Package repository provides data access for box definitions.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

// BoxConfig represents a box definition document.
type BoxConfig struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Box       model.BoxDefinition `bson:"box" json:"box"`
	Active    bool                `bson:"active" json:"active"`
	Version   int                 `bson:"version" json:"version"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// BoxesRepository provides methods for box definition operations.
type BoxesRepository struct {
	collection *mongo.Collection
}

// NewBoxesRepository creates a new boxes repository.
func NewBoxesRepository(db *MongoDB) *BoxesRepository {
	return &BoxesRepository{
		collection: db.Boxes,
	}
}

// ListActive returns the active box definitions sorted by nominal capacity.
func (r *BoxesRepository) ListActive(ctx context.Context) ([]model.BoxDefinition, error) {
	opts := options.Find().SetSort(bson.M{"box.qnt_to": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var configs []BoxConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, err
	}

	boxes := make([]model.BoxDefinition, 0, len(configs))
	for _, cfg := range configs {
		boxes = append(boxes, cfg.Box)
	}
	return boxes, nil
}

// Create inserts a new active box definition.
func (r *BoxesRepository) Create(ctx context.Context, box model.BoxDefinition) (*BoxConfig, error) {
	config := BoxConfig{
		ID:        primitive.NewObjectID(),
		Box:       box,
		Active:    true,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// Update replaces the box definition and bumps its version.
func (r *BoxesRepository) Update(ctx context.Context, id primitive.ObjectID, box model.BoxDefinition, active bool) (*BoxConfig, error) {
	var current BoxConfig
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&current)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"box":        box,
			"active":     active,
			"updated_at": time.Now(),
			"version":    current.Version + 1,
		},
	}

	var config BoxConfig
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// List returns all box definition documents, newest first.
func (r *BoxesRepository) List(ctx context.Context, limit int) ([]BoxConfig, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var configs []BoxConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, err
	}

	return configs, nil
}
