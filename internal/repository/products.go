// Package repository provides data access for the product catalog.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

// ProductsRepository provides methods for product catalog operations.
type ProductsRepository struct {
	collection *mongo.Collection
}

// NewProductsRepository creates a new products repository.
func NewProductsRepository(db *MongoDB) *ProductsRepository {
	return &ProductsRepository{
		collection: db.Products,
	}
}

// GetBySKU returns the product with the given SKU, or nil when unknown.
func (r *ProductsRepository) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"sku": sku}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Upsert inserts or replaces the catalog record for the product's SKU.
func (r *ProductsRepository) Upsert(ctx context.Context, product model.Product) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":         product.Name,
			"weight":       product.Weight,
			"category_id":  product.CategoryID,
			"manual_order": product.ManualOrder,
			"barcode":      product.Barcode,
			"set":          product.Set,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"sku": product.SKU},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

// List returns catalog products sorted by SKU.
func (r *ProductsRepository) List(ctx context.Context, limit int) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.M{"sku": 1})
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

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	return products, nil
}
