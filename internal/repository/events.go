// Package repository provides data access layer for MongoDB.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventDocument represents one persisted assembly notification.
// This is the repository-level structure that maps directly to MongoDB.
type EventDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Kind      string             `bson:"kind" json:"kind"`
	SessionID string             `bson:"session_id" json:"session_id"`
	RowID     string             `bson:"row_id,omitempty" json:"row_id,omitempty"`
	From      string             `bson:"from,omitempty" json:"from,omitempty"`
	To        string             `bson:"to,omitempty" json:"to,omitempty"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
}

// EventsRepository provides methods for assembly event operations.
type EventsRepository struct {
	collection *mongo.Collection
}

// NewEventsRepository creates a new events repository.
func NewEventsRepository(db *MongoDB) *EventsRepository {
	return &EventsRepository{
		collection: db.Events,
	}
}

// Create inserts a new event document.
func (r *EventsRepository) Create(ctx context.Context, event *EventDocument) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// CreateMany inserts multiple event documents in bulk.
func (r *EventsRepository) CreateMany(ctx context.Context, events []*EventDocument) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]interface{}, len(events))
	for i, event := range events {
		if event.ID.IsZero() {
			event.ID = primitive.NewObjectID()
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now()
		}
		docs[i] = event
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// EventQueryOptions provides options for querying assembly events.
type EventQueryOptions struct {
	SessionID string
	Kind      string
	RowID     string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Skip      int
}

func (opts EventQueryOptions) filter() bson.M {
	filter := bson.M{}
	if opts.SessionID != "" {
		filter["session_id"] = opts.SessionID
	}
	if opts.Kind != "" {
		filter["kind"] = opts.Kind
	}
	if opts.RowID != "" {
		filter["row_id"] = opts.RowID
	}
	if opts.StartTime != nil || opts.EndTime != nil {
		timeFilter := bson.M{}
		if opts.StartTime != nil {
			timeFilter["$gte"] = *opts.StartTime
		}
		if opts.EndTime != nil {
			timeFilter["$lte"] = *opts.EndTime
		}
		filter["timestamp"] = timeFilter
	}
	return filter
}

// Query queries event documents with filters, newest first.
func (r *EventsRepository) Query(ctx context.Context, opts EventQueryOptions) ([]*EventDocument, error) {
	findOptions := options.Find().SetSort(bson.M{"timestamp": -1})
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, opts.filter(), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var events []*EventDocument
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

// Count returns the count of event documents matching the filter.
func (r *EventsRepository) Count(ctx context.Context, opts EventQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, opts.filter())
}
