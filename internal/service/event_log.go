package service

import (
	"context"
	"time"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/repository"
)

// EventLogService defines the interface for persisting and querying
// engine notification events.
// This interface can be mocked for testing using mockery.
type EventLogService interface {
	// RecordEvent stores a single event.
	RecordEvent(ctx context.Context, event *model.Event) error

	// RecordEvents stores multiple events in bulk.
	RecordEvents(ctx context.Context, events []*model.Event) error

	// QueryEvents retrieves events matching the query options.
	QueryEvents(ctx context.Context, opts model.EventQueryOptions) ([]model.Event, error)

	// CountEvents returns the count of events matching the query options.
	CountEvents(ctx context.Context, opts model.EventQueryOptions) (int64, error)
}

// EventLogServiceImpl implements the EventLogService interface.
type EventLogServiceImpl struct {
	repo repository.EventsRepositoryInterface
}

// NewEventLogService creates a new event log service implementation.
func NewEventLogService(repo repository.EventsRepositoryInterface) EventLogService {
	return &EventLogServiceImpl{
		repo: repo,
	}
}

// RecordEvent stores a single event.
func (s *EventLogServiceImpl) RecordEvent(ctx context.Context, event *model.Event) error {
	return s.repo.Create(ctx, s.modelToDocument(event))
}

// RecordEvents stores multiple events in bulk.
func (s *EventLogServiceImpl) RecordEvents(ctx context.Context, events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]*repository.EventDocument, len(events))
	for i, event := range events {
		docs[i] = s.modelToDocument(event)
	}

	return s.repo.CreateMany(ctx, docs)
}

// QueryEvents retrieves events matching the query options.
func (s *EventLogServiceImpl) QueryEvents(ctx context.Context, opts model.EventQueryOptions) ([]model.Event, error) {
	docs, err := s.repo.Query(ctx, s.repoOptions(opts))
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, len(docs))
	for i, doc := range docs {
		events[i] = s.documentToModel(doc)
	}

	return events, nil
}

// CountEvents returns the count of events matching the query options.
func (s *EventLogServiceImpl) CountEvents(ctx context.Context, opts model.EventQueryOptions) (int64, error) {
	return s.repo.Count(ctx, s.repoOptions(opts))
}

func (s *EventLogServiceImpl) repoOptions(opts model.EventQueryOptions) repository.EventQueryOptions {
	return repository.EventQueryOptions{
		SessionID: opts.SessionID,
		Kind:      string(opts.Kind),
		RowID:     opts.RowID,
		StartTime: opts.StartTime,
		EndTime:   opts.EndTime,
		Limit:     opts.Limit,
		Skip:      opts.Skip,
	}
}

// modelToDocument converts a domain event to a repository document.
func (s *EventLogServiceImpl) modelToDocument(event *model.Event) *repository.EventDocument {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	return &repository.EventDocument{
		Timestamp: event.Timestamp,
		Kind:      string(event.Kind),
		SessionID: event.SessionID,
		RowID:     event.RowID,
		From:      string(event.From),
		To:        string(event.To),
		Reason:    event.Reason,
	}
}

// documentToModel converts a repository document to a domain event.
func (s *EventLogServiceImpl) documentToModel(doc *repository.EventDocument) model.Event {
	return model.Event{
		Kind:      model.EventKind(doc.Kind),
		SessionID: doc.SessionID,
		RowID:     doc.RowID,
		From:      model.Status(doc.From),
		To:        model.Status(doc.To),
		Reason:    doc.Reason,
		Timestamp: doc.Timestamp,
	}
}
