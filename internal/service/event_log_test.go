//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockEventsRepository struct {
	mock.Mock
}

func (m *MockEventsRepository) Create(ctx context.Context, event *repository.EventDocument) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventsRepository) CreateMany(ctx context.Context, events []*repository.EventDocument) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventsRepository) Query(ctx context.Context, opts repository.EventQueryOptions) ([]*repository.EventDocument, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	docs, _ := args.Get(0).([]*repository.EventDocument)
	return docs, args.Error(1)
}

func (m *MockEventsRepository) Count(ctx context.Context, opts repository.EventQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func TestNewEventLogService(t *testing.T) {
	mockRepo := new(MockEventsRepository)
	service := NewEventLogService(mockRepo)

	assert.NotNil(t, service)
	assert.IsType(t, &EventLogServiceImpl{}, service)
}

func TestEventLogService_RecordEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     *model.Event
		setupMock func(*MockEventsRepository)
		wantError bool
	}{
		{
			name: "successful record",
			event: &model.Event{
				Kind:      model.EventRowTransitioned,
				SessionID: "sess-1",
				RowID:     "row-1",
				From:      model.StatusDefault,
				To:        model.StatusPending,
			},
			setupMock: func(m *MockEventsRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.EventDocument) bool {
					return doc.Kind == string(model.EventRowTransitioned) &&
						doc.SessionID == "sess-1" &&
						doc.From == string(model.StatusDefault) &&
						doc.To == string(model.StatusPending)
				})).Return(nil)
			},
			wantError: false,
		},
		{
			name: "record with timestamp preserved",
			event: &model.Event{
				Kind:      model.EventSessionCompleted,
				SessionID: "sess-1",
				Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			},
			setupMock: func(m *MockEventsRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.EventDocument) bool {
					return doc.Timestamp.Equal(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
				})).Return(nil)
			},
			wantError: false,
		},
		{
			name: "record error",
			event: &model.Event{
				Kind:      model.EventScanRejected,
				SessionID: "sess-1",
				Reason:    "scan.box_not_found",
			},
			setupMock: func(m *MockEventsRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("database error"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEventsRepository)
			tt.setupMock(mockRepo)
			service := NewEventLogService(mockRepo)

			err := service.RecordEvent(context.Background(), tt.event)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.False(t, tt.event.Timestamp.IsZero())
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEventLogService_RecordEvents(t *testing.T) {
	tests := []struct {
		name      string
		events    []*model.Event
		setupMock func(*MockEventsRepository)
		wantError bool
	}{
		{
			name: "successful record multiple",
			events: []*model.Event{
				{Kind: model.EventRowTransitioned, SessionID: "sess-1", RowID: "row-1"},
				{Kind: model.EventWeightRejected, SessionID: "sess-1", RowID: "row-1"},
			},
			setupMock: func(m *MockEventsRepository) {
				m.On("CreateMany", mock.Anything, mock.MatchedBy(func(docs []*repository.EventDocument) bool {
					return len(docs) == 2
				})).Return(nil)
			},
			wantError: false,
		},
		{
			name:   "empty events",
			events: []*model.Event{},
			setupMock: func(m *MockEventsRepository) {
			},
			wantError: false,
		},
		{
			name: "record error",
			events: []*model.Event{
				{Kind: model.EventPackingInfeasible, SessionID: "sess-1"},
			},
			setupMock: func(m *MockEventsRepository) {
				m.On("CreateMany", mock.Anything, mock.Anything).Return(errors.New("database error"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEventsRepository)
			tt.setupMock(mockRepo)
			service := NewEventLogService(mockRepo)

			err := service.RecordEvents(context.Background(), tt.events)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEventLogService_QueryEvents(t *testing.T) {
	tests := []struct {
		name      string
		opts      model.EventQueryOptions
		setupMock func(*MockEventsRepository)
		wantCount int
		wantError bool
	}{
		{
			name: "query by session",
			opts: model.EventQueryOptions{
				SessionID: "sess-1",
			},
			setupMock: func(m *MockEventsRepository) {
				docs := []*repository.EventDocument{
					{ID: primitive.NewObjectID(), SessionID: "sess-1", Kind: "row_transitioned"},
				}
				m.On("Query", mock.Anything, mock.MatchedBy(func(opts repository.EventQueryOptions) bool {
					return opts.SessionID == "sess-1"
				})).Return(docs, nil)
			},
			wantCount: 1,
			wantError: false,
		},
		{
			name: "query by kind",
			opts: model.EventQueryOptions{
				Kind: model.EventWeightRejected,
			},
			setupMock: func(m *MockEventsRepository) {
				docs := []*repository.EventDocument{
					{ID: primitive.NewObjectID(), Kind: "weight_rejected", Reason: "weight.out_of_tolerance"},
				}
				m.On("Query", mock.Anything, mock.MatchedBy(func(opts repository.EventQueryOptions) bool {
					return opts.Kind == "weight_rejected"
				})).Return(docs, nil)
			},
			wantCount: 1,
			wantError: false,
		},
		{
			name: "query with time range",
			opts: model.EventQueryOptions{
				StartTime: func() *time.Time { t := time.Now().Add(-1 * time.Hour); return &t }(),
				EndTime:   func() *time.Time { t := time.Now(); return &t }(),
			},
			setupMock: func(m *MockEventsRepository) {
				docs := []*repository.EventDocument{}
				m.On("Query", mock.Anything, mock.Anything).Return(docs, nil)
			},
			wantCount: 0,
			wantError: false,
		},
		{
			name: "query error",
			opts: model.EventQueryOptions{},
			setupMock: func(m *MockEventsRepository) {
				m.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("database error"))
			},
			wantCount: 0,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEventsRepository)
			tt.setupMock(mockRepo)
			service := NewEventLogService(mockRepo)

			events, err := service.QueryEvents(context.Background(), tt.opts)

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, events)
			} else {
				assert.NoError(t, err)
				assert.Len(t, events, tt.wantCount)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEventLogService_CountEvents(t *testing.T) {
	tests := []struct {
		name      string
		opts      model.EventQueryOptions
		setupMock func(*MockEventsRepository)
		wantCount int64
		wantError bool
	}{
		{
			name: "count all events",
			opts: model.EventQueryOptions{},
			setupMock: func(m *MockEventsRepository) {
				m.On("Count", mock.Anything, mock.Anything).Return(int64(10), nil)
			},
			wantCount: 10,
			wantError: false,
		},
		{
			name: "count with filter",
			opts: model.EventQueryOptions{
				Kind: model.EventScanRejected,
			},
			setupMock: func(m *MockEventsRepository) {
				m.On("Count", mock.Anything, mock.MatchedBy(func(opts repository.EventQueryOptions) bool {
					return opts.Kind == "scan_rejected"
				})).Return(int64(5), nil)
			},
			wantCount: 5,
			wantError: false,
		},
		{
			name: "count error",
			opts: model.EventQueryOptions{},
			setupMock: func(m *MockEventsRepository) {
				m.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("database error"))
			},
			wantCount: 0,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEventsRepository)
			tt.setupMock(mockRepo)
			service := NewEventLogService(mockRepo)

			count, err := service.CountEvents(context.Background(), tt.opts)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCount, count)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEventLogService_modelToDocument(t *testing.T) {
	service := &EventLogServiceImpl{}

	t.Run("stamps zero timestamp", func(t *testing.T) {
		event := &model.Event{
			Kind:      model.EventRowTransitioned,
			SessionID: "sess-1",
		}
		doc := service.modelToDocument(event)
		assert.False(t, doc.Timestamp.IsZero())
	})

	t.Run("converts all fields", func(t *testing.T) {
		ts := time.Now().Add(-1 * time.Hour)
		event := &model.Event{
			Kind:      model.EventRowTransitioned,
			SessionID: "sess-1",
			RowID:     "row-3",
			From:      model.StatusPending,
			To:        model.StatusDone,
			Reason:    "weight.valid",
			Timestamp: ts,
		}
		doc := service.modelToDocument(event)
		assert.Equal(t, string(event.Kind), doc.Kind)
		assert.Equal(t, event.SessionID, doc.SessionID)
		assert.Equal(t, event.RowID, doc.RowID)
		assert.Equal(t, string(event.From), doc.From)
		assert.Equal(t, string(event.To), doc.To)
		assert.Equal(t, event.Reason, doc.Reason)
		assert.Equal(t, ts, doc.Timestamp)
	})
}

func TestEventLogService_documentToModel(t *testing.T) {
	service := &EventLogServiceImpl{}

	doc := &repository.EventDocument{
		ID:        primitive.NewObjectID(),
		Timestamp: time.Now(),
		Kind:      "weight_rejected",
		SessionID: "sess-1",
		RowID:     "row-2",
		From:      "pending",
		To:        "error",
		Reason:    "weight.out_of_tolerance",
	}

	event := service.documentToModel(doc)

	assert.Equal(t, model.EventWeightRejected, event.Kind)
	assert.Equal(t, doc.SessionID, event.SessionID)
	assert.Equal(t, doc.RowID, event.RowID)
	assert.Equal(t, model.StatusPending, event.From)
	assert.Equal(t, model.StatusError, event.To)
	assert.Equal(t, doc.Reason, event.Reason)
	assert.Equal(t, doc.Timestamp, event.Timestamp)
}
