package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/mocks"
	"github.com/guttosm/assembly-service/internal/repository"
	"github.com/guttosm/assembly-service/internal/service"
)

func TestBoxService_ListActive(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*mocks.MockBoxesRepositoryInterface)
		expectedError error
		expectedCount int
	}{
		{
			name: "successful list active",
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				boxes := []model.BoxDefinition{
					{Marking: "S", QntFrom: 1, QntTo: 6, Overflow: 1, SelfWeight: 0.3},
					{Marking: "M", QntFrom: 7, QntTo: 12, Overflow: 2, SelfWeight: 0.5},
				}
				m.On("ListActive", mock.Anything).Return(boxes, nil)
			},
			expectedError: nil,
			expectedCount: 2,
		},
		{
			name: "no active boxes",
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				m.On("ListActive", mock.Anything).Return([]model.BoxDefinition{}, nil)
			},
			expectedError: nil,
			expectedCount: 0,
		},
		{
			name: "repository error",
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				m.On("ListActive", mock.Anything).Return(nil, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockBoxesRepositoryInterface)
			tt.setupMock(mockRepo)

			svc := service.NewBoxService(mockRepo)
			boxes, err := svc.ListActive(context.Background())

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, boxes)
			} else {
				assert.NoError(t, err)
				assert.Len(t, boxes, tt.expectedCount)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestBoxService_ListActive_NilRepository(t *testing.T) {
	svc := service.NewBoxService(nil)
	boxes, err := svc.ListActive(context.Background())

	assert.Error(t, err)
	assert.Equal(t, service.ErrRepositoryNotConfigured, err)
	assert.Nil(t, boxes)
}

func TestBoxService_Create(t *testing.T) {
	tests := []struct {
		name          string
		box           model.BoxDefinition
		setupMock     func(*mocks.MockBoxesRepositoryInterface)
		expectedError error
	}{
		{
			name: "successful create",
			box:  model.BoxDefinition{Marking: "L", QntFrom: 13, QntTo: 20, Overflow: 3, SelfWeight: 0.7},
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				config := &repository.BoxConfig{
					ID:        primitive.NewObjectID(),
					Box:       model.BoxDefinition{Marking: "L", QntFrom: 13, QntTo: 20, Overflow: 3, SelfWeight: 0.7},
					Active:    true,
					Version:   1,
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				m.On("Create", mock.Anything, mock.MatchedBy(func(box model.BoxDefinition) bool {
					return box.Marking == "L"
				})).Return(config, nil)
			},
			expectedError: nil,
		},
		{
			name: "repository error",
			box:  model.BoxDefinition{Marking: "L", QntFrom: 13, QntTo: 20},
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("duplicate key"))
			},
			expectedError: errors.New("duplicate key"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockBoxesRepositoryInterface)
			tt.setupMock(mockRepo)

			svc := service.NewBoxService(mockRepo)
			config, err := svc.Create(context.Background(), tt.box)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, config)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, config)
				assert.Equal(t, tt.box.Marking, config.Box.Marking)
				assert.True(t, config.Active)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestBoxService_Create_NilRepository(t *testing.T) {
	svc := service.NewBoxService(nil)
	config, err := svc.Create(context.Background(), model.BoxDefinition{Marking: "S"})

	assert.Error(t, err)
	assert.Equal(t, service.ErrRepositoryNotConfigured, err)
	assert.Nil(t, config)
}

func TestBoxService_Update(t *testing.T) {
	testID := primitive.NewObjectID()

	tests := []struct {
		name          string
		id            primitive.ObjectID
		box           model.BoxDefinition
		active        bool
		setupMock     func(*mocks.MockBoxesRepositoryInterface)
		expectedError error
	}{
		{
			name:   "successful update",
			id:     testID,
			box:    model.BoxDefinition{Marking: "M", QntFrom: 7, QntTo: 14, Overflow: 2, SelfWeight: 0.5},
			active: true,
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				config := &repository.BoxConfig{
					ID:        testID,
					Box:       model.BoxDefinition{Marking: "M", QntFrom: 7, QntTo: 14, Overflow: 2, SelfWeight: 0.5},
					Active:    true,
					Version:   2,
					UpdatedAt: time.Now(),
				}
				m.On("Update", mock.Anything, testID, mock.Anything, true).Return(config, nil)
			},
			expectedError: nil,
		},
		{
			name:   "deactivate box",
			id:     testID,
			box:    model.BoxDefinition{Marking: "M", QntFrom: 7, QntTo: 12},
			active: false,
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				config := &repository.BoxConfig{
					ID:      testID,
					Box:     model.BoxDefinition{Marking: "M", QntFrom: 7, QntTo: 12},
					Active:  false,
					Version: 3,
				}
				m.On("Update", mock.Anything, testID, mock.Anything, false).Return(config, nil)
			},
			expectedError: nil,
		},
		{
			name:   "not found",
			id:     primitive.NewObjectID(),
			box:    model.BoxDefinition{Marking: "XL"},
			active: true,
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				m.On("Update", mock.Anything, mock.AnythingOfType("primitive.ObjectID"), mock.Anything, true).Return(nil, errors.New("not found"))
			},
			expectedError: errors.New("not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockBoxesRepositoryInterface)
			tt.setupMock(mockRepo)

			svc := service.NewBoxService(mockRepo)
			config, err := svc.Update(context.Background(), tt.id, tt.box, tt.active)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, config)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, config)
				assert.Equal(t, tt.active, config.Active)
				assert.Equal(t, tt.box.Marking, config.Box.Marking)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestBoxService_Update_NilRepository(t *testing.T) {
	svc := service.NewBoxService(nil)
	config, err := svc.Update(context.Background(), primitive.NewObjectID(), model.BoxDefinition{Marking: "S"}, true)

	assert.Error(t, err)
	assert.Equal(t, service.ErrRepositoryNotConfigured, err)
	assert.Nil(t, config)
}

func TestBoxService_List(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		setupMock     func(*mocks.MockBoxesRepositoryInterface)
		expectedError error
		expectedCount int
	}{
		{
			name:  "successful list",
			limit: 10,
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				configs := []repository.BoxConfig{
					{ID: primitive.NewObjectID(), Box: model.BoxDefinition{Marking: "S"}, Active: true},
					{ID: primitive.NewObjectID(), Box: model.BoxDefinition{Marking: "M"}, Active: false},
				}
				m.On("List", mock.Anything, 10).Return(configs, nil)
			},
			expectedError: nil,
			expectedCount: 2,
		},
		{
			name:  "empty list",
			limit: 5,
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				m.On("List", mock.Anything, 5).Return([]repository.BoxConfig{}, nil)
			},
			expectedError: nil,
			expectedCount: 0,
		},
		{
			name:  "repository error",
			limit: 10,
			setupMock: func(m *mocks.MockBoxesRepositoryInterface) {
				m.On("List", mock.Anything, 10).Return(nil, errors.New("connection error"))
			},
			expectedError: errors.New("connection error"),
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockBoxesRepositoryInterface)
			tt.setupMock(mockRepo)

			svc := service.NewBoxService(mockRepo)
			configs, err := svc.List(context.Background(), tt.limit)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, configs)
			} else {
				assert.NoError(t, err)
				assert.Len(t, configs, tt.expectedCount)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestBoxService_List_NilRepository(t *testing.T) {
	svc := service.NewBoxService(nil)
	configs, err := svc.List(context.Background(), 10)

	assert.Error(t, err)
	assert.Equal(t, service.ErrRepositoryNotConfigured, err)
	assert.Nil(t, configs)
}
