// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/repository"
)

type MockBoxesRepositoryInterface struct {
	mock.Mock
}

func (m *MockBoxesRepositoryInterface) ListActive(ctx context.Context) ([]model.BoxDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BoxDefinition), args.Error(1)
}

func (m *MockBoxesRepositoryInterface) Create(ctx context.Context, box model.BoxDefinition) (*repository.BoxConfig, error) {
	args := m.Called(ctx, box)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.BoxConfig), args.Error(1)
}

func (m *MockBoxesRepositoryInterface) Update(ctx context.Context, id primitive.ObjectID, box model.BoxDefinition, active bool) (*repository.BoxConfig, error) {
	args := m.Called(ctx, id, box, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.BoxConfig), args.Error(1)
}

func (m *MockBoxesRepositoryInterface) List(ctx context.Context, limit int) ([]repository.BoxConfig, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.BoxConfig), args.Error(1)
}
