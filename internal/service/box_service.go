package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/repository"
)

// ErrRepositoryNotConfigured is returned when the repository is not configured.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

// DefaultBoxes is the box catalog used when no database-backed catalog is
// configured.
func DefaultBoxes() []model.BoxDefinition {
	return []model.BoxDefinition{
		{Marking: "S-10", QntFrom: 1, QntTo: 10, Overflow: 1, Weight: 8, SelfWeight: 0.3, Barcode: "2000000000104"},
		{Marking: "M-25", QntFrom: 11, QntTo: 25, Overflow: 2, Weight: 15, SelfWeight: 0.5, Barcode: "2000000000258"},
		{Marking: "L-40", QntFrom: 26, QntTo: 40, Overflow: 3, Weight: 25, SelfWeight: 0.8, Barcode: "2000000000401"},
	}
}

// StaticBoxCatalog serves a fixed box list without a database.
type StaticBoxCatalog []model.BoxDefinition

// ListActive returns the catalog as-is.
func (c StaticBoxCatalog) ListActive(_ context.Context) ([]model.BoxDefinition, error) {
	return c, nil
}

// NewStaticBoxService wraps a fixed catalog in the BoxService interface.
// Catalog writes are rejected; used when MongoDB is disabled.
func NewStaticBoxService(boxes []model.BoxDefinition) BoxService {
	return &staticBoxService{boxes: boxes}
}

type staticBoxService struct {
	boxes []model.BoxDefinition
}

func (s *staticBoxService) ListActive(_ context.Context) ([]model.BoxDefinition, error) {
	return s.boxes, nil
}

func (s *staticBoxService) Create(_ context.Context, _ model.BoxDefinition) (*repository.BoxConfig, error) {
	return nil, ErrRepositoryNotConfigured
}

func (s *staticBoxService) Update(_ context.Context, _ primitive.ObjectID, _ model.BoxDefinition, _ bool) (*repository.BoxConfig, error) {
	return nil, ErrRepositoryNotConfigured
}

func (s *staticBoxService) List(_ context.Context, _ int) ([]repository.BoxConfig, error) {
	return nil, ErrRepositoryNotConfigured
}

// BoxService provides box catalog operations. It also serves as the
// BoxCatalog port for assembly sessions.
type BoxService interface {
	ListActive(ctx context.Context) ([]model.BoxDefinition, error)
	Create(ctx context.Context, box model.BoxDefinition) (*repository.BoxConfig, error)
	Update(ctx context.Context, id primitive.ObjectID, box model.BoxDefinition, active bool) (*repository.BoxConfig, error)
	List(ctx context.Context, limit int) ([]repository.BoxConfig, error)
}

// BoxServiceImpl implements BoxService.
type BoxServiceImpl struct {
	boxesRepo repository.BoxesRepositoryInterface
}

// NewBoxService creates a new box catalog service.
func NewBoxService(boxesRepo repository.BoxesRepositoryInterface) BoxService {
	if boxesRepo == nil {
		return &BoxServiceImpl{}
	}
	return &BoxServiceImpl{
		boxesRepo: boxesRepo,
	}
}

func (s *BoxServiceImpl) ListActive(ctx context.Context) ([]model.BoxDefinition, error) {
	if s.boxesRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.boxesRepo.ListActive(ctx)
}

func (s *BoxServiceImpl) Create(ctx context.Context, box model.BoxDefinition) (*repository.BoxConfig, error) {
	if s.boxesRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.boxesRepo.Create(ctx, box)
}

func (s *BoxServiceImpl) Update(ctx context.Context, id primitive.ObjectID, box model.BoxDefinition, active bool) (*repository.BoxConfig, error) {
	if s.boxesRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.boxesRepo.Update(ctx, id, box, active)
}

func (s *BoxServiceImpl) List(ctx context.Context, limit int) ([]repository.BoxConfig, error) {
	if s.boxesRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.boxesRepo.List(ctx, limit)
}
