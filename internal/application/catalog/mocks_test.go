package catalog

import (
	"context"

	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTagRepository is a mock implementation of catalog.TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Tag, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) FindAll(ctx context.Context) ([]catalog.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockTagRepository) Save(ctx context.Context, tag *catalog.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// MockIngredientRepository is a mock implementation of catalog.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Ingredient, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Ingredient, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) Save(ctx context.Context, ingredient *catalog.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockIngredientRepository) SaveBatch(ctx context.Context, ingredients []*catalog.Ingredient) (int64, error) {
	// copy: the caller reuses the slice for the next batch
	batch := append([]*catalog.Ingredient(nil), ingredients...)
	args := m.Called(ctx, batch)
	return args.Get(0).(int64), args.Error(1)
}
