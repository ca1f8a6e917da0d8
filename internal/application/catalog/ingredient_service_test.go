package catalog

import (
	"context"
	"testing"

	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustIngredient(t *testing.T, name, unit string) *catalog.Ingredient {
	t.Helper()
	ing, err := catalog.NewIngredient(name, unit)
	require.NoError(t, err)
	return ing
}

func TestIngredientService_Search(t *testing.T) {
	ctx := context.Background()
	repo := new(MockIngredientRepository)
	svc := NewIngredientService(repo, zap.NewNop())

	flour := mustIngredient(t, "flour", "g")
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "fl" && f.PageSize == 0
	})).Return([]catalog.Ingredient{*flour}, nil)

	out, err := svc.Search(ctx, "  fl ")

	require.NoError(t, err)
	assert.Equal(t, []IngredientResponse{{ID: flour.ID, Name: "flour", MeasurementUnit: "g"}}, out)
}

func TestIngredientService_Search_NoMatches(t *testing.T) {
	ctx := context.Background()
	repo := new(MockIngredientRepository)
	svc := NewIngredientService(repo, zap.NewNop())

	repo.On("FindAll", ctx, mock.Anything).Return([]catalog.Ingredient{}, nil)

	out, err := svc.Search(ctx, "zz")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestIngredientService_Create(t *testing.T) {
	ctx := context.Background()
	admin := shared.NewActor(uuid.New(), true)

	t.Run("admin", func(t *testing.T) {
		repo := new(MockIngredientRepository)
		svc := NewIngredientService(repo, zap.NewNop())
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Ingredient")).Return(nil)

		resp, err := svc.Create(ctx, admin, CreateIngredientRequest{Name: " salt ", MeasurementUnit: "g"})

		require.NoError(t, err)
		assert.Equal(t, "salt", resp.Name)
	})

	t.Run("duplicate pair", func(t *testing.T) {
		repo := new(MockIngredientRepository)
		svc := NewIngredientService(repo, zap.NewNop())
		repo.On("Save", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.Create(ctx, admin, CreateIngredientRequest{Name: "salt", MeasurementUnit: "g"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "name and unit")
	})

	t.Run("regular user", func(t *testing.T) {
		svc := NewIngredientService(new(MockIngredientRepository), zap.NewNop())
		_, err := svc.Create(ctx, shared.NewActor(uuid.New(), false), CreateIngredientRequest{Name: "salt", MeasurementUnit: "g"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
