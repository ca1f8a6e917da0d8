package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngredientService handles ingredient search and admin-only creation
type IngredientService struct {
	ingredientRepo catalog.IngredientRepository
	logger         *zap.Logger
}

// NewIngredientService creates a new IngredientService
func NewIngredientService(ingredientRepo catalog.IngredientRepository, logger *zap.Logger) *IngredientService {
	return &IngredientService{ingredientRepo: ingredientRepo, logger: logger}
}

// Search lists ingredients whose name starts with prefix, ordered by name.
// An empty prefix lists every ingredient.
func (s *IngredientService) Search(ctx context.Context, prefix string) ([]IngredientResponse, error) {
	ingredients, err := s.ingredientRepo.FindAll(ctx, shared.Filter{
		Search:   strings.TrimSpace(prefix),
		OrderBy:  "name",
		OrderDir: "asc",
	})
	if err != nil {
		return nil, err
	}
	out := make([]IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		out = append(out, NewIngredientResponse(&ingredients[i]))
	}
	return out, nil
}

// Get returns one ingredient
func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*IngredientResponse, error) {
	ingredient, err := s.ingredientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := NewIngredientResponse(ingredient)
	return &resp, nil
}

// Create adds an ingredient. Only admins may create ingredients; a repeated
// (name, measurement unit) pair is rejected by the repository.
func (s *IngredientService) Create(ctx context.Context, actor shared.Actor, req CreateIngredientRequest) (*IngredientResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	ingredient, err := catalog.NewIngredient(req.Name, req.MeasurementUnit)
	if err != nil {
		return nil, err
	}
	if err := s.ingredientRepo.Save(ctx, ingredient); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewAlreadyExistsError("An ingredient with this name and unit already exists")
		}
		return nil, err
	}

	s.logger.Info("Ingredient created",
		zap.String("ingredient_id", ingredient.ID.String()),
		zap.String("name", ingredient.Name))

	resp := NewIngredientResponse(ingredient)
	return &resp, nil
}
