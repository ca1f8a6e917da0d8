package persistence

import (
	"context"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFavoriteRepository implements FavoriteRepository using GORM
type GormFavoriteRepository struct {
	marks recipeMarks
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{marks: recipeMarks{
		db:       db,
		newModel: func() any { return &models.FavoriteModel{} },
	}}
}

// Add inserts the favorite. The unique (user_id, recipe_id) index turns a
// concurrent duplicate into ErrAlreadyExists.
func (r *GormFavoriteRepository) Add(ctx context.Context, favorite *recipe.Favorite) error {
	return r.marks.add(ctx, models.FavoriteModelFromDomain(favorite))
}

// Remove deletes the favorite if present
func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.marks.remove(ctx, userID, recipeID)
}

// Exists checks whether the user has favorited the recipe
func (r *GormFavoriteRepository) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return r.marks.exists(ctx, userID, recipeID)
}

// MarkedAmong returns the subset of recipeIDs the user has favorited
func (r *GormFavoriteRepository) MarkedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.marks.markedAmong(ctx, userID, recipeIDs)
}

var _ recipe.FavoriteRepository = (*GormFavoriteRepository)(nil)
