package persistence

import (
	"context"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShoppingCartRepository implements ShoppingCartRepository using GORM
type GormShoppingCartRepository struct {
	db    *gorm.DB
	marks recipeMarks
}

// NewGormShoppingCartRepository creates a new GormShoppingCartRepository
func NewGormShoppingCartRepository(db *gorm.DB) *GormShoppingCartRepository {
	return &GormShoppingCartRepository{
		db: db,
		marks: recipeMarks{
			db:       db,
			newModel: func() any { return &models.ShoppingCartEntryModel{} },
		},
	}
}

// Add inserts the cart entry; a duplicate returns ErrAlreadyExists
func (r *GormShoppingCartRepository) Add(ctx context.Context, entry *recipe.ShoppingCartEntry) error {
	return r.marks.add(ctx, models.ShoppingCartEntryModelFromDomain(entry))
}

// Remove deletes the cart entry if present
func (r *GormShoppingCartRepository) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.marks.remove(ctx, userID, recipeID)
}

// Exists checks whether the recipe is in the user's cart
func (r *GormShoppingCartRepository) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return r.marks.exists(ctx, userID, recipeID)
}

// MarkedAmong returns the subset of recipeIDs in the user's cart
func (r *GormShoppingCartRepository) MarkedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.marks.markedAmong(ctx, userID, recipeIDs)
}

// AggregateIngredients sums the amount of every ingredient across the
// recipes in the user's cart in a single grouped query
func (r *GormShoppingCartRepository) AggregateIngredients(ctx context.Context, userID uuid.UUID) ([]recipe.ShoppingListItem, error) {
	var rows []struct {
		IngredientID    uuid.UUID
		Name            string
		MeasurementUnit string
		TotalAmount     int64
	}
	if err := r.db.WithContext(ctx).
		Table("shopping_cart_entries AS c").
		Select("i.id AS ingredient_id, i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total_amount").
		Joins("JOIN recipe_ingredients AS ri ON ri.recipe_id = c.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("c.user_id = ?", userID).
		Group("i.id, i.name, i.measurement_unit").
		Order("i.name ASC, i.measurement_unit ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	items := make([]recipe.ShoppingListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, recipe.ShoppingListItem{
			IngredientID:    row.IngredientID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			TotalAmount:     row.TotalAmount,
		})
	}
	return items, nil
}

var _ recipe.ShoppingCartRepository = (*GormShoppingCartRepository)(nil)
