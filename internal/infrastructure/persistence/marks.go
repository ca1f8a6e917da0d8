package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recipeMarks holds the queries shared by the per-user recipe lists
// (favorites and the shopping cart). Both tables key on (user_id, recipe_id).
type recipeMarks struct {
	db       *gorm.DB
	newModel func() any
}

func (m recipeMarks) add(ctx context.Context, model any) error {
	return translateError(m.db.WithContext(ctx).Create(model).Error)
}

// remove deletes the pair if present. Removing an absent pair is not an error.
func (m recipeMarks) remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	return translateError(m.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(m.newModel()).Error)
}

func (m recipeMarks) exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := m.db.WithContext(ctx).
		Model(m.newModel()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (m recipeMarks) markedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	marked := make(map[uuid.UUID]bool)
	if len(recipeIDs) == 0 {
		return marked, nil
	}

	var ids []uuid.UUID
	if err := m.db.WithContext(ctx).
		Model(m.newModel()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, translateError(err)
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}
