package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a user-to-recipe bookmark, unique per (user, recipe)
type Favorite struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	RecipeID  uuid.UUID
	CreatedAt time.Time
}

// NewFavorite creates a favorite association
func NewFavorite(userID, recipeID uuid.UUID) *Favorite {
	return &Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC(),
	}
}

// ShoppingCartEntry places a recipe in a user's shopping cart, unique per (user, recipe)
type ShoppingCartEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	RecipeID  uuid.UUID
	CreatedAt time.Time
}

// NewShoppingCartEntry creates a shopping cart entry
func NewShoppingCartEntry(userID, recipeID uuid.UUID) *ShoppingCartEntry {
	return &ShoppingCartEntry{
		ID:        uuid.New(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC(),
	}
}

// ShoppingListItem is one aggregated line of a user's shopping list
type ShoppingListItem struct {
	IngredientID    uuid.UUID
	Name            string
	MeasurementUnit string
	TotalAmount     int64
}
