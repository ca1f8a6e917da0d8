package recipe

import (
	"time"

	catalogapp "github.com/foodgram/backend/internal/application/catalog"
	identityapp "github.com/foodgram/backend/internal/application/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/google/uuid"
)

// IngredientAmountRequest is one ingredient line of a recipe write
type IngredientAmountRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required,min=1,max=32767"`
}

// CreateRecipeRequest represents a request to create a recipe
type CreateRecipeRequest struct {
	Name        string                    `json:"name" binding:"required,min=1,max=200"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1,max=32767"`
	Tags        []uuid.UUID               `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"required,min=1,dive"`
	Image       string                    `json:"image" binding:"required"`
}

// UpdateRecipeRequest replaces every field of a recipe. The image is kept
// when Image is empty.
type UpdateRecipeRequest struct {
	Name        string                    `json:"name" binding:"required,min=1,max=200"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1,max=32767"`
	Tags        []uuid.UUID               `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"required,min=1,dive"`
	Image       string                    `json:"image"`
}

func toContent(name, text string, cookingTime int, tags []uuid.UUID, lines []IngredientAmountRequest) recipe.Content {
	ingredients := make([]recipe.IngredientLine, 0, len(lines))
	for _, l := range lines {
		ingredients = append(ingredients, recipe.IngredientLine{IngredientID: l.ID, Amount: l.Amount})
	}
	return recipe.Content{
		Name:        name,
		Text:        text,
		CookingTime: cookingTime,
		TagIDs:      tags,
		Ingredients: ingredients,
	}
}

// RecipeIngredientResponse represents an ingredient line with its amount
type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full recipe representation
type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Tags             []catalogapp.TagResponse   `json:"tags"`
	Author           identityapp.UserResponse   `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// RecipeShortResponse is the compact view returned by favorite, cart and
// subscription endpoints
type RecipeShortResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// ShoppingListItemResponse is one aggregated shopping list line
type ShoppingListItemResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int64     `json:"amount"`
}

// ListQuery is a recipe listing request
type ListQuery struct {
	Filter   recipe.FilterParams
	Page     int
	PageSize int
}
