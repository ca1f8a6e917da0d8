package catalog

import (
	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// CreateTagRequest represents a request to create a tag
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Slug  string `json:"slug" binding:"required,max=200"`
	Color string `json:"color" binding:"required,hexcolor6"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// NewTagResponse builds the view of a tag
func NewTagResponse(t *catalog.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// CreateIngredientRequest represents a request to create an ingredient
type CreateIngredientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=200"`
}

// IngredientResponse represents an ingredient in API responses
type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// NewIngredientResponse builds the view of an ingredient
func NewIngredientResponse(i *catalog.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}
