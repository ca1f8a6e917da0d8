package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/foodgram/backend/internal/domain/shared"
)

const (
	maxIngredientNameLength  = 200
	maxMeasurementUnitLength = 200
)

// Ingredient is immutable reference data: a named ingredient and the unit
// its amounts are measured in. The (Name, MeasurementUnit) pair is unique.
type Ingredient struct {
	shared.BaseEntity
	Name            string
	MeasurementUnit string
}

// NewIngredient creates a new ingredient
func NewIngredient(name, measurementUnit string) (*Ingredient, error) {
	name = strings.TrimSpace(name)
	measurementUnit = strings.TrimSpace(measurementUnit)

	if name == "" {
		return nil, shared.NewValidationError("Ingredient name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxIngredientNameLength {
		return nil, shared.NewValidationError("Ingredient name cannot exceed %d characters", maxIngredientNameLength)
	}
	if measurementUnit == "" {
		return nil, shared.NewValidationError("Measurement unit cannot be empty")
	}
	if utf8.RuneCountInString(measurementUnit) > maxMeasurementUnitLength {
		return nil, shared.NewValidationError("Measurement unit cannot exceed %d characters", maxMeasurementUnitLength)
	}

	return &Ingredient{
		BaseEntity:      shared.NewBaseEntity(),
		Name:            name,
		MeasurementUnit: measurementUnit,
	}, nil
}
