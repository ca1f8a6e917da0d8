package catalog

import (
	"strings"
	"testing"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIngredient(t *testing.T) {
	t.Run("trims and creates", func(t *testing.T) {
		ing, err := NewIngredient("  сахар ", " г ")
		require.NoError(t, err)
		assert.Equal(t, "сахар", ing.Name)
		assert.Equal(t, "г", ing.MeasurementUnit)
		assert.NotEmpty(t, ing.ID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewIngredient(" ", "g")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects empty unit", func(t *testing.T) {
		_, err := NewIngredient("salt", "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		_, err := NewIngredient(strings.Repeat("я", 200), "g")
		assert.NoError(t, err)
		_, err = NewIngredient(strings.Repeat("я", 201), "g")
		assert.Error(t, err)
	})
}

func TestNewTag(t *testing.T) {
	tests := []struct {
		name    string
		tagName string
		slug    string
		color   string
		wantErr bool
	}{
		{"valid", "Breakfast", "breakfast", "#E26C2D", false},
		{"lowercase color accepted", "Lunch", "lunch", "#49b64e", false},
		{"empty name", "", "x", "#000000", true},
		{"slug with spaces", "Dinner", "late dinner", "#000000", true},
		{"short color", "Dinner", "dinner", "#FFF", true},
		{"color without hash", "Dinner", "dinner", "FFFFFF", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := NewTag(tt.tagName, tt.slug, tt.color)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.slug, tag.Slug)
			assert.Equal(t, strings.ToUpper(tt.color), tag.Color)
		})
	}
}
