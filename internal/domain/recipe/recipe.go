package recipe

import (
	"strings"
	"unicode/utf8"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// MinCookingTime and MinAmount are the smallest accepted values, in minutes and units
	MinCookingTime = 1
	MinAmount      = 1
	// MaxSmallValue bounds cooking time and amounts to the smallint column range
	MaxSmallValue = 32767

	maxRecipeNameLength = 200
)

// IngredientLine is one RecipeIngredient row: an amount of a referenced ingredient.
type IngredientLine struct {
	IngredientID uuid.UUID
	Amount       int
}

// Recipe is the aggregate root for a user-authored dish. Its tag set and
// ingredient lines are always replaced as a whole.
type Recipe struct {
	shared.BaseEntity
	AuthorID    uuid.UUID
	Name        string
	Text        string
	Image       string // opaque storage key
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientLine
}

// Content holds the user-editable part of a recipe
type Content struct {
	Name        string
	Text        string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientLine
}

// NewRecipe creates a recipe authored by authorID
func NewRecipe(authorID uuid.UUID, content Content) (*Recipe, error) {
	if authorID == uuid.Nil {
		return nil, shared.NewValidationError("Recipe author is required")
	}

	r := &Recipe{
		BaseEntity: shared.NewBaseEntity(),
		AuthorID:   authorID,
	}
	if err := r.apply(content); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the scalar fields, the tag set and every ingredient line
func (r *Recipe) Update(content Content) error {
	if err := r.apply(content); err != nil {
		return err
	}
	r.Touch()
	return nil
}

// SetImage sets the storage key of the recipe image
func (r *Recipe) SetImage(key string) {
	r.Image = key
	r.Touch()
}

// IngredientIDs returns the referenced ingredient ids in line order
func (r *Recipe) IngredientIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		ids = append(ids, line.IngredientID)
	}
	return ids
}

func (r *Recipe) apply(c Content) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return shared.NewValidationError("Recipe name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxRecipeNameLength {
		return shared.NewValidationError("Recipe name cannot exceed %d characters", maxRecipeNameLength)
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return shared.NewValidationError("Recipe text cannot be empty")
	}
	if c.CookingTime < MinCookingTime || c.CookingTime > MaxSmallValue {
		return shared.NewValidationError("Cooking time must be between %d and %d minutes", MinCookingTime, MaxSmallValue)
	}

	lines, err := validateLines(c.Ingredients)
	if err != nil {
		return err
	}
	tagIDs, err := dedupeTags(c.TagIDs)
	if err != nil {
		return err
	}

	r.Name = name
	r.Text = text
	r.CookingTime = c.CookingTime
	r.TagIDs = tagIDs
	r.Ingredients = lines
	return nil
}

func validateLines(lines []IngredientLine) ([]IngredientLine, error) {
	if len(lines) == 0 {
		return nil, shared.NewValidationError("Recipe must contain at least one ingredient")
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	out := make([]IngredientLine, 0, len(lines))
	for _, line := range lines {
		if line.IngredientID == uuid.Nil {
			return nil, shared.NewValidationError("Ingredient id is required")
		}
		if line.Amount < MinAmount || line.Amount > MaxSmallValue {
			return nil, shared.NewValidationError("Ingredient amount must be between %d and %d", MinAmount, MaxSmallValue)
		}
		if _, dup := seen[line.IngredientID]; dup {
			return nil, shared.NewValidationError("Ingredient %s is listed more than once", line.IngredientID)
		}
		seen[line.IngredientID] = struct{}{}
		out = append(out, line)
	}
	return out, nil
}

func dedupeTags(ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, shared.NewValidationError("Tag id is required")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
