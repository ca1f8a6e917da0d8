package catalog

import (
	"context"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// IngredientRepository defines the interface for ingredient persistence
type IngredientRepository interface {
	// FindByID finds an ingredient by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Ingredient, error)

	// FindByIDs returns the ingredients that exist among ids, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Ingredient, error)

	// FindAll lists ingredients ordered by name. filter.Search is a
	// case-insensitive name prefix; PageSize 0 disables the limit.
	FindAll(ctx context.Context, filter shared.Filter) ([]Ingredient, error)

	// Save creates or updates an ingredient
	Save(ctx context.Context, ingredient *Ingredient) error

	// SaveBatch inserts ingredients in one transaction, skipping pairs of
	// (name, measurement unit) that already exist. Returns the inserted count.
	SaveBatch(ctx context.Context, ingredients []*Ingredient) (int64, error)
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	// FindByID finds a tag by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)

	// FindByIDs returns the tags that exist among ids, ordered by name
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tag, error)

	// FindAll lists every tag ordered by name
	FindAll(ctx context.Context) ([]Tag, error)

	// ExistsBySlug checks whether a tag with the slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save creates or updates a tag
	Save(ctx context.Context, tag *Tag) error
}
