package recipe

import (
	"context"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecipeRepository defines the interface for recipe persistence.
// Loaded recipes always carry their TagIDs and Ingredients.
type RecipeRepository interface {
	// FindByID finds a recipe by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Recipe, error)

	// FindAll lists recipes matching filter, newest first, paged by page
	FindAll(ctx context.Context, filter ListFilter, page shared.Filter) ([]Recipe, error)

	// Count counts recipes matching filter
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// FindPreviewsByAuthors returns up to limit newest recipes per author,
	// keyed by author id; limit <= 0 means all. Only the recipe row is
	// loaded: TagIDs and Ingredients stay empty.
	FindPreviewsByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) (map[uuid.UUID][]Recipe, error)

	// CountByAuthors returns the number of recipes per author id
	CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	// Create inserts a new recipe with its tag links and ingredient lines
	Create(ctx context.Context, recipe *Recipe) error

	// Update rewrites an existing recipe and replaces its tag links and
	// ingredient lines in a single transaction. It returns ErrNotFound when
	// the recipe no longer exists.
	Update(ctx context.Context, recipe *Recipe) error

	// Delete removes the recipe with everything that references it
	Delete(ctx context.Context, id uuid.UUID) error
}

// FavoriteRepository defines the interface for favorite persistence
type FavoriteRepository interface {
	// Add inserts the favorite; a duplicate (user, recipe) returns ErrAlreadyExists
	Add(ctx context.Context, favorite *Favorite) error

	// Remove deletes the favorite if present; removing an absent pair is not an error
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error

	// Exists checks whether the user has favorited the recipe
	Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)

	// MarkedAmong returns the subset of recipeIDs the user has favorited
	MarkedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// ShoppingCartRepository defines the interface for shopping cart persistence
// and the shopping list aggregation over it
type ShoppingCartRepository interface {
	// Add inserts the entry; a duplicate (user, recipe) returns ErrAlreadyExists
	Add(ctx context.Context, entry *ShoppingCartEntry) error

	// Remove deletes the entry if present; removing an absent pair is not an error
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error

	// Exists checks whether the recipe is in the user's cart
	Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)

	// MarkedAmong returns the subset of recipeIDs in the user's cart
	MarkedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	// AggregateIngredients sums ingredient amounts across every recipe in the
	// user's cart, one item per ingredient, ordered by name then unit.
	// An empty cart yields an empty slice.
	AggregateIngredients(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error)
}
