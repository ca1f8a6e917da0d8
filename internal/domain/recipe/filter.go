package recipe

import (
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FilterParams are the recognized recipe list filters as requested by a caller
type FilterParams struct {
	Tags             []string
	AuthorID         *uuid.UUID
	IsFavorited      bool
	IsInShoppingCart bool
}

// ListFilter is the resolved predicate set handed to RecipeRepository.
// Categories are ANDed; Tags is an OR over slugs.
type ListFilter struct {
	Tags        []string
	AuthorID    *uuid.UUID
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
}

// Resolve binds the per-user flags to the viewer. For anonymous viewers the
// favorited and in-cart flags are dropped rather than rejected.
func (p FilterParams) Resolve(viewer shared.Actor) ListFilter {
	f := ListFilter{
		Tags:     dedupeStrings(p.Tags),
		AuthorID: p.AuthorID,
	}
	if !viewer.IsAuthenticated() {
		return f
	}
	userID := viewer.UserID
	if p.IsFavorited {
		f.FavoritedBy = &userID
	}
	if p.IsInShoppingCart {
		f.InCartOf = &userID
	}
	return f
}

func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
