package recipe

import (
	"strings"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Recognized recipe list query parameters
const (
	ParamTags             = "tags"
	ParamAuthor           = "author"
	ParamIsFavorited      = "is_favorited"
	ParamIsInShoppingCart = "is_in_shopping_cart"
)

// ParseFilter reads the recipe filters from query values. Unknown keys are
// ignored; a malformed author or flag is a validation error.
func ParseFilter(values map[string][]string) (recipe.FilterParams, error) {
	var params recipe.FilterParams

	for _, slug := range values[ParamTags] {
		if slug = strings.TrimSpace(slug); slug != "" {
			params.Tags = append(params.Tags, slug)
		}
	}

	if raw := first(values, ParamAuthor); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return recipe.FilterParams{}, shared.NewValidationError("author must be a user id")
		}
		params.AuthorID = &id
	}

	var err error
	if params.IsFavorited, err = parseFlag(values, ParamIsFavorited); err != nil {
		return recipe.FilterParams{}, err
	}
	if params.IsInShoppingCart, err = parseFlag(values, ParamIsInShoppingCart); err != nil {
		return recipe.FilterParams{}, err
	}
	return params, nil
}

func first(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func parseFlag(values map[string][]string, key string) (bool, error) {
	switch strings.ToLower(first(values, key)) {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, shared.NewValidationError("%s must be 0 or 1", key)
	}
}
