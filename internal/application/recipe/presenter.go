package recipe

import (
	"context"

	catalogapp "github.com/foodgram/backend/internal/application/catalog"
	identityapp "github.com/foodgram/backend/internal/application/identity"
	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repositories groups the repositories the recipe services read and write
type Repositories struct {
	Recipes     recipe.RecipeRepository
	Favorites   recipe.FavoriteRepository
	Cart        recipe.ShoppingCartRepository
	Tags        catalog.TagRepository
	Ingredients catalog.IngredientRepository
	Users       identity.UserRepository
	Followings  identity.FollowingRepository
}

// Presenter turns recipes into responses for a given viewer. Related
// authors, tags, ingredients and per-viewer marks are loaded in batches.
type Presenter struct {
	repos  Repositories
	images ImageStorage
	logger *zap.Logger
}

// NewPresenter creates a presenter. images may be nil, in which case image
// URLs are empty.
func NewPresenter(repos Repositories, images ImageStorage, logger *zap.Logger) *Presenter {
	return &Presenter{repos: repos, images: images, logger: logger}
}

// Recipe presents a single recipe
func (p *Presenter) Recipe(ctx context.Context, viewer shared.Actor, r *recipe.Recipe) (*RecipeResponse, error) {
	out, err := p.Recipes(ctx, viewer, []recipe.Recipe{*r})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Recipes presents recipes in the given order
func (p *Presenter) Recipes(ctx context.Context, viewer shared.Actor, recipes []recipe.Recipe) ([]RecipeResponse, error) {
	if len(recipes) == 0 {
		return []RecipeResponse{}, nil
	}

	var recipeIDs, authorIDs, tagIDs, ingredientIDs []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	collect := func(dst *[]uuid.UUID, id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		*dst = append(*dst, id)
	}
	for i := range recipes {
		r := &recipes[i]
		recipeIDs = append(recipeIDs, r.ID)
		collect(&authorIDs, r.AuthorID)
		for _, id := range r.TagIDs {
			collect(&tagIDs, id)
		}
		for _, id := range r.IngredientIDs() {
			collect(&ingredientIDs, id)
		}
	}

	authors, err := p.loadAuthors(ctx, viewer, authorIDs)
	if err != nil {
		return nil, err
	}
	tags, err := p.loadTags(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := p.loadIngredients(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	if viewer.IsAuthenticated() {
		if favorited, err = p.repos.Favorites.MarkedAmong(ctx, viewer.UserID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = p.repos.Cart.MarkedAmong(ctx, viewer.UserID, recipeIDs); err != nil {
			return nil, err
		}
	}

	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		author, ok := authors[r.AuthorID]
		if !ok {
			author = identityapp.UserResponse{ID: r.AuthorID}
		}
		out = append(out, RecipeResponse{
			ID:               r.ID,
			Tags:             tagsOf(r, tags),
			Author:           author,
			Ingredients:      ingredientsOf(r, ingredients),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            p.imageURL(ctx, r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
		})
	}
	return out, nil
}

// Short presents the compact view of a recipe
func (p *Presenter) Short(ctx context.Context, r *recipe.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       p.imageURL(ctx, r.Image),
		CookingTime: r.CookingTime,
	}
}

// ShortList presents the compact view of each recipe
func (p *Presenter) ShortList(ctx context.Context, recipes []recipe.Recipe) []RecipeShortResponse {
	out := make([]RecipeShortResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, p.Short(ctx, &recipes[i]))
	}
	return out
}

func (p *Presenter) imageURL(ctx context.Context, key string) string {
	if key == "" || p.images == nil {
		return ""
	}
	url, err := p.images.URL(ctx, key)
	if err != nil {
		p.logger.Warn("Failed to resolve image URL",
			zap.String("key", key),
			zap.Error(err))
		return ""
	}
	return url
}

func (p *Presenter) loadAuthors(ctx context.Context, viewer shared.Actor, ids []uuid.UUID) (map[uuid.UUID]identityapp.UserResponse, error) {
	users, err := p.repos.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	followed := map[uuid.UUID]bool{}
	if viewer.IsAuthenticated() {
		if followed, err = p.repos.Followings.FollowedAmong(ctx, viewer.UserID, ids); err != nil {
			return nil, err
		}
	}
	out := make(map[uuid.UUID]identityapp.UserResponse, len(users))
	for i := range users {
		out[users[i].ID] = identityapp.NewUserResponse(&users[i], followed[users[i].ID])
	}
	return out, nil
}

// loadTags returns the tags ordered by name
func (p *Presenter) loadTags(ctx context.Context, ids []uuid.UUID) ([]catalog.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return p.repos.Tags.FindByIDs(ctx, ids)
}

func (p *Presenter) loadIngredients(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Ingredient, error) {
	list, err := p.repos.Ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]catalog.Ingredient, len(list))
	for _, ing := range list {
		out[ing.ID] = ing
	}
	return out, nil
}

func tagsOf(r *recipe.Recipe, ordered []catalog.Tag) []catalogapp.TagResponse {
	own := make(map[uuid.UUID]struct{}, len(r.TagIDs))
	for _, id := range r.TagIDs {
		own[id] = struct{}{}
	}
	out := make([]catalogapp.TagResponse, 0, len(r.TagIDs))
	for _, t := range ordered {
		if _, ok := own[t.ID]; ok {
			out = append(out, catalogapp.NewTagResponse(&t))
		}
	}
	return out
}

func ingredientsOf(r *recipe.Recipe, byID map[uuid.UUID]catalog.Ingredient) []RecipeIngredientResponse {
	out := make([]RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		ing := byID[line.IngredientID]
		out = append(out, RecipeIngredientResponse{
			ID:              line.IngredientID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return out
}
