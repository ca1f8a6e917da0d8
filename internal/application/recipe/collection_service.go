package recipe

import (
	"context"
	"errors"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CollectionService manages the caller's favorites and shopping cart and
// builds the shopping list from the cart
type CollectionService struct {
	recipes   recipe.RecipeRepository
	favorites recipe.FavoriteRepository
	cart      recipe.ShoppingCartRepository
	presenter *Presenter
	metrics   *telemetry.RecipeMetrics
	logger    *zap.Logger
}

// NewCollectionService creates a new collection service. metrics may be nil.
func NewCollectionService(
	repos Repositories,
	presenter *Presenter,
	metrics *telemetry.RecipeMetrics,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		recipes:   repos.Recipes,
		favorites: repos.Favorites,
		cart:      repos.Cart,
		presenter: presenter,
		metrics:   metrics,
		logger:    logger,
	}
}

// collection is one per-user recipe list
type collection struct {
	list      string
	duplicate string
	add       func(ctx context.Context, userID, recipeID uuid.UUID) error
	remove    func(ctx context.Context, userID, recipeID uuid.UUID) error
}

func (s *CollectionService) favoritesList() collection {
	return collection{
		list:      telemetry.ListFavorites,
		duplicate: "Recipe is already in favorites",
		add: func(ctx context.Context, userID, recipeID uuid.UUID) error {
			return s.favorites.Add(ctx, recipe.NewFavorite(userID, recipeID))
		},
		remove: s.favorites.Remove,
	}
}

func (s *CollectionService) cartList() collection {
	return collection{
		list:      telemetry.ListShoppingCart,
		duplicate: "Recipe is already in the shopping cart",
		add: func(ctx context.Context, userID, recipeID uuid.UUID) error {
			return s.cart.Add(ctx, recipe.NewShoppingCartEntry(userID, recipeID))
		},
		remove: s.cart.Remove,
	}
}

// AddFavorite marks a recipe as the caller's favorite
func (s *CollectionService) AddFavorite(ctx context.Context, actor shared.Actor, recipeID uuid.UUID) (*RecipeShortResponse, error) {
	return s.add(ctx, actor, recipeID, s.favoritesList())
}

// RemoveFavorite unmarks a favorite. Removing a recipe that is not a
// favorite, or that does not exist, succeeds.
func (s *CollectionService) RemoveFavorite(ctx context.Context, actor shared.Actor, recipeID uuid.UUID) error {
	return s.remove(ctx, actor, recipeID, s.favoritesList())
}

// AddToCart puts a recipe into the caller's shopping cart
func (s *CollectionService) AddToCart(ctx context.Context, actor shared.Actor, recipeID uuid.UUID) (*RecipeShortResponse, error) {
	return s.add(ctx, actor, recipeID, s.cartList())
}

// RemoveFromCart takes a recipe out of the caller's shopping cart.
// Removing a recipe that is not in the cart, or that does not exist, succeeds.
func (s *CollectionService) RemoveFromCart(ctx context.Context, actor shared.Actor, recipeID uuid.UUID) error {
	return s.remove(ctx, actor, recipeID, s.cartList())
}

func (s *CollectionService) add(ctx context.Context, actor shared.Actor, recipeID uuid.UUID, c collection) (*RecipeShortResponse, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	r, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if err := c.add(ctx, actor.UserID, recipeID); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			s.metrics.ListMutation(ctx, c.list, telemetry.OutcomeDuplicate)
			return nil, shared.NewAlreadyExistsError(c.duplicate)
		}
		return nil, err
	}

	s.metrics.ListMutation(ctx, c.list, telemetry.OutcomeAdded)
	s.logger.Debug("Recipe added to list",
		zap.String("list", c.list),
		zap.String("recipe_id", recipeID.String()),
		zap.String("user_id", actor.UserID.String()))

	short := s.presenter.Short(ctx, r)
	return &short, nil
}

func (s *CollectionService) remove(ctx context.Context, actor shared.Actor, recipeID uuid.UUID, c collection) error {
	if err := actor.RequireAuthenticated(); err != nil {
		return err
	}
	if err := c.remove(ctx, actor.UserID, recipeID); err != nil {
		return err
	}

	s.metrics.ListMutation(ctx, c.list, telemetry.OutcomeRemoved)
	s.logger.Debug("Recipe removed from list",
		zap.String("list", c.list),
		zap.String("recipe_id", recipeID.String()),
		zap.String("user_id", actor.UserID.String()))
	return nil
}

// ShoppingList sums the ingredients of every recipe in the caller's cart
func (s *CollectionService) ShoppingList(ctx context.Context, actor shared.Actor) ([]ShoppingListItemResponse, error) {
	items, err := s.aggregate(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]ShoppingListItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ShoppingListItemResponse{
			ID:              it.IngredientID,
			Name:            it.Name,
			MeasurementUnit: it.MeasurementUnit,
			Amount:          it.TotalAmount,
		})
	}
	return out, nil
}

// DownloadShoppingList renders the caller's shopping list as plain text
func (s *CollectionService) DownloadShoppingList(ctx context.Context, actor shared.Actor) (string, error) {
	items, err := s.aggregate(ctx, actor)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(items), nil
}

func (s *CollectionService) aggregate(ctx context.Context, actor shared.Actor) ([]recipe.ShoppingListItem, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "recipe", "shopping_list", telemetry.SpanAttrUserID, actor.UserID)
	defer span.End()

	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	items, err := s.cart.AggregateIngredients(ctx, actor.UserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(items))
	s.metrics.ShoppingListBuilt(ctx, len(items))
	return items, nil
}
