// Package subscription manages users following recipe authors.
package subscription

import (
	"context"
	"errors"
	"strconv"
	"strings"

	identityapp "github.com/foodgram/backend/internal/application/identity"
	recipeapp "github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParamRecipesLimit is the query parameter bounding the recipe preview
const ParamRecipesLimit = "recipes_limit"

// Response is a followed author with a preview of their recipes
type Response struct {
	identityapp.UserResponse
	Recipes      []recipeapp.RecipeShortResponse `json:"recipes"`
	RecipesCount int64                           `json:"recipes_count"`
}

// ParseRecipesLimit parses recipes_limit. An absent value yields nil, which
// means the preview holds every recipe of the author.
func ParseRecipesLimit(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, shared.NewValidationError("%s must be a non-negative integer", ParamRecipesLimit)
	}
	return &n, nil
}

// Service handles follow, unfollow and the subscriptions listing
type Service struct {
	users      identity.UserRepository
	followings identity.FollowingRepository
	recipes    recipe.RecipeRepository
	presenter  *recipeapp.Presenter
	metrics    *telemetry.RecipeMetrics
	logger     *zap.Logger
}

// NewService creates a new subscription service. metrics may be nil.
func NewService(
	repos recipeapp.Repositories,
	presenter *recipeapp.Presenter,
	metrics *telemetry.RecipeMetrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:      repos.Users,
		followings: repos.Followings,
		recipes:    repos.Recipes,
		presenter:  presenter,
		metrics:    metrics,
		logger:     logger,
	}
}

// Subscribe makes the caller follow authorID
func (s *Service) Subscribe(ctx context.Context, actor shared.Actor, authorID uuid.UUID, recipesLimit *int) (*Response, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	following, err := identity.NewFollowing(actor.UserID, author.ID)
	if err != nil {
		s.logger.Warn("Self subscription rejected", zap.String("user_id", actor.UserID.String()))
		return nil, err
	}
	if err := s.followings.Add(ctx, following); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			s.metrics.ListMutation(ctx, telemetry.ListSubscriptions, telemetry.OutcomeDuplicate)
			return nil, shared.NewAlreadyExistsError("Already subscribed to this author")
		}
		return nil, err
	}

	s.metrics.ListMutation(ctx, telemetry.ListSubscriptions, telemetry.OutcomeAdded)
	s.logger.Info("User subscribed",
		zap.String("user_id", actor.UserID.String()),
		zap.String("author_id", author.ID.String()))

	out, err := s.responses(ctx, []identity.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Unsubscribe stops the caller following authorID. Unfollowing an author
// that is not followed succeeds.
func (s *Service) Unsubscribe(ctx context.Context, actor shared.Actor, authorID uuid.UUID) error {
	if err := actor.RequireAuthenticated(); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return err
	}
	if err := s.followings.Remove(ctx, actor.UserID, authorID); err != nil {
		return err
	}

	s.metrics.ListMutation(ctx, telemetry.ListSubscriptions, telemetry.OutcomeRemoved)
	s.logger.Info("User unsubscribed",
		zap.String("user_id", actor.UserID.String()),
		zap.String("author_id", authorID.String()))
	return nil
}

// List returns the authors the caller follows, ordered by username
func (s *Service) List(ctx context.Context, actor shared.Actor, filter shared.Filter, recipesLimit *int) (shared.Paginated[Response], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "subscription", "list", telemetry.SpanAttrUserID, actor.UserID)
	defer span.End()

	if err := actor.RequireAuthenticated(); err != nil {
		return shared.Paginated[Response]{}, err
	}
	authors, err := s.followings.FindFollowedAuthors(ctx, actor.UserID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Paginated[Response]{}, err
	}
	total, err := s.followings.CountFollowedAuthors(ctx, actor.UserID)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Paginated[Response]{}, err
	}

	items, err := s.responses(ctx, authors, recipesLimit)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Paginated[Response]{}, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(items))
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// responses builds the view of followed authors; every one is followed by
// the caller by construction
func (s *Service) responses(ctx context.Context, authors []identity.User, recipesLimit *int) ([]Response, error) {
	out := make([]Response, 0, len(authors))
	if len(authors) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(authors))
	for i := range authors {
		ids = append(ids, authors[i].ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	var previews map[uuid.UUID][]recipe.Recipe
	if recipesLimit == nil || *recipesLimit > 0 {
		limit := 0
		if recipesLimit != nil {
			limit = *recipesLimit
		}
		previews, err = s.recipes.FindPreviewsByAuthors(ctx, ids, limit)
		if err != nil {
			return nil, err
		}
	}

	for i := range authors {
		out = append(out, Response{
			UserResponse: identityapp.NewUserResponse(&authors[i], true),
			Recipes:      s.presenter.ShortList(ctx, previews[authors[i].ID]),
			RecipesCount: counts[authors[i].ID],
		})
	}
	return out, nil
}
