package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errImageStorageDisabled = errors.New("image storage is not configured")

// RecipeService handles recipe reads and writes
type RecipeService struct {
	repos        Repositories
	presenter    *Presenter
	images       ImageStorage
	maxImageSize int64
	metrics      *telemetry.RecipeMetrics
	logger       *zap.Logger
}

// NewRecipeService creates a new recipe service. metrics may be nil.
func NewRecipeService(
	repos Repositories,
	presenter *Presenter,
	images ImageStorage,
	maxImageSize int64,
	metrics *telemetry.RecipeMetrics,
	logger *zap.Logger,
) *RecipeService {
	if maxImageSize <= 0 {
		maxImageSize = DefaultMaxImageSize
	}
	return &RecipeService{
		repos:        repos,
		presenter:    presenter,
		images:       images,
		maxImageSize: maxImageSize,
		metrics:      metrics,
		logger:       logger,
	}
}

// List returns a page of recipes matching the query, newest first
func (s *RecipeService) List(ctx context.Context, viewer shared.Actor, q ListQuery) (shared.Paginated[RecipeResponse], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "recipe", "list")
	defer span.End()

	filter := q.Filter.Resolve(viewer)
	page := shared.Filter{Page: q.Page, PageSize: q.PageSize}

	recipes, err := s.repos.Recipes.FindAll(ctx, filter, page)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Paginated[RecipeResponse]{}, err
	}
	total, err := s.repos.Recipes.Count(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Paginated[RecipeResponse]{}, err
	}

	items, err := s.presenter.Recipes(ctx, viewer, recipes)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Paginated[RecipeResponse]{}, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(items))
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

// Get returns one recipe
func (s *RecipeService) Get(ctx context.Context, viewer shared.Actor, id uuid.UUID) (*RecipeResponse, error) {
	r, err := s.repos.Recipes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.presenter.Recipe(ctx, viewer, r)
}

// Create stores a new recipe authored by the caller. The image is uploaded
// first and removed again if the recipe cannot be saved.
func (s *RecipeService) Create(ctx context.Context, actor shared.Actor, req CreateRecipeRequest) (*RecipeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "recipe", "create", telemetry.SpanAttrUserID, actor.UserID)
	defer span.End()

	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}

	r, err := recipe.NewRecipe(actor.UserID, toContent(req.Name, req.Text, req.CookingTime, req.Tags, req.Ingredients))
	if err != nil {
		return nil, err
	}
	img, err := DecodeDataURI(req.Image, s.maxImageSize)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, r); err != nil {
		return nil, err
	}

	key, err := s.storeImage(ctx, img)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	r.SetImage(key)

	if err := s.repos.Recipes.Create(ctx, r); err != nil {
		telemetry.RecordError(span, err)
		s.discardImage(ctx, key)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrRecipeID, r.ID)
	s.metrics.RecipeCreated(ctx)
	s.logger.Info("Recipe created",
		zap.String("recipe_id", r.ID.String()),
		zap.String("author_id", r.AuthorID.String()))

	return s.presenter.Recipe(ctx, actor, r)
}

// Update replaces a recipe's content, tags and ingredient lines. Only the
// author or an admin may update. The stored image is kept unless a new one
// is supplied.
func (s *RecipeService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateRecipeRequest) (*RecipeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "recipe", "update",
		telemetry.SpanAttrUserID, actor.UserID,
		telemetry.SpanAttrRecipeID, id)
	defer span.End()

	r, err := s.loadForModification(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := r.Update(toContent(req.Name, req.Text, req.CookingTime, req.Tags, req.Ingredients)); err != nil {
		return nil, err
	}
	var img *Image
	if req.Image != "" {
		if img, err = DecodeDataURI(req.Image, s.maxImageSize); err != nil {
			return nil, err
		}
	}
	if err := s.checkReferences(ctx, r); err != nil {
		return nil, err
	}

	oldKey := r.Image
	newKey := ""
	if img != nil {
		if newKey, err = s.storeImage(ctx, img); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		r.SetImage(newKey)
	}

	if err := s.repos.Recipes.Update(ctx, r); err != nil {
		telemetry.RecordError(span, err)
		if newKey != "" {
			s.discardImage(ctx, newKey)
		}
		return nil, err
	}
	if newKey != "" && oldKey != "" {
		s.discardImage(ctx, oldKey)
	}

	s.metrics.RecipeUpdated(ctx)
	s.logger.Info("Recipe updated",
		zap.String("recipe_id", r.ID.String()),
		zap.String("user_id", actor.UserID.String()))

	return s.presenter.Recipe(ctx, actor, r)
}

// Delete removes a recipe. Only the author or an admin may delete.
func (s *RecipeService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "recipe", "delete",
		telemetry.SpanAttrUserID, actor.UserID,
		telemetry.SpanAttrRecipeID, id)
	defer span.End()

	r, err := s.loadForModification(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repos.Recipes.Delete(ctx, r.ID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if r.Image != "" {
		s.discardImage(ctx, r.Image)
	}

	s.metrics.RecipeDeleted(ctx)
	s.logger.Info("Recipe deleted",
		zap.String("recipe_id", r.ID.String()),
		zap.String("user_id", actor.UserID.String()))
	return nil
}

func (s *RecipeService) loadForModification(ctx context.Context, actor shared.Actor, id uuid.UUID) (*recipe.Recipe, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	r, err := s.repos.Recipes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(r.AuthorID) {
		s.logger.Warn("Recipe modification denied",
			zap.String("recipe_id", r.ID.String()),
			zap.String("user_id", actor.UserID.String()))
		return nil, shared.ErrForbidden
	}
	return r, nil
}

// checkReferences verifies every referenced tag and ingredient exists
func (s *RecipeService) checkReferences(ctx context.Context, r *recipe.Recipe) error {
	if len(r.TagIDs) > 0 {
		tags, err := s.repos.Tags.FindByIDs(ctx, r.TagIDs)
		if err != nil {
			return err
		}
		found := make(map[uuid.UUID]struct{}, len(tags))
		for _, t := range tags {
			found[t.ID] = struct{}{}
		}
		if missing, ok := firstMissing(r.TagIDs, found); ok {
			return shared.NewNotFoundError(fmt.Sprintf("Tag %s", missing))
		}
	}

	ids := r.IngredientIDs()
	ingredients, err := s.repos.Ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]struct{}, len(ingredients))
	for _, ing := range ingredients {
		found[ing.ID] = struct{}{}
	}
	if missing, ok := firstMissing(ids, found); ok {
		return shared.NewNotFoundError(fmt.Sprintf("Ingredient %s", missing))
	}
	return nil
}

func firstMissing(ids []uuid.UUID, found map[uuid.UUID]struct{}) (uuid.UUID, bool) {
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

func (s *RecipeService) storeImage(ctx context.Context, img *Image) (string, error) {
	if s.images == nil {
		return "", errImageStorageDisabled
	}
	key := NewImageKey(img.Extension)
	if err := s.images.Save(ctx, key, img.Data, img.ContentType); err != nil {
		s.logger.Error("Failed to store recipe image",
			zap.String("key", key),
			zap.Error(err))
		return "", err
	}
	return key, nil
}

// discardImage removes an image that is no longer referenced. Failures leave
// an orphaned object behind and are only logged.
func (s *RecipeService) discardImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete recipe image",
			zap.String("key", key),
			zap.Error(err))
	}
}
