package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testImageURL = "https://cdn.example.com/image.png"

type recipeFixture struct {
	repos      *testRepos
	svc        *RecipeService
	author     *identity.User
	tag        *catalog.Tag
	ingredient *catalog.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	repos := newTestRepos()
	presenter := NewPresenter(repos.Repositories(), repos.images, zap.NewNop())

	tag, err := catalog.NewTag("Breakfast", "breakfast", "#e26c2d")
	require.NoError(t, err)
	ingredient, err := catalog.NewIngredient("flour", "g")
	require.NoError(t, err)

	return &recipeFixture{
		repos:      repos,
		svc:        NewRecipeService(repos.Repositories(), presenter, repos.images, 0, nil, zap.NewNop()),
		author:     newTestUser("author"),
		tag:        tag,
		ingredient: ingredient,
	}
}

func newTestUser(username string) *identity.User {
	return &identity.User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      username + "@example.com",
		Username:   username,
		FirstName:  "Test",
		LastName:   "User",
	}
}

func (f *recipeFixture) recipe(t *testing.T) *recipe.Recipe {
	t.Helper()
	r, err := recipe.NewRecipe(f.author.ID, recipe.Content{
		Name:        "Pancakes",
		Text:        "Mix and fry",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{f.tag.ID},
		Ingredients: []recipe.IngredientLine{{IngredientID: f.ingredient.ID, Amount: 200}},
	})
	require.NoError(t, err)
	r.Image = "recipes/old.png"
	return r
}

func (f *recipeFixture) createRequest() CreateRecipeRequest {
	return CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry",
		CookingTime: 20,
		Tags:        []uuid.UUID{f.tag.ID},
		Ingredients: []IngredientAmountRequest{{ID: f.ingredient.ID, Amount: 200}},
		Image:       dataURI("image/png", pngBytes),
	}
}

func (f *recipeFixture) updateRequest() UpdateRecipeRequest {
	return UpdateRecipeRequest{
		Name:        "Thin pancakes",
		Text:        "Mix, rest and fry",
		CookingTime: 30,
		Tags:        []uuid.UUID{f.tag.ID},
		Ingredients: []IngredientAmountRequest{{ID: f.ingredient.ID, Amount: 250}},
	}
}

// expectReferences allows the tag and ingredient lookups done by reference
// checks and by the presenter
func (f *recipeFixture) expectReferences() {
	f.repos.tags.On("FindByIDs", mock.Anything, []uuid.UUID{f.tag.ID}).Return([]catalog.Tag{*f.tag}, nil)
	f.repos.ingredients.On("FindByIDs", mock.Anything, []uuid.UUID{f.ingredient.ID}).
		Return([]catalog.Ingredient{*f.ingredient}, nil)
}

func (f *recipeFixture) expectPresentation(viewer shared.Actor) {
	f.expectReferences()
	f.repos.users.On("FindByIDs", mock.Anything, []uuid.UUID{f.author.ID}).Return([]identity.User{*f.author}, nil)
	if viewer.IsAuthenticated() {
		f.repos.followings.On("FollowedAmong", mock.Anything, viewer.UserID, []uuid.UUID{f.author.ID}).
			Return(map[uuid.UUID]bool{}, nil)
		f.repos.favorites.On("MarkedAmong", mock.Anything, viewer.UserID, mock.Anything).Return(map[uuid.UUID]bool{}, nil)
		f.repos.cart.On("MarkedAmong", mock.Anything, viewer.UserID, mock.Anything).Return(map[uuid.UUID]bool{}, nil)
	}
	f.repos.images.On("URL", mock.Anything, mock.AnythingOfType("string")).Return(testImageURL, nil)
}

func isImageKey(ext string) any {
	return mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "recipes/") && strings.HasSuffix(key, "."+ext)
	})
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestRecipeService_Create_Success(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	actor := f.author.Actor()

	f.expectPresentation(actor)
	f.repos.images.On("Save", mock.Anything, isImageKey("png"), pngBytes, "image/png").Return(nil)
	f.repos.recipes.On("Create", mock.Anything, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

	resp, err := f.svc.Create(ctx, actor, f.createRequest())

	require.NoError(t, err)
	assert.Equal(t, "Pancakes", resp.Name)
	assert.Equal(t, 20, resp.CookingTime)
	assert.Equal(t, testImageURL, resp.Image)
	assert.Equal(t, "author", resp.Author.Username)
	assert.False(t, resp.Author.IsSubscribed)
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "breakfast", resp.Tags[0].Slug)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, RecipeIngredientResponse{ID: f.ingredient.ID, Name: "flour", MeasurementUnit: "g", Amount: 200}, resp.Ingredients[0])
	assert.False(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)

	saved := f.repos.recipes.Calls[0].Arguments.Get(1).(*recipe.Recipe)
	assert.Equal(t, f.author.ID, saved.AuthorID)
	assert.True(t, strings.HasPrefix(saved.Image, "recipes/"))
	f.repos.images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRecipeService_Create_SaveFailureRemovesImage(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	boom := errors.New("deadlock")

	f.expectReferences()
	f.repos.images.On("Save", mock.Anything, isImageKey("png"), pngBytes, "image/png").Return(nil)
	f.repos.images.On("Delete", mock.Anything, isImageKey("png")).Return(nil)
	f.repos.recipes.On("Create", mock.Anything, mock.Anything).Return(boom)

	_, err := f.svc.Create(ctx, f.author.Actor(), f.createRequest())

	assert.ErrorIs(t, err, boom)
	uploaded := f.repos.images.Calls[0].Arguments.String(1)
	f.repos.images.AssertCalled(t, "Delete", mock.Anything, uploaded)
}

func TestRecipeService_Create_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		f := newRecipeFixture(t)
		_, err := f.svc.Create(ctx, shared.Anonymous(), f.createRequest())
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("no ingredients", func(t *testing.T) {
		f := newRecipeFixture(t)
		req := f.createRequest()
		req.Ingredients = nil
		_, err := f.svc.Create(ctx, f.author.Actor(), req)
		requireCode(t, err, shared.CodeValidation)
	})

	t.Run("duplicate ingredient", func(t *testing.T) {
		f := newRecipeFixture(t)
		req := f.createRequest()
		req.Ingredients = append(req.Ingredients, IngredientAmountRequest{ID: f.ingredient.ID, Amount: 5})
		_, err := f.svc.Create(ctx, f.author.Actor(), req)
		requireCode(t, err, shared.CodeValidation)
	})

	t.Run("bad image", func(t *testing.T) {
		f := newRecipeFixture(t)
		req := f.createRequest()
		req.Image = "https://example.com/cake.png"
		_, err := f.svc.Create(ctx, f.author.Actor(), req)
		requireCode(t, err, shared.CodeValidation)
		f.repos.tags.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("unknown tag", func(t *testing.T) {
		f := newRecipeFixture(t)
		f.repos.tags.On("FindByIDs", mock.Anything, []uuid.UUID{f.tag.ID}).Return([]catalog.Tag{}, nil)
		_, err := f.svc.Create(ctx, f.author.Actor(), f.createRequest())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.repos.images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		f := newRecipeFixture(t)
		f.repos.tags.On("FindByIDs", mock.Anything, []uuid.UUID{f.tag.ID}).Return([]catalog.Tag{*f.tag}, nil)
		f.repos.ingredients.On("FindByIDs", mock.Anything, []uuid.UUID{f.ingredient.ID}).Return([]catalog.Ingredient{}, nil)
		_, err := f.svc.Create(ctx, f.author.Actor(), f.createRequest())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.repos.recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestRecipeService_Update_KeepsImageWhenOmitted(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	r := f.recipe(t)
	actor := f.author.Actor()

	f.repos.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repos.recipes.On("Update", mock.Anything, r).Return(nil)
	f.expectPresentation(actor)

	resp, err := f.svc.Update(ctx, actor, r.ID, f.updateRequest())

	require.NoError(t, err)
	assert.Equal(t, "Thin pancakes", resp.Name)
	assert.Equal(t, 250, resp.Ingredients[0].Amount)
	assert.Equal(t, "recipes/old.png", r.Image)
	f.repos.images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repos.images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRecipeService_Update_ReplacesImage(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	r := f.recipe(t)
	actor := f.author.Actor()

	f.repos.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repos.recipes.On("Update", mock.Anything, r).Return(nil)
	f.repos.images.On("Save", mock.Anything, isImageKey("gif"), gifBytes, "image/gif").Return(nil)
	f.repos.images.On("Delete", mock.Anything, "recipes/old.png").Return(nil)
	f.expectPresentation(actor)

	req := f.updateRequest()
	req.Image = dataURI("image/gif", gifBytes)
	_, err := f.svc.Update(ctx, actor, r.ID, req)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(r.Image, ".gif"))
	f.repos.images.AssertCalled(t, "Delete", mock.Anything, "recipes/old.png")
}

func TestRecipeService_Update_DeletedMeanwhile(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	r := f.recipe(t)
	actor := f.author.Actor()

	f.expectReferences()
	f.repos.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.repos.recipes.On("Update", mock.Anything, r).Return(shared.ErrNotFound)
	f.repos.images.On("Save", mock.Anything, isImageKey("gif"), gifBytes, "image/gif").Return(nil)
	f.repos.images.On("Delete", mock.Anything, isImageKey("gif")).Return(nil)

	req := f.updateRequest()
	req.Image = dataURI("image/gif", gifBytes)
	_, err := f.svc.Update(ctx, actor, r.ID, req)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	uploaded := f.repos.images.Calls[0].Arguments.String(1)
	f.repos.images.AssertCalled(t, "Delete", mock.Anything, uploaded)
	f.repos.images.AssertNotCalled(t, "Delete", mock.Anything, "recipes/old.png")
}

func TestRecipeService_Update_Permissions(t *testing.T) {
	ctx := context.Background()

	t.Run("other user is forbidden", func(t *testing.T) {
		f := newRecipeFixture(t)
		r := f.recipe(t)
		f.repos.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)

		_, err := f.svc.Update(ctx, shared.NewActor(uuid.New(), false), r.ID, f.updateRequest())

		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, "Pancakes", r.Name)
		f.repos.recipes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("admin may edit", func(t *testing.T) {
		f := newRecipeFixture(t)
		r := f.recipe(t)
		admin := shared.NewActor(uuid.New(), true)
		f.repos.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		f.repos.recipes.On("Update", mock.Anything, r).Return(nil)
		f.expectPresentation(admin)

		_, err := f.svc.Update(ctx, admin, r.ID, f.updateRequest())
		require.NoError(t, err)
		assert.Equal(t, f.author.ID, r.AuthorID, "authorship does not change")
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newRecipeFixture(t)
		_, err := f.svc.Update(ctx, shared.Anonymous(), uuid.New(), f.updateRequest())
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("missing recipe", func(t *testing.T) {
		f := newRecipeFixture(t)
		id := uuid.New()
		f.repos.recipes.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("Recipe"))
		_, err := f.svc.Update(ctx, f.author.Actor(), id, f.updateRequest())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRecipeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("author deletes recipe and image", func(t *testing.T) {
		f := newRecipeFixture(t)
		r := f.recipe(t)
		f.repos.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		f.repos.recipes.On("Delete", mock.Anything, r.ID).Return(nil)
		f.repos.images.On("Delete", mock.Anything, "recipes/old.png").Return(errors.New("bucket unavailable"))

		err := f.svc.Delete(ctx, f.author.Actor(), r.ID)

		require.NoError(t, err, "image removal is best effort")
		f.repos.recipes.AssertExpectations(t)
		f.repos.images.AssertExpectations(t)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		f := newRecipeFixture(t)
		r := f.recipe(t)
		f.repos.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)

		err := f.svc.Delete(ctx, shared.NewActor(uuid.New(), false), r.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.repos.recipes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestRecipeService_Get(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	r := f.recipe(t)
	viewer := shared.NewActor(uuid.New(), false)

	f.repos.recipes.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.expectReferences()
	f.repos.users.On("FindByIDs", mock.Anything, []uuid.UUID{f.author.ID}).Return([]identity.User{*f.author}, nil)
	f.repos.followings.On("FollowedAmong", mock.Anything, viewer.UserID, []uuid.UUID{f.author.ID}).
		Return(map[uuid.UUID]bool{f.author.ID: true}, nil)
	f.repos.favorites.On("MarkedAmong", mock.Anything, viewer.UserID, []uuid.UUID{r.ID}).
		Return(map[uuid.UUID]bool{r.ID: true}, nil)
	f.repos.cart.On("MarkedAmong", mock.Anything, viewer.UserID, []uuid.UUID{r.ID}).
		Return(map[uuid.UUID]bool{}, nil)
	f.repos.images.On("URL", mock.Anything, "recipes/old.png").Return("", errors.New("presign failed"))

	resp, err := f.svc.Get(ctx, viewer, r.ID)

	require.NoError(t, err)
	assert.True(t, resp.Author.IsSubscribed)
	assert.True(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)
	assert.Empty(t, resp.Image, "an unresolvable image degrades to an empty URL")
}

func TestRecipeService_List_AnonymousIgnoresPersonalFlags(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	r := f.recipe(t)

	query := ListQuery{
		Filter:   recipe.FilterParams{Tags: []string{"breakfast"}, IsFavorited: true, IsInShoppingCart: true},
		Page:     1,
		PageSize: 6,
	}
	wantFilter := recipe.ListFilter{Tags: []string{"breakfast"}}
	wantPage := shared.Filter{Page: 1, PageSize: 6}

	f.repos.recipes.On("FindAll", mock.Anything, wantFilter, wantPage).Return([]recipe.Recipe{*r}, nil)
	f.repos.recipes.On("Count", mock.Anything, wantFilter).Return(int64(7), nil)
	f.expectPresentation(shared.Anonymous())

	page, err := f.svc.List(ctx, shared.Anonymous(), query)

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	f.repos.favorites.AssertNotCalled(t, "MarkedAmong", mock.Anything, mock.Anything, mock.Anything)
	f.repos.followings.AssertNotCalled(t, "FollowedAmong", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecipeService_List_BindsFlagsToViewer(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	viewer := shared.NewActor(uuid.New(), false)

	query := ListQuery{Filter: recipe.FilterParams{IsInShoppingCart: true}, Page: 1, PageSize: 6}
	wantFilter := recipe.ListFilter{InCartOf: &viewer.UserID}

	f.repos.recipes.On("FindAll", mock.Anything, wantFilter, mock.Anything).Return([]recipe.Recipe{}, nil)
	f.repos.recipes.On("Count", mock.Anything, wantFilter).Return(int64(0), nil)

	page, err := f.svc.List(ctx, viewer, query)

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}
