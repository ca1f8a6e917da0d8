package handler

import (
	"context"
	"net/http"

	recipeapp "github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecipeHandler handles recipe, favorite, shopping cart and shopping list requests
type RecipeHandler struct {
	BaseHandler
	recipeService     *recipeapp.RecipeService
	collectionService *recipeapp.CollectionService
	paginator         Paginator
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(
	recipeService *recipeapp.RecipeService,
	collectionService *recipeapp.CollectionService,
	paginator Paginator,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:     recipeService,
		collectionService: collectionService,
		paginator:         paginator,
	}
}

// List handles GET /recipes. Supported filters are tags (repeatable slug),
// author, is_favorited and is_in_shopping_cart.
func (h *RecipeHandler) List(c *gin.Context) {
	filter, err := h.paginator.Filter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	params, err := recipeapp.ParseFilter(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.recipeService.List(c.Request.Context(), middleware.GetActor(c), recipeapp.ListQuery{
		Filter:   params,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "Recipe")
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// Create handles POST /recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var req recipeapp.CreateRecipeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, recipe)
}

// Update handles PATCH /recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "Recipe")
	if !ok {
		return
	}
	var req recipeapp.UpdateRecipeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// Delete handles DELETE /recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "Recipe")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddFavorite handles POST /recipes/:id/favorite
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addTo(c, h.collectionService.AddFavorite)
}

// RemoveFavorite handles DELETE /recipes/:id/favorite
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeFrom(c, h.collectionService.RemoveFavorite)
}

// AddToCart handles POST /recipes/:id/shopping_cart
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addTo(c, h.collectionService.AddToCart)
}

// RemoveFromCart handles DELETE /recipes/:id/shopping_cart
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeFrom(c, h.collectionService.RemoveFromCart)
}

type addFunc = func(ctx context.Context, actor shared.Actor, recipeID uuid.UUID) (*recipeapp.RecipeShortResponse, error)

type removeFunc = func(ctx context.Context, actor shared.Actor, recipeID uuid.UUID) error

func (h *RecipeHandler) addTo(c *gin.Context, add addFunc) {
	id, ok := h.pathID(c, "Recipe")
	if !ok {
		return
	}

	short, err := add(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, short)
}

func (h *RecipeHandler) removeFrom(c *gin.Context, remove removeFunc) {
	id, ok := h.pathID(c, "Recipe")
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ShoppingList handles GET /recipes/shopping_list
func (h *RecipeHandler) ShoppingList(c *gin.Context) {
	items, err := h.collectionService.ShoppingList(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// DownloadShoppingList handles GET /recipes/download_shopping_cart
func (h *RecipeHandler) DownloadShoppingList(c *gin.Context) {
	text, err := h.collectionService.DownloadShoppingList(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+recipeapp.ShoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
