package handler

import (
	identityapp "github.com/foodgram/backend/internal/application/identity"
	"github.com/foodgram/backend/internal/application/subscription"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles account, profile and subscription requests
type UserHandler struct {
	BaseHandler
	userService         *identityapp.UserService
	subscriptionService *subscription.Service
	paginator           Paginator
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	userService *identityapp.UserService,
	subscriptionService *subscription.Service,
	paginator Paginator,
) *UserHandler {
	return &UserHandler{
		userService:         userService,
		subscriptionService: subscriptionService,
		paginator:           paginator,
	}
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	filter, err := h.paginator.Filter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.userService.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "User")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// SetPassword handles POST /users/set_password
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req identityapp.SetPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.userService.SetPassword(c.Request.Context(), middleware.GetActor(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Subscriptions handles GET /users/subscriptions
func (h *UserHandler) Subscriptions(c *gin.Context) {
	filter, err := h.paginator.Filter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	limit, err := subscription.ParseRecipesLimit(c.Query(subscription.ParamRecipesLimit))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.subscriptionService.List(c.Request.Context(), middleware.GetActor(c), filter, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Subscribe handles POST /users/:id/subscribe
func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := h.pathID(c, "User")
	if !ok {
		return
	}
	limit, err := subscription.ParseRecipesLimit(c.Query(subscription.ParamRecipesLimit))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.subscriptionService.Subscribe(c.Request.Context(), middleware.GetActor(c), authorID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Unsubscribe handles DELETE /users/:id/subscribe
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := h.pathID(c, "User")
	if !ok {
		return
	}

	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), middleware.GetActor(c), authorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
