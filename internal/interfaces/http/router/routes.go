package router

import (
	"github.com/foodgram/backend/internal/interfaces/http/handler"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers behind the API routes
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Tag        *handler.TagHandler
	Ingredient *handler.IngredientHandler
	Recipe     *handler.RecipeHandler
}

// Guards are the per-route checks of the route table
type Guards struct {
	Authenticated gin.HandlerFunc
	Admin         gin.HandlerFunc
	// CredentialLimit throttles login and refresh. Optional.
	CredentialLimit gin.HandlerFunc
}

// DefaultGuards requires a verified token for authenticated routes and the
// admin flag for catalog writes
func DefaultGuards() Guards {
	return Guards{
		Authenticated: middleware.RequireAuth(),
		Admin:         middleware.RequireAdmin(),
	}
}

func (g Guards) credentials(h gin.HandlerFunc) []gin.HandlerFunc {
	if g.CredentialLimit == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{g.CredentialLimit, h}
}

// DomainGroups returns the API route table, one group per domain. Every
// group expects the caller's identity to be resolved already by
// middleware.OptionalJWTAuthMiddleware on the API prefix.
func DomainGroups(h Handlers, g Guards) []*DomainGroup {
	authed := g.Authenticated
	admin := g.Admin

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", g.credentials(h.Auth.Login)...)
	authRoutes.POST("/refresh", g.credentials(h.Auth.Refresh)...)
	authRoutes.POST("/logout", authed, h.Auth.Logout)

	userRoutes := NewDomainGroup("users", "/users")
	userRoutes.POST("", h.User.Register).
		GET("", h.User.List).
		GET("/me", authed, h.User.Me).
		POST("/set_password", authed, h.User.SetPassword).
		GET("/subscriptions", authed, h.User.Subscriptions).
		GET("/:id", h.User.Get).
		POST("/:id/subscribe", authed, h.User.Subscribe).
		DELETE("/:id/subscribe", authed, h.User.Unsubscribe)

	tagRoutes := NewDomainGroup("tags", "/tags")
	tagRoutes.GET("", h.Tag.List).
		GET("/:id", h.Tag.Get).
		POST("", admin, h.Tag.Create)

	ingredientRoutes := NewDomainGroup("ingredients", "/ingredients")
	ingredientRoutes.GET("", h.Ingredient.Search).
		GET("/:id", h.Ingredient.Get).
		POST("", admin, h.Ingredient.Create).
		POST("/import", admin, h.Ingredient.Import)

	recipeRoutes := NewDomainGroup("recipes", "/recipes")
	recipeRoutes.GET("", h.Recipe.List).
		POST("", authed, h.Recipe.Create).
		GET("/shopping_list", authed, h.Recipe.ShoppingList).
		GET("/download_shopping_cart", authed, h.Recipe.DownloadShoppingList).
		GET("/:id", h.Recipe.Get).
		PATCH("/:id", authed, h.Recipe.Update).
		DELETE("/:id", authed, h.Recipe.Delete).
		POST("/:id/favorite", authed, h.Recipe.AddFavorite).
		DELETE("/:id/favorite", authed, h.Recipe.RemoveFavorite).
		POST("/:id/shopping_cart", authed, h.Recipe.AddToCart).
		DELETE("/:id/shopping_cart", authed, h.Recipe.RemoveFromCart)

	return []*DomainGroup{authRoutes, userRoutes, tagRoutes, ingredientRoutes, recipeRoutes}
}

// RegisterSystemRoutes mounts the liveness and readiness probes outside the
// API prefix
func RegisterSystemRoutes(engine *gin.Engine, h *handler.SystemHandler) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}
