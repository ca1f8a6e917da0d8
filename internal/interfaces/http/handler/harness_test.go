package handler

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	catalogapp "github.com/foodgram/backend/internal/application/catalog"
	identityapp "github.com/foodgram/backend/internal/application/identity"
	recipeapp "github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/application/subscription"
	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/auth"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/infrastructure/migration"
	"github.com/foodgram/backend/internal/infrastructure/persistence"
	"github.com/foodgram/backend/internal/infrastructure/storage"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// testApp wires the real services over a migrated sqlite file
type testApp struct {
	t           *testing.T
	db          *persistence.Database
	engine      *gin.Engine
	jwtService  *auth.JWTService
	users       *persistence.GormUserRepository
	tags        *catalogapp.TagService
	ingredients *catalogapp.IngredientService
	imageDir    string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dir := t.TempDir()
	dbCfg := &config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(dir, "foodgram.db")}

	raw, err := sql.Open("sqlite3", dbCfg.SQLiteDSN())
	require.NoError(t, err)
	m, err := migration.New(raw, migration.DialectSQLite, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := persistence.NewDatabase(dbCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	imageDir := filepath.Join(dir, "media")
	images, err := storage.NewLocalImageStorage(imageDir, "/media")
	require.NoError(t, err)

	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-key-32-chars!",
		RefreshSecret:          "handler-test-refresh-secret-32-ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "foodgram-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	users := persistence.NewGormUserRepository(db.DB)
	followings := persistence.NewGormFollowingRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	ingredientRepo := persistence.NewGormIngredientRepository(db.DB)
	repos := recipeapp.Repositories{
		Recipes:     persistence.NewGormRecipeRepository(db.DB),
		Favorites:   persistence.NewGormFavoriteRepository(db.DB),
		Cart:        persistence.NewGormShoppingCartRepository(db.DB),
		Tags:        tagRepo,
		Ingredients: ingredientRepo,
		Users:       users,
		Followings:  followings,
	}

	presenter := recipeapp.NewPresenter(repos, images, log)
	tagService := catalogapp.NewTagService(tagRepo, log)
	ingredientService := catalogapp.NewIngredientService(ingredientRepo, log)
	paginator := NewPaginator(config.PaginationConfig{DefaultPageSize: 6, MaxPageSize: 20})

	authHandler := NewAuthHandler(identityapp.NewAuthService(users, jwtService, blacklist, log))
	userHandler := NewUserHandler(
		identityapp.NewUserService(users, followings, blacklist, 24*time.Hour, log),
		subscription.NewService(repos, presenter, nil, log),
		paginator,
	)
	tagHandler := NewTagHandler(tagService)
	ingredientHandler := NewIngredientHandler(ingredientService, catalogapp.NewIngredientImportService(ingredientRepo, 2, log))
	recipeHandler := NewRecipeHandler(
		recipeapp.NewRecipeService(repos, presenter, images, 0, nil, log),
		recipeapp.NewCollectionService(repos, presenter, nil, log),
		paginator,
	)
	systemHandler := NewSystemHandler(db)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	api := engine.Group("/api/v1", middleware.OptionalJWTAuthMiddleware(jwtService, blacklist, log))
	authed := middleware.RequireAuth()
	admin := middleware.RequireAdmin()

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authed, authHandler.Logout)

	api.POST("/users", userHandler.Register)
	api.GET("/users", userHandler.List)
	api.GET("/users/me", authed, userHandler.Me)
	api.POST("/users/set_password", authed, userHandler.SetPassword)
	api.GET("/users/subscriptions", authed, userHandler.Subscriptions)
	api.GET("/users/:id", userHandler.Get)
	api.POST("/users/:id/subscribe", authed, userHandler.Subscribe)
	api.DELETE("/users/:id/subscribe", authed, userHandler.Unsubscribe)

	api.GET("/tags", tagHandler.List)
	api.GET("/tags/:id", tagHandler.Get)
	api.POST("/tags", admin, tagHandler.Create)

	api.GET("/ingredients", ingredientHandler.Search)
	api.GET("/ingredients/:id", ingredientHandler.Get)
	api.POST("/ingredients", admin, ingredientHandler.Create)
	api.POST("/ingredients/import", admin, ingredientHandler.Import)

	api.GET("/recipes", recipeHandler.List)
	api.GET("/recipes/shopping_list", authed, recipeHandler.ShoppingList)
	api.GET("/recipes/download_shopping_cart", authed, recipeHandler.DownloadShoppingList)
	api.GET("/recipes/:id", recipeHandler.Get)
	api.POST("/recipes", authed, recipeHandler.Create)
	api.PATCH("/recipes/:id", authed, recipeHandler.Update)
	api.DELETE("/recipes/:id", authed, recipeHandler.Delete)
	api.POST("/recipes/:id/favorite", authed, recipeHandler.AddFavorite)
	api.DELETE("/recipes/:id/favorite", authed, recipeHandler.RemoveFavorite)
	api.POST("/recipes/:id/shopping_cart", authed, recipeHandler.AddToCart)
	api.DELETE("/recipes/:id/shopping_cart", authed, recipeHandler.RemoveFromCart)

	return &testApp{
		t:           t,
		db:          db,
		engine:      engine,
		jwtService:  jwtService,
		users:       users,
		tags:        tagService,
		ingredients: ingredientService,
		imageDir:    imageDir,
	}
}

// account is a stored user with a valid access token
type account struct {
	user  *identity.User
	token string
}

func (a *testApp) newAccount(username string, isAdmin bool) account {
	a.t.Helper()

	user, err := identity.NewUser(identity.Profile{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
	}, "s3cret-pass")
	require.NoError(a.t, err)
	user.IsAdmin = isAdmin
	require.NoError(a.t, a.users.Save(a.t.Context(), user))

	pair, err := a.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  isAdmin,
	})
	require.NoError(a.t, err)
	return account{user: user, token: pair.AccessToken}
}

func (a *testApp) seedTag(slug string) uuid.UUID {
	a.t.Helper()
	tag, err := a.tags.Create(a.t.Context(), shared.NewActor(uuid.New(), true), catalogapp.CreateTagRequest{
		Name:  slug,
		Slug:  slug,
		Color: "#49B64E",
	})
	require.NoError(a.t, err)
	return tag.ID
}

func (a *testApp) seedIngredient(name, unit string) uuid.UUID {
	a.t.Helper()
	ing, err := a.ingredients.Create(a.t.Context(), shared.NewActor(uuid.New(), true), catalogapp.CreateIngredientRequest{
		Name:            name,
		MeasurementUnit: unit,
	})
	require.NoError(a.t, err)
	return ing.ID
}

// do sends a request; body is JSON-encoded unless it is an io.Reader
func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		if _, isReader := body.(io.Reader); !isReader {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// decode unwraps the success envelope into out and returns the meta
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) *dto.Meta {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Meta    *dto.Meta       `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.True(t, envelope.Success, w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Meta
}

// errorCode returns the error code of an error envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func recipeBody(name string, tags []uuid.UUID, lines map[uuid.UUID]int) map[string]any {
	ingredients := make([]map[string]any, 0, len(lines))
	for id, amount := range lines {
		ingredients = append(ingredients, map[string]any{"id": id, "amount": amount})
	}
	return map[string]any{
		"name":         name,
		"text":         "Mix and serve.",
		"cooking_time": 10,
		"tags":         tags,
		"ingredients":  ingredients,
		"image":        pngDataURI(),
	}
}

func (a *testApp) createRecipe(owner account, name string, tags []uuid.UUID, lines map[uuid.UUID]int) recipeapp.RecipeResponse {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/v1/recipes", owner.token, recipeBody(name, tags, lines))
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp recipeapp.RecipeResponse
	decode(a.t, w, &resp)
	return resp
}
