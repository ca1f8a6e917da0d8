package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/foodgram/backend/internal/application/catalog"
	identityapp "github.com/foodgram/backend/internal/application/identity"
	recipeapp "github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/application/subscription"
	"github.com/foodgram/backend/internal/infrastructure/auth"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/infrastructure/logger"
	"github.com/foodgram/backend/internal/infrastructure/migration"
	"github.com/foodgram/backend/internal/infrastructure/persistence"
	"github.com/foodgram/backend/internal/infrastructure/storage"
	"github.com/foodgram/backend/internal/infrastructure/telemetry"
	"github.com/foodgram/backend/internal/interfaces/http/handler"
	"github.com/foodgram/backend/internal/interfaces/http/middleware"
	"github.com/foodgram/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Foodgram backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// OpenTelemetry providers are no-ops when telemetry is disabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFromApp(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFromApp(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFromApp(cfg.Telemetry, cfg.Database.Driver), log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	var dbMetrics *telemetry.DBMetrics
	if meterProvider.IsEnabled() {
		dbMetrics, err = telemetry.RegisterDBMetrics(db.DB, meterProvider, cfg.Telemetry.DBSlowQueryThresh, log)
		if err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		applyMigrations(&cfg.Database, log)
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	followingRepo := persistence.NewGormFollowingRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	ingredientRepo := persistence.NewGormIngredientRepository(db.DB)
	repos := recipeapp.Repositories{
		Recipes:     persistence.NewGormRecipeRepository(db.DB),
		Favorites:   persistence.NewGormFavoriteRepository(db.DB),
		Cart:        persistence.NewGormShoppingCartRepository(db.DB),
		Tags:        tagRepo,
		Ingredients: ingredientRepo,
		Users:       userRepo,
		Followings:  followingRepo,
	}

	images, err := storage.NewImageStorage(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	blacklist := auth.NewTokenBlacklist(cfg.Redis, log)
	if closer, ok := blacklist.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	recipeMetrics, err := telemetry.NewRecipeMetrics(meterProvider.Meter("foodgram"))
	if err != nil {
		log.Warn("Failed to create recipe metrics", zap.Error(err))
		recipeMetrics = nil
	}

	// Initialize application services
	presenter := recipeapp.NewPresenter(repos, images, log)
	recipeService := recipeapp.NewRecipeService(repos, presenter, images, cfg.Storage.MaxImageSize, recipeMetrics, log)
	collectionService := recipeapp.NewCollectionService(repos, presenter, recipeMetrics, log)
	subscriptionService := subscription.NewService(repos, presenter, recipeMetrics, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, followingRepo, blacklist, cfg.JWT.RefreshTokenExpiration, log)
	tagService := catalogapp.NewTagService(tagRepo, log)
	ingredientService := catalogapp.NewIngredientService(ingredientRepo, log)
	importService := catalogapp.NewIngredientImportService(ingredientRepo, catalogapp.DefaultImportBatchSize, log)

	// Initialize HTTP handlers
	paginator := handler.NewPaginator(cfg.Pagination)
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService, subscriptionService, paginator),
		Tag:        handler.NewTagHandler(tagService),
		Ingredient: handler.NewIngredientHandler(ingredientService, importService),
		Recipe:     handler.NewRecipeHandler(recipeService, collectionService, paginator),
	}

	middleware.SetupValidator()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
	}

	engineCfg := router.EngineConfig{
		Logger:         log,
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		RateLimiter: limiter,
	}
	if meterProvider.IsEnabled() {
		engineCfg.MeterProvider = meterProvider
	}
	engine := router.NewEngine(engineCfg)

	if cfg.Storage.Driver != "s3" {
		engine.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	guards := router.DefaultGuards()
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		guards.CredentialLimit = middleware.AuthRateLimit(authLimiter)
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.OptionalJWTAuthMiddleware(jwtService, blacklist, log)),
	)
	for _, group := range router.DomainGroups(handlers, guards) {
		r.Register(group)
	}
	r.Setup()
	router.RegisterSystemRoutes(engine, handler.NewSystemHandler(db))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("api", r.BasePath()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if dbMetrics != nil {
		if err := dbMetrics.Stop(); err != nil {
			log.Warn("Failed to stop database metrics", zap.Error(err))
		}
	}
	if err := tracerProvider.ForceFlush(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shutdown meter provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// applyMigrations brings the schema up to date from the migrations embedded
// in the binary
func applyMigrations(cfg *config.DatabaseConfig, log *zap.Logger) {
	m, err := migration.Open(cfg, "", log)
	if err != nil {
		log.Fatal("Failed to open migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	if err := m.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
}
