package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/auth"
	"github.com/foodgram/backend/internal/infrastructure/logger"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTActorKey   = "jwt_actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

var errMissingAuthHeader = errors.New("missing authorization header")

type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist, when set, rejects revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// Optional lets requests without an Authorization header through as the
	// anonymous actor. A token that is present must still be valid.
	Optional bool
	Logger   *zap.Logger
}

func (cfg JWTMiddlewareConfig) log() *zap.Logger {
	if cfg.Logger == nil {
		return zap.NewNop()
	}
	return cfg.Logger
}

// JWTAuthMiddleware requires a valid access token
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: jwtService})
}

// OptionalJWTAuthMiddleware resolves the caller when a token is sent and
// falls back to the anonymous actor otherwise. Endpoints that need a user
// add RequireAuth or RequireAdmin on top.
func OptionalJWTAuthMiddleware(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Optional:       true,
		Logger:         log,
	})
}

func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" && cfg.Optional {
			c.Set(JWTActorKey, shared.Anonymous())
			c.Next()
			return
		}

		claims, actor, err := authenticate(c, cfg, header)
		if err != nil {
			cfg.log().Warn("JWT authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			abortUnauthorized(c, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTActorKey, actor)

		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		cfg.log().Debug("JWT authentication successful",
			zap.String("user_id", claims.UserID),
			zap.String("username", claims.Username),
		)
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg JWTMiddlewareConfig, header string) (*auth.Claims, shared.Actor, error) {
	if header == "" {
		return nil, shared.Actor{}, errMissingAuthHeader
	}
	token, ok := strings.CutPrefix(header, BearerPrefix)
	if !ok || token == "" {
		return nil, shared.Actor{}, auth.ErrInvalidToken
	}

	claims, err := cfg.JWTService.ValidateAccessToken(token)
	if err != nil {
		return nil, shared.Actor{}, err
	}
	if cfg.TokenBlacklist != nil && revoked(c, cfg, claims) {
		return nil, shared.Actor{}, auth.ErrTokenBlacklisted
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.Actor{}, auth.ErrInvalidClaims
	}
	return claims, shared.NewActor(userID, claims.IsAdmin), nil
}

// revoked reports tokens revoked by logout and tokens issued before the
// user's last password change. A failing lookup is logged and treated as
// not revoked, so a blacklist outage does not lock every user out.
func revoked(c *gin.Context, cfg JWTMiddlewareConfig, claims *auth.Claims) bool {
	ctx := c.Request.Context()

	if claims.ID != "" {
		hit, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			cfg.log().Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if hit {
			return true
		}
	}

	hit, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		cfg.log().Error("Failed to check user token invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
		return false
	}
	return hit
}

func abortUnauthorized(c *gin.Context, err error) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID),
		errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// RequireAuth rejects the anonymous actor. It runs after OptionalJWTAuthMiddleware.
func RequireAuth() gin.HandlerFunc {
	return requireActor(false)
}

// RequireAdmin answers 401 for anonymous callers and 403 for non-admins
func RequireAdmin() gin.HandlerFunc {
	return requireActor(true)
}

func requireActor(admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		switch {
		case !actor.IsAuthenticated():
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		case admin && !actor.IsAdmin:
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Administrator access required")
		default:
			c.Next()
		}
	}
}

func GetJWTClaims(c *gin.Context) *auth.Claims {
	claims, _ := c.Value(JWTClaimsKey).(*auth.Claims)
	return claims
}

func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetActor returns the caller resolved by the JWT middleware, or the
// anonymous actor
func GetActor(c *gin.Context) shared.Actor {
	if actor, ok := c.Value(JWTActorKey).(shared.Actor); ok {
		return actor
	}
	return shared.Anonymous()
}
