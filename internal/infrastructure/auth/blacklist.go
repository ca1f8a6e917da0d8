package auth

import (
	"context"
	"time"

	"github.com/foodgram/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// TokenBlacklist revokes JWTs before they expire: one token by jti on
// logout, or every token of a user issued up to a password change.
type TokenBlacklist interface {
	// AddToBlacklist revokes jti for ttl, the token's remaining lifetime.
	// A non-positive ttl is a no-op.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist rejects every token of userID issued up to
	// now. ttl should cover the longest token lifetime.
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
	// IsUserTokenInvalidated compares at second precision; a token issued in
	// the invalidating second is rejected.
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

const blacklistKeyPrefix = "foodgram:token:"

func jtiKey(jti string) string     { return blacklistKeyPrefix + "jti:" + jti }
func userKey(userID string) string { return blacklistKeyPrefix + "user:" + userID }

// NewTokenBlacklist uses Redis when it is enabled and answers a ping, and
// process memory otherwise. The memory fallback is only correct for a
// single server instance.
func NewTokenBlacklist(cfg config.RedisConfig, logger *zap.Logger) TokenBlacklist {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory token blacklist")
		return NewInMemoryTokenBlacklist()
	}

	b, err := NewRedisTokenBlacklist(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory token blacklist",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
		return NewInMemoryTokenBlacklist()
	}
	logger.Info("Using Redis token blacklist", zap.String("addr", cfg.Addr()))
	return b
}
