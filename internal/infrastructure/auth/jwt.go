package auth

import (
	"errors"
	"time"

	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType tells access and refresh tokens apart
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// Claims is the payload of both token types. Username and IsAdmin are only
// set on access tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	IsAdmin      bool      `json:"is_admin,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// TokenPair is what login and refresh hand back to the client
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// signingKey is the secret and lifetime of one token type
type signingKey struct {
	secret []byte
	ttl    time.Duration
}

// JWTService issues and verifies HS256 access and refresh tokens. The two
// types are signed with separate secrets so one can never pass for the other.
type JWTService struct {
	keys            map[TokenType]signingKey
	issuer          string
	maxRefreshCount int
	now             func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}

	return &JWTService{
		keys: map[TokenType]signingKey{
			TokenTypeAccess:  {secret: []byte(cfg.Secret), ttl: cfg.AccessTokenExpiration},
			TokenTypeRefresh: {secret: []byte(refreshSecret), ttl: cfg.RefreshTokenExpiration},
		},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
		now:             time.Now,
	}
}

// GenerateTokenInput is the identity a token pair is issued for
type GenerateTokenInput struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

func (s *JWTService) GenerateTokenPair(input GenerateTokenInput) (*TokenPair, error) {
	return s.issuePair(input, 0)
}

// RefreshTokenPair issues a rotated pair for claims previously returned by
// ValidateRefreshToken. input carries the user's current name and role so
// that a demoted admin does not keep the flag across refreshes.
func (s *JWTService) RefreshTokenPair(claims *Claims, input GenerateTokenInput) (*TokenPair, error) {
	switch {
	case claims == nil || claims.TokenType != TokenTypeRefresh:
		return nil, ErrInvalidTokenType
	case claims.RefreshCount >= s.maxRefreshCount:
		return nil, ErrMaxRefreshExceeded
	case claims.UserID != input.UserID.String():
		return nil, ErrInvalidClaims
	}
	return s.issuePair(input, claims.RefreshCount+1)
}

func (s *JWTService) issuePair(input GenerateTokenInput, refreshCount int) (*TokenPair, error) {
	now := s.now()
	userID := input.UserID.String()

	access := &Claims{
		UserID:    userID,
		Username:  input.Username,
		IsAdmin:   input.IsAdmin,
		TokenType: TokenTypeAccess,
	}
	// Refresh tokens carry identity only; roles are re-read on refresh
	refresh := &Claims{
		UserID:       userID,
		TokenType:    TokenTypeRefresh,
		RefreshCount: refreshCount,
	}

	pair := &TokenPair{TokenType: "Bearer"}
	var err error
	if pair.AccessToken, pair.AccessTokenExpiresAt, err = s.sign(access, now); err != nil {
		return nil, err
	}
	if pair.RefreshToken, pair.RefreshTokenExpiresAt, err = s.sign(refresh, now); err != nil {
		return nil, err
	}
	return pair, nil
}

// sign fills the registered claims for the token type of c and signs it with
// that type's secret
func (s *JWTService) sign(c *Claims, now time.Time) (string, time.Time, error) {
	key := s.keys[c.TokenType]
	c.RegisteredClaims = s.registered(c.UserID, now, key.ttl)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, now.Add(key.ttl), nil
}

func (s *JWTService) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenTypeAccess)
}

func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenTypeRefresh)
}

// parse verifies signature, issuer and time window with the key of want,
// then checks the claims themselves
func (s *JWTService) parse(tokenString string, want TokenType) (*Claims, error) {
	secret := s.keys[want].secret
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	case !token.Valid:
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != want {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetUserUUID extracts and parses the user ID from claims
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// GetIssuedAtTime is compared against per-user revocation timestamps
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// GetRemainingTTL is how long a blacklist entry for this token must live
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.keys[TokenTypeAccess].ttl
}

func (s *JWTService) GetRefreshTokenExpiration() time.Duration {
	return s.keys[TokenTypeRefresh].ttl
}
