package handler

import (
	"net/http"
	"strings"
	"testing"

	identityapp "github.com/foodgram/backend/internal/application/identity"
	"github.com/foodgram/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testApp) login(email, password string) identityapp.TokenResponse {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var tokens identityapp.TokenResponse
	decode(a.t, w, &tokens)
	return tokens
}

func TestAuthHandler_Login(t *testing.T) {
	app := newTestApp(t)
	app.newAccount("chef", false)

	tokens := app.login("CHEF@example.com", "s3cret-pass")
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)

	w := app.do(http.MethodGet, "/api/v1/users/me", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_Rejections(t *testing.T) {
	app := newTestApp(t)
	app.newAccount("chef", false)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"wrong password", map[string]string{"email": "chef@example.com", "password": "wrong-pass"}, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"unknown email", map[string]string{"email": "ghost@example.com", "password": "s3cret-pass"}, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"invalid email", map[string]string{"email": "chef", "password": "s3cret-pass"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"malformed body", strings.NewReader(`{"email":`), http.StatusBadRequest, dto.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestAuthHandler_Refresh_RotatesOnce(t *testing.T) {
	app := newTestApp(t)
	app.newAccount("chef", false)
	tokens := app.login("chef@example.com", "s3cret-pass")

	w := app.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rotated identityapp.TokenResponse
	decode(t, w, &rotated)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	w = app.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a refresh token is single use")
}

func TestAuthHandler_Refresh_RejectsAccessToken(t *testing.T) {
	app := newTestApp(t)
	app.newAccount("chef", false)
	tokens := app.login("chef@example.com", "s3cret-pass")

	w := app.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	app := newTestApp(t)
	app.newAccount("chef", false)
	tokens := app.login("chef@example.com", "s3cret-pass")

	w := app.do(http.MethodPost, "/api/v1/auth/logout", tokens.AccessToken,
		map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = app.do(http.MethodGet, "/api/v1/users/me", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))

	w = app.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "the session's refresh token is revoked too")
}

func TestAuthHandler_Logout_WithoutBody(t *testing.T) {
	app := newTestApp(t)
	chef := app.newAccount("chef", false)

	w := app.do(http.MethodPost, "/api/v1/auth/logout", chef.token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthHandler_Logout_RequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
