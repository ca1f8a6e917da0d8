package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodgram/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProbe struct {
	pingErr error
}

func (p stubProbe) Ping() error { return p.pingErr }

func (p stubProbe) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{MaxOpenConnections: 10, OpenConnections: 2, InUse: 1, Idle: 1}, nil
}

func serveProbe(t *testing.T, h *SystemHandler, path string) (int, map[string]any) {
	t.Helper()

	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestSystemHandler_Health(t *testing.T) {
	code, body := serveProbe(t, NewSystemHandler(stubProbe{pingErr: errors.New("down")}), "/health")

	assert.Equal(t, http.StatusOK, code, "liveness does not depend on the database")
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["uptime"])
}

func TestSystemHandler_Ready(t *testing.T) {
	code, body := serveProbe(t, NewSystemHandler(stubProbe{}), "/ready")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
	pool, ok := body["pool"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 10, pool["max_open"])
	assert.EqualValues(t, 1, pool["in_use"])
}

func TestSystemHandler_Ready_DatabaseDown(t *testing.T) {
	code, body := serveProbe(t, NewSystemHandler(stubProbe{pingErr: errors.New("connection refused")}), "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, "error", body["database"])
	assert.NotContains(t, body, "pool")
}

func TestSystemHandler_Ready_RealDatabase(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
