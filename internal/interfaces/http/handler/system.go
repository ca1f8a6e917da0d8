package handler

import (
	"net/http"
	"time"

	"github.com/foodgram/backend/internal/infrastructure/logger"
	"github.com/foodgram/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatabaseProbe is the part of the database the readiness check needs
type DatabaseProbe interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler serves liveness and readiness probes
type SystemHandler struct {
	db        DatabaseProbe
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db DatabaseProbe) *SystemHandler {
	return &SystemHandler{db: db, startTime: time.Now()}
}

// Health handles GET /health. It only reports that the process serves requests.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready handles GET /ready: the database must answer a ping
func (h *SystemHandler) Ready(c *gin.Context) {
	reqLog := logger.GetGinLogger(c)

	if err := h.db.Ping(); err != nil {
		reqLog.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"time":     time.Now().UTC().Format(time.RFC3339),
			"database": "error",
		})
		return
	}

	body := gin.H{
		"status":   "ready",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"database": "ok",
	}
	if stats, err := h.db.Stats(); err == nil {
		body["pool"] = gin.H{
			"max_open":      stats.MaxOpenConnections,
			"open":          stats.OpenConnections,
			"in_use":        stats.InUse,
			"idle":          stats.Idle,
			"wait_count":    stats.WaitCount,
			"wait_duration": stats.WaitDuration.String(),
		}
	}
	c.JSON(http.StatusOK, body)
}
