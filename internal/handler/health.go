package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tradejournal/internal/cache"
)

// HealthHandler reports liveness and readiness. Readiness requires the
// journal database and, when configured, the session store: trades can
// be read without Redis, but login and revocation cannot work.
type HealthHandler struct {
	DB       *gorm.DB
	Sessions cache.Store
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "trade-journal-api"})
}

// @Summary Readiness check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_missing"})
		return
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_error"})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unreachable"})
		return
	}
	if h.Sessions != nil {
		if err := h.Sessions.Set(c.Request.Context(), "health:check", []byte("1"), time.Minute); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "session_store_unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": "trade-journal-api"})
}
