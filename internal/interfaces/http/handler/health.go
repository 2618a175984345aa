package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventory/backend/internal/infrastructure/persistence"
	"github.com/inventory/backend/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
)

const probeTimeout = 2 * time.Second

// HealthHandler serves liveness, readiness and metrics endpoints. Readiness
// probes reuse the long-lived connection pools; it never opens or closes
// connections of its own.
type HealthHandler struct {
	BaseHandler
	db      *persistence.Database
	redis   *redis.Client
	metrics *telemetry.Metrics
	version string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database, redisClient *redis.Client, metrics *telemetry.Metrics, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redisClient,
		metrics: metrics,
		version: version,
	}
}

// RegisterRoutes registers the health endpoints
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/", h.Live)
		health.GET("/ready", h.Ready)
		health.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// Live handles GET /health/. It answers as long as the process is up.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "inventory",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /health/ready. It reports 503 when either backing
// store is unreachable, with a per-dependency breakdown.
func (h *HealthHandler) Ready(c *gin.Context) {
	checkCtx, checkCancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer checkCancel()

	checks := gin.H{}
	ready := true

	if err := h.db.Ping(); err != nil {
		checks["database"] = gin.H{"status": "unhealthy", "error": err.Error()}
		ready = false
	} else {
		checks["database"] = gin.H{"status": "healthy"}
	}

	if err := h.redis.Ping(checkCtx).Err(); err != nil {
		checks["redis"] = gin.H{"status": "unhealthy", "error": err.Error()}
		ready = false
	} else {
		checks["redis"] = gin.H{"status": "healthy"}
	}

	status := http.StatusOK
	overall := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
