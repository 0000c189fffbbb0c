package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController reports liveness.
type HealthController struct {
	started time.Time
	now     func() time.Time
}

// NewHealthController creates a HealthController whose uptime counts from started.
func NewHealthController(started time.Time) *HealthController {
	return &HealthController{started: started, now: time.Now}
}

// Health handles GET /health
func (hc *HealthController) Health(ctx *gin.Context) {
	now := hc.now()
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": now.UTC().Format(time.RFC3339),
		"uptime":    now.Sub(hc.started).Seconds(),
	})
}
