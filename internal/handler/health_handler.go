package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SplendidSupplies/shop_api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	backend string
}

// NewHealthHandler creates a new HealthHandler reporting the active storage
// backend.
func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// GetHealth responds with service status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"storage": h.backend,
	})
}
