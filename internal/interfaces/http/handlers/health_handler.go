package handlers

import (
	"fmt"
	"net/http"

	"account-api.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// HealthHandler serves the welcome and liveness endpoints
type HealthHandler struct {
	appName string
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(appName, version string) *HealthHandler {
	return &HealthHandler{appName: appName, version: version}
}

// Welcome handles GET /
func (h *HealthHandler) Welcome(c *gin.Context) {
	response.Success(c, http.StatusOK, fmt.Sprintf("Welcome to API %s", h.appName), nil)
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.appName,
		"version": h.version,
	})
}
