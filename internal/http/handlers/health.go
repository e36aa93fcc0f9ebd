package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/simple-explain/internal/services"
)

type HealthHandler struct {
	explainService services.ExplainService
	storage        string
}

// NewHealthHandler reports liveness plus whether generation is usable.
// explainService may be nil.
func NewHealthHandler(explainService services.ExplainService, storage string) *HealthHandler {
	return &HealthHandler{explainService: explainService, storage: storage}
}

// GET /healthcheck
// Always 200: dictionaries and history keep working without a model key.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	generation := "not_configured"
	variant := ""
	if h.explainService != nil {
		variant = string(h.explainService.Variant())
		if h.explainService.Ready() {
			generation = "ready"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"generation": generation,
		"variant":    variant,
		"storage":    h.storage,
	})
}
