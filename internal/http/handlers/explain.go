package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/http/response"
	"github.com/yungbote/simple-explain/internal/locale"
	"github.com/yungbote/simple-explain/internal/platform/apierr"
	"github.com/yungbote/simple-explain/internal/services"
)

// missingInputMessage is the wire text clients already match on.
const missingInputMessage = "Missing topic or lang"

type ExplainHandler struct {
	explainService services.ExplainService
}

func NewExplainHandler(explainService services.ExplainService) *ExplainHandler {
	return &ExplainHandler{explainService: explainService}
}

// POST /api/generate
// body: { "topic": "...", "lang": "en" | "vi", "level": "beginner" | "intermediate" | "advanced" }
func (h *ExplainHandler) Generate(c *gin.Context) {
	var req explain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondMessage(c, http.StatusBadRequest, apierr.CodeInvalidRequest, missingInputMessage)
		return
	}
	out, err := h.explainService.Generate(c.Request.Context(), req)
	if errors.Is(err, services.ErrMissingInput) {
		_ = c.Error(err)
		response.RespondMessage(c, http.StatusBadRequest, apierr.CodeInvalidRequest, missingInputMessage)
		return
	}
	if err != nil {
		response.RespondAPIError(c, err, locale.Get(locale.Normalize(req.Lang)).ErrorMessage)
		return
	}
	response.RespondOK(c, out)
}
