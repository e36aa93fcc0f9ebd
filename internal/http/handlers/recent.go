package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/simple-explain/internal/http/response"
	"github.com/yungbote/simple-explain/internal/platform/apierr"
	"github.com/yungbote/simple-explain/internal/platform/ctxutil"
	"github.com/yungbote/simple-explain/internal/services"
)

type RecentHandler struct {
	recentService services.RecentService
}

func NewRecentHandler(recentService services.RecentService) *RecentHandler {
	return &RecentHandler{recentService: recentService}
}

func clientID(c *gin.Context) string {
	if cd := ctxutil.GetClientData(c.Request.Context()); cd != nil {
		return cd.ClientID
	}
	return ""
}

// GET /api/recent/:lang
func (h *RecentHandler) List(c *gin.Context) {
	entries, err := h.recentService.List(c.Request.Context(), clientID(c), c.Param("lang"))
	if err != nil {
		response.RespondAPIError(c, err, "")
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// POST /api/recent/:lang
// body: { "topic": "...", "lesson": {...}?, "essay": "..."?, "level": "..."? }
func (h *RecentHandler) Record(c *gin.Context) {
	var in services.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	entries, err := h.recentService.Record(c.Request.Context(), clientID(c), c.Param("lang"), in)
	if err != nil {
		response.RespondAPIError(c, err, "")
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// GET /api/recent/:lang/:index/export
// index is 1-based, matching the numbering shown to users.
func (h *RecentHandler) Export(c *gin.Context) {
	position, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("index must be a number"))
		return
	}
	file, err := h.recentService.Export(c.Request.Context(), clientID(c), c.Param("lang"), position)
	if err != nil {
		response.RespondAPIError(c, err, "")
		return
	}
	response.RespondAttachment(c, file.Name, file.ContentType, file.Data)
}
