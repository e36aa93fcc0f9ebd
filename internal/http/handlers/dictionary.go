package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/simple-explain/internal/http/response"
	"github.com/yungbote/simple-explain/internal/locale"
)

type DictionaryHandler struct{}

func NewDictionaryHandler() *DictionaryHandler { return &DictionaryHandler{} }

// GET /api/dictionary/:lang
// Unknown languages get the English dictionary.
func (h *DictionaryHandler) Get(c *gin.Context) {
	response.RespondOK(c, locale.Get(locale.Normalize(c.Param("lang"))))
}
