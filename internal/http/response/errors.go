package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/simple-explain/internal/platform/apierr"
)

// RespondAPIError writes err using its apierr status and code. Server-side
// failures carry serverMessage instead of the internal error text.
func RespondAPIError(c *gin.Context, err error, serverMessage string) {
	e := apierr.From(err)
	_ = c.Error(err)
	if e.Status >= http.StatusInternalServerError && serverMessage != "" {
		RespondMessage(c, e.Status, e.Code, serverMessage)
		return
	}
	RespondError(c, e.Status, e.Code, e)
}
