package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/simple-explain/internal/platform/ctxutil"
)

const HeaderClientID = "X-Client-Id"

// AttachClientID puts the caller's anonymous client id on the request
// context, minting one when the header is missing or malformed. The id in
// use is always echoed back.
func AttachClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderClientID))
		generated := false
		if !ctxutil.ValidClientID(id) {
			id = uuid.NewString()
			generated = true
		}
		ctx := ctxutil.WithClientData(c.Request.Context(), &ctxutil.ClientData{
			ClientID:  id,
			Generated: generated,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(HeaderClientID, id)
		c.Next()
	}
}
