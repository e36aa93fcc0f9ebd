package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/simple-explain/internal/platform/ctxutil"
	"github.com/yungbote/simple-explain/internal/platform/logger"
)

// RequestLogger writes one line per request. Successful hits on quietRoutes
// (probes and scrapes) are logged at debug.
func RequestLogger(log *logger.Logger, quietRoutes ...string) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	quiet := make(map[string]bool, len(quietRoutes))
	for _, r := range quietRoutes {
		quiet[r] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if cd := ctxutil.GetClientData(c.Request.Context()); cd != nil && cd.ClientID != "" {
			fields = append(fields, "client_id", cd.ClientID)
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "error", last.Error())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case quiet[route]:
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
