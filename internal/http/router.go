package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/simple-explain/internal/http/handlers"
	httpMW "github.com/yungbote/simple-explain/internal/http/middleware"
	"github.com/yungbote/simple-explain/internal/observability"
	"github.com/yungbote/simple-explain/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	// TraceService enables otelgin spans under this service name when set.
	TraceService string

	ExplainHandler    *httpH.ExplainHandler
	DictionaryHandler *httpH.DictionaryHandler
	RecentHandler     *httpH.RecentHandler
	MetricsHandler    *httpH.MetricsHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TraceService != "" {
		r.Use(otelgin.Middleware(cfg.TraceService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachClientID())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck", "/metrics"))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", cfg.MetricsHandler.Serve)
	}

	api := r.Group("/api")
	{
		if cfg.ExplainHandler != nil {
			api.POST("/generate", cfg.ExplainHandler.Generate)
		}

		if cfg.DictionaryHandler != nil {
			api.GET("/dictionary/:lang", cfg.DictionaryHandler.Get)
		}

		// Recent searches, scoped by X-Client-Id
		if cfg.RecentHandler != nil {
			api.GET("/recent/:lang", cfg.RecentHandler.List)
			api.POST("/recent/:lang", cfg.RecentHandler.Record)
			api.GET("/recent/:lang/:index/export", cfg.RecentHandler.Export)
		}
	}

	return r
}
