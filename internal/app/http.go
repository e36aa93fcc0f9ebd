package app

import (
	"github.com/yungbote/simple-explain/internal/http"
	httpH "github.com/yungbote/simple-explain/internal/http/handlers"
	"github.com/yungbote/simple-explain/internal/observability"
	"github.com/yungbote/simple-explain/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Explain    *httpH.ExplainHandler
	Dictionary *httpH.DictionaryHandler
	Recent     *httpH.RecentHandler
	Metrics    *httpH.MetricsHandler
}

func wireHandlers(log *logger.Logger, cfg *Config, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		Health:     httpH.NewHealthHandler(services.Explain, StorageOptions(cfg.Storage).Driver),
		Explain:    httpH.NewExplainHandler(services.Explain),
		Dictionary: httpH.NewDictionaryHandler(),
		Recent:     httpH.NewRecentHandler(services.Recent),
	}
	if metrics != nil {
		h.Metrics = httpH.NewMetricsHandler(metrics)
	}
	return h
}

func wireServer(log *logger.Logger, cfg *Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	traceService := ""
	if cfg.Otel.Enabled {
		traceService = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		CORSOrigins:       cfg.CORSOrigins(),
		TraceService:      traceService,
		HealthHandler:     handlers.Health,
		ExplainHandler:    handlers.Explain,
		DictionaryHandler: handlers.Dictionary,
		RecentHandler:     handlers.Recent,
		MetricsHandler:    handlers.Metrics,
	}, http.ServerOptions{
		Addr:         cfg.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
}
