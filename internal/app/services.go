package app

import (
	"github.com/yungbote/simple-explain/internal/domain/explain"
	"github.com/yungbote/simple-explain/internal/modules/explain/history"
	"github.com/yungbote/simple-explain/internal/platform/logger"
	"github.com/yungbote/simple-explain/internal/services"
)

type Services struct {
	Explain services.ExplainService
	Recent  services.RecentService
}

func wireServices(log *logger.Logger, cfg *Config, clients Clients) Services {
	log.Info("Wiring services...")
	variant := explain.Variant(cfg.Explain.Variant)

	return Services{
		Explain: services.NewExplainService(log, clients.OpenAI, services.ExplainConfig{
			Variant: variant,
			Timeout: cfg.Explain.GenerateTimeout,
		}),
		Recent: services.NewRecentService(log, history.New(clients.Store, log), variant),
	}
}
