package app

import (
	"github.com/yungbote/valuepm-backend/internal/observability"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

type Services struct {
	Portfolio *portfolio.Manager
	Metrics   *observability.Metrics
}

func wireServices(log *logger.Logger, cfg Config, clients Clients) Services {
	log.Info("Wiring services...")
	metrics := observability.NewMetrics(cfg.Metrics)

	var notifiers []portfolio.Notifier
	if clients.Bus != nil {
		notifiers = append(notifiers, clients.Bus)
	}
	if metrics != nil {
		notifiers = append(notifiers, metrics)
	}

	var opts []portfolio.Option
	if len(notifiers) > 0 {
		opts = append(opts, portfolio.WithNotifier(portfolio.Fanout(notifiers...)))
	}
	return Services{
		Portfolio: portfolio.NewManager(clients.Store, log, opts...),
		Metrics:   metrics,
	}
}
