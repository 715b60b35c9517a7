package app

import (
	"context"
	"fmt"

	"github.com/yungbote/valuepm-backend/internal/data/db"
	"github.com/yungbote/valuepm-backend/internal/data/store"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
	"github.com/yungbote/valuepm-backend/internal/realtime/bus"
)

type Clients struct {
	// DB is nil for the memory store.
	DB    *db.Service
	Store store.Store
	// Bus is nil when REDIS_ADDR is unset or unreachable.
	Bus bus.Bus
}

// OpenClients connects the configured store and optional Redis bus.
func OpenClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...", "store_driver", cfg.StoreDriver)
	var out Clients

	switch cfg.StoreDriver {
	case StoreDriverMemory:
		out.Store = store.NewMemoryStore()
	default:
		svc, err := db.Open(cfg.DB, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init database: %w", err)
		}
		if cfg.AutoMigrate {
			if err := svc.AutoMigrateAll(); err != nil {
				_ = svc.Close()
				return Clients{}, fmt.Errorf("automigrate: %w", err)
			}
		}
		out.DB = svc
		out.Store = store.NewGormStore(svc.DB(), log)
	}

	if cfg.Redis.Addr != "" {
		b, err := bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			log.Warn("Redis event bus unavailable; events stay local", "error", err)
		} else {
			out.Bus = b
		}
	}
	return out, nil
}

// ping reports database reachability; the memory store is always up.
func (c Clients) ping(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c Clients) Close() {
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
