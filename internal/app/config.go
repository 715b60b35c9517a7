package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/valuepm-backend/internal/data/db"
	"github.com/yungbote/valuepm-backend/internal/http/middleware"
	"github.com/yungbote/valuepm-backend/internal/observability"
	"github.com/yungbote/valuepm-backend/internal/platform/envutil"
	"github.com/yungbote/valuepm-backend/internal/platform/logger"
	"github.com/yungbote/valuepm-backend/internal/realtime/bus"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"

	ServiceName = "valuepm"
)

type Config struct {
	Port      string
	APIPrefix string
	LogMode   string
	Env       string
	Version   string

	StoreDriver string
	DB          db.Config
	AutoMigrate bool

	CORSOrigins     []string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration

	Redis   bus.Config
	Otel    observability.OtelConfig
	Metrics observability.MetricsConfig
	// How often the project gauge is refreshed.
	MetricsScrapeInterval time.Duration
}

// LoadConfig reads the environment once at startup.
func LoadConfig(log *logger.Logger) (Config, error) {
	driver := strings.ToLower(envutil.String("STORE_DRIVER", StoreDriverPostgres))
	switch driver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q (want postgres, sqlite or memory)", driver)
	}
	dbDriver := db.DriverPostgres
	if driver == StoreDriverSQLite {
		dbDriver = db.DriverSQLite
	}

	cfg := Config{
		Port:      envutil.String("PORT", "8080"),
		APIPrefix: envutil.String("API_PREFIX", "/api/v1"),
		LogMode:   envutil.String("LOG_MODE", "development"),
		Env:       envutil.String("APP_ENV", "development"),
		Version:   envutil.String("SERVICE_VERSION", "1.0.0"),

		StoreDriver: driver,
		DB: db.Config{
			Driver:           dbDriver,
			DSN:              envutil.String("DATABASE_URL", ""),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "valuepm"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "valuepm.db"),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime:  envutil.Seconds("DB_CONN_MAX_LIFETIME_SECONDS", 30*time.Minute),
		},
		AutoMigrate: envutil.Bool("DB_AUTO_MIGRATE", true),

		CORSOrigins:     envutil.List("CORS_ORIGINS", middleware.DefaultCORSOrigins),
		MaxBodyBytes:    envutil.Int64("MAX_BODY_BYTES", middleware.DefaultMaxBodyBytes),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),

		Redis: bus.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Channel:  envutil.String("REDIS_CHANNEL", bus.DefaultChannel),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", ServiceName),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
		Metrics: observability.MetricsConfig{
			Enabled:             envutil.Bool("METRICS_ENABLED", false),
			SLOLatencyThreshold: time.Duration(envutil.Float("SLO_API_LATENCY_THRESHOLD_SECONDS", 0.5) * float64(time.Second)),
		},
		MetricsScrapeInterval: envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 30*time.Second),
	}
	cfg.Otel.Environment = cfg.Env
	cfg.Otel.Version = cfg.Version

	if log != nil {
		log.Info("Config loaded",
			"store_driver", cfg.StoreDriver,
			"port", cfg.Port,
			"api_prefix", cfg.APIPrefix,
			"redis_enabled", cfg.Redis.Addr != "",
			"otel_enabled", cfg.Otel.Enabled,
			"metrics_enabled", cfg.Metrics.Enabled,
		)
	}
	return cfg, nil
}
