package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/valuepm-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("SLO_API_LATENCY_THRESHOLD_SECONDS", "")

	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: err=%v", err)
	}
	if cfg.StoreDriver != StoreDriverPostgres || cfg.DB.Driver != "postgres" {
		t.Fatalf("LoadConfig: driver=%q db=%q", cfg.StoreDriver, cfg.DB.Driver)
	}
	if cfg.Port != "8080" || cfg.APIPrefix != "/api/v1" {
		t.Fatalf("LoadConfig: port=%q prefix=%q", cfg.Port, cfg.APIPrefix)
	}
	if cfg.Metrics.SLOLatencyThreshold != 500*time.Millisecond {
		t.Fatalf("LoadConfig: slo=%v", cfg.Metrics.SLOLatencyThreshold)
	}
	if cfg.Otel.ServiceName != ServiceName || cfg.Otel.Version != cfg.Version {
		t.Fatalf("LoadConfig: otel=%+v", cfg.Otel)
	}
}

func TestLoadConfigDrivers(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: err=%v", err)
	}
	if cfg.StoreDriver != StoreDriverSQLite || cfg.DB.Driver != "sqlite" {
		t.Fatalf("LoadConfig: driver=%q db=%q", cfg.StoreDriver, cfg.DB.Driver)
	}

	t.Setenv("STORE_DRIVER", "oracle")
	if _, err := LoadConfig(logger.NewNop()); err == nil {
		t.Fatalf("LoadConfig: expected error for unknown driver")
	}
}

func TestNewWithMemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENABLED", "false")

	log := logger.NewNop()
	cfg, err := LoadConfig(log)
	if err != nil {
		t.Fatalf("LoadConfig: err=%v", err)
	}
	a, err := NewWithConfig(log, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: err=%v", err)
	}
	defer a.Close()
	if a.Clients.DB != nil || a.Clients.Bus != nil {
		t.Fatalf("NewWithConfig: memory store should not open db or bus")
	}
	a.Start()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		a.Server.Engine.ServeHTTP(w, req)
		return w
	}

	if w := do(http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("GET /health: code=%d body=%s", w.Code, w.Body.String())
	}
	w := do(http.MethodPost, "/api/v1/projects", `{"name":"Cloud Migration","project_type":"infrastructure","estimated_total_value":1000}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /projects: code=%d body=%s", w.Code, w.Body.String())
	}
	if n, err := a.Clients.Store.CountProjects(context.Background()); err != nil || n != 1 {
		t.Fatalf("CountProjects: n=%d err=%v", n, err)
	}

	w = do(http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics: code=%d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"valuepm_api_requests_total", `valuepm_portfolio_events_total{type="project.created"} 1`} {
		if !strings.Contains(body, name) {
			t.Fatalf("GET /metrics: missing %q", name)
		}
	}
}
