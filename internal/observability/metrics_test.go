package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.APIInflightInc()
	m.APIInflightDec()
	if err := m.Notify(context.Background(), portfolio.Event{}); err != nil {
		t.Fatalf("Notify: err=%v", err)
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Handler: status=%d", rec.Code)
	}
	if NewMetrics(MetricsConfig{Enabled: false}) != nil {
		t.Fatalf("NewMetrics disabled: expected nil")
	}
}

func TestMetricsRecordAndExpose(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, SLOLatencyThreshold: 100 * time.Millisecond})
	m.ObserveAPI("GET", "/api/v1/projects", "200", 10*time.Millisecond)
	m.ObserveAPI("GET", "/api/v1/projects", "500", 10*time.Millisecond)
	m.ObserveAPI("GET", "/api/v1/projects", "200", time.Second)
	_ = m.Notify(context.Background(), portfolio.Event{Type: portfolio.EventMeasurementRecorded, ProjectID: uuid.New()})

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/v1/projects", "200")); got != 2 {
		t.Fatalf("api requests: got=%v want=2", got)
	}
	if got := testutil.ToFloat64(m.sloGood); got != 1 {
		t.Fatalf("slo good: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.events.WithLabelValues("measurement.recorded")); got != 1 {
		t.Fatalf("events: got=%v want=1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "valuepm_api_requests_total") {
		t.Fatalf("Handler: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestProjectCollector(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartProjectCollector(ctx, nil, func(context.Context) (int64, error) { return 7, nil }, time.Hour)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(m.projects) == 7 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("projects gauge never reached 7")
}
