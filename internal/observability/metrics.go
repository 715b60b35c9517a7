package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/valuepm-backend/internal/platform/logger"
	"github.com/yungbote/valuepm-backend/internal/portfolio"
)

// Metrics owns a private Prometheus registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	events      *prometheus.CounterVec
	projects    prometheus.Gauge
	sloGood     prometheus.Counter

	sloLatencyThreshold time.Duration
}

type MetricsConfig struct {
	Enabled bool
	// Requests at or under this latency count toward the API SLO.
	SLOLatencyThreshold time.Duration
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	threshold := cfg.SLOLatencyThreshold
	if threshold <= 0 {
		threshold = 500 * time.Millisecond
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valuepm_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "valuepm_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "valuepm_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valuepm_portfolio_events_total",
			Help: "Committed portfolio changes by event type.",
		}, []string{"type"}),
		projects: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "valuepm_projects",
			Help: "Projects currently tracked.",
		}),
		sloGood: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "valuepm_api_requests_good_total",
			Help: "API requests that met the latency objective without a server error.",
		}),
		sloLatencyThreshold: threshold,
	}
	m.registry.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight, m.events, m.projects, m.sloGood,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
	if code, err := strconv.Atoi(status); err == nil && code < 500 && dur <= m.sloLatencyThreshold {
		m.sloGood.Inc()
	}
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// Notify counts portfolio events; it satisfies portfolio.Notifier.
func (m *Metrics) Notify(_ context.Context, ev portfolio.Event) error {
	if m == nil {
		return nil
	}
	m.events.WithLabelValues(string(ev.Type)).Inc()
	return nil
}

// StartProjectCollector polls count every interval until ctx is done.
func (m *Metrics) StartProjectCollector(ctx context.Context, log *logger.Logger, count func(context.Context) (int64, error), interval time.Duration) {
	if m == nil || count == nil {
		return
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	collect := func() {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		n, err := count(cctx)
		if err != nil {
			if log != nil {
				log.Warn("project collector failed", "error", err)
			}
			return
		}
		m.projects.Set(float64(n))
	}
	go func() {
		collect()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collect()
			}
		}
	}()
}
