// Package metrics instruments the HTTP shell and the dataset loader with
// Prometheus collectors. Each Recorder owns its registry so tests and
// multiple servers never share global state.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the Prometheus backend for request and load metrics.
type Recorder struct {
	reg *prometheus.Registry

	requests    *prometheus.CounterVec   // "velar_http_requests_total"
	duration    *prometheus.HistogramVec // "velar_http_request_duration_seconds"
	datasetRows prometheus.Gauge         // "velar_dataset_rows"
	loads       *prometheus.CounterVec   // "velar_dataset_loads_total"
}

// NewRecorder constructs a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	m := &Recorder{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "velar_http_requests_total",
				Help: "HTTP requests partitioned by route, method and status code.",
			},
			[]string{"route", "method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "velar_http_request_duration_seconds",
				Help:    "HTTP request latency partitioned by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "velar_dataset_rows",
			Help: "Rows in the dataset currently served.",
		}),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "velar_dataset_loads_total",
				Help: "Dataset load attempts partitioned by outcome.",
			},
			[]string{"status"},
		),
	}
	m.reg.MustRegister(m.requests, m.duration, m.datasetRows, m.loads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveLoad records one dataset load attempt and the rows now being served.
func (m *Recorder) ObserveLoad(rows int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.loads.WithLabelValues(status).Inc()
	m.datasetRows.Set(float64(rows))
}

// Middleware counts requests per chi route pattern. It must be installed
// with chi's Use so the route context is populated.
func (m *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(code)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the registry in the Prometheus text format.
func (m *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
