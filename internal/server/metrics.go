package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/boxtower/pkg/observability"
)

const namespace = "boxtower"

// =============================================================================
// Prometheus Metrics
// =============================================================================

// Metrics records pipeline, cache and HTTP activity in a private Prometheus
// registry. It implements the observability hook interfaces; Install routes
// the global hooks to it.
type Metrics struct {
	registry *prometheus.Registry

	searches       *prometheus.CounterVec   // status
	searchDuration *prometheus.HistogramVec // status
	searchBoxes    prometheus.Histogram
	stackHeight    prometheus.Histogram

	renders        *prometheus.CounterVec   // status
	renderDuration *prometheus.HistogramVec // status

	cacheEvents *prometheus.CounterVec // type, event
	cacheBytes  *prometheus.CounterVec // type

	requests        *prometheus.CounterVec   // method, route, code
	requestDuration *prometheus.HistogramVec // method, route
	inFlight        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them, together with the Go
// runtime and process collectors, in a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Searches run, by outcome",
		}, []string{"status"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Search latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"status"}),
		searchBoxes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "boxes",
			Help:      "Number of input boxes per search",
			Buckets:   prometheus.LinearBuckets(0, 4, 16),
		}),
		stackHeight: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "stack_height",
			Help:      "Height of the winning stack",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),

		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "total",
			Help:      "Render calls, by outcome",
		}, []string{"status"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Render latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),

		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache lookups and writes, by key type and event (hit, miss, set)",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache, by key type",
		}, []string{"type"}),

		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Requests currently being served",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.searches, m.searchDuration, m.searchBoxes, m.stackHeight,
		m.renders, m.renderDuration,
		m.cacheEvents, m.cacheBytes,
		m.requests, m.requestDuration, m.inFlight,
	)
	return m
}

// Install routes the global observability hooks to m.
func (m *Metrics) Install() {
	observability.Register(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// PipelineHooks

func (m *Metrics) OnSearchStart(_ context.Context, boxes int, _ uint64) {
	m.searchBoxes.Observe(float64(boxes))
}

func (m *Metrics) OnSearchComplete(_ context.Context, _ int, height float64, d time.Duration, err error) {
	s := status(err)
	m.searches.WithLabelValues(s).Inc()
	m.searchDuration.WithLabelValues(s).Observe(d.Seconds())
	if err == nil {
		m.stackHeight.Observe(height)
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	s := status(err)
	m.renders.WithLabelValues(s).Inc()
	m.renderDuration.WithLabelValues(s).Observe(d.Seconds())
}

// CacheHooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// HTTPHooks

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
