// Package metrics exports scan, cache and HTTP activity as Prometheus
// metrics.
//
// A [Metrics] value implements the observability hook interfaces, so it is
// registered once at startup:
//
//	m := metrics.New(prometheus.NewRegistry())
//	observability.SetScanHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//
// and served by the HTTP server under /metrics via [Metrics.Handler].
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/hawkeye/pkg/observability"
)

const namespace = "hawkeye"

var (
	_ observability.ScanHooks  = (*Metrics)(nil)
	_ observability.CacheHooks = (*Metrics)(nil)
	_ observability.HTTPHooks  = (*Metrics)(nil)
)

// Metrics holds every collector the service exports.
type Metrics struct {
	registry *prometheus.Registry

	ScansTotal        prometheus.Counter
	ScanDuration      prometheus.Histogram
	ReposInFlight     prometheus.Gauge
	ReposTotal        *prometheus.CounterVec
	RepoDuration      prometheus.Histogram
	StagesTotal       *prometheus.CounterVec
	DependenciesTotal prometheus.Counter
	MatchesTotal      prometheus.Counter

	CacheEvents *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec

	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	UpstreamErrors   *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them, plus the Go and process
// collectors, on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{registry: reg}

	m.ScansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Total number of organization scans started",
	})
	m.ScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of organization scans in seconds",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
	m.ReposInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "repos_in_flight",
		Help:      "Number of repositories currently being scanned",
	})
	m.ReposTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repos_total",
		Help:      "Total number of repositories by outcome",
	}, []string{"outcome"})
	m.RepoDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "repo_duration_seconds",
		Help:      "Duration of single repository scans in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	m.StagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stages_total",
		Help:      "Total number of repository stage transitions",
	}, []string{"stage"})
	m.DependenciesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dependencies_total",
		Help:      "Total number of dependency occurrences extracted",
	})
	m.MatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vulnerable_dependencies_total",
		Help:      "Total number of dependency occurrences with advisories",
	})

	m.CacheEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_events_total",
		Help:      "Cache lookups and writes by key type and result",
	}, []string{"key_type", "result"})
	m.CacheBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_written_bytes_total",
		Help:      "Bytes written to the cache by key type",
	}, []string{"key_type"})

	m.UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Outgoing HTTP requests by host and status",
	}, []string{"method", "host", "status"})
	m.UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of outgoing HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "host"})
	m.UpstreamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Outgoing HTTP requests that got no response",
	}, []string{"method", "host"})

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})
	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of served HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ScansTotal,
		m.ScanDuration,
		m.ReposInFlight,
		m.ReposTotal,
		m.RepoDuration,
		m.StagesTotal,
		m.DependenciesTotal,
		m.MatchesTotal,
		m.CacheEvents,
		m.CacheBytes,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.UpstreamErrors,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Scan hooks

func (m *Metrics) OnScanStart(context.Context, string, int) { m.ScansTotal.Inc() }

func (m *Metrics) OnRepoSkipped(context.Context, string) {
	m.ReposTotal.WithLabelValues("skipped").Inc()
}

// OnStage tracks in-flight repositories: the first stage of a repository
// raises the gauge and a terminal stage lowers it.
func (m *Metrics) OnStage(_ context.Context, _ string, stage string) {
	m.StagesTotal.WithLabelValues(stage).Inc()
	switch stage {
	case "cloning":
		m.ReposInFlight.Inc()
	case "done", "errored":
		m.ReposInFlight.Dec()
	}
}

func (m *Metrics) OnRepoComplete(_ context.Context, _ string, o observability.RepoOutcome) {
	outcome := "succeeded"
	if o.Err != nil {
		outcome = "failed"
	}
	m.ReposTotal.WithLabelValues(outcome).Inc()
	m.RepoDuration.Observe(o.Duration.Seconds())
	m.DependenciesTotal.Add(float64(o.Dependencies))
	m.MatchesTotal.Add(float64(o.Vulnerabilities))
}

func (m *Metrics) OnScanComplete(_ context.Context, _ string, d time.Duration) {
	m.ScanDuration.Observe(d.Seconds())
}

// Cache hooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// HTTP client hooks

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	m.UpstreamRequests.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	m.UpstreamDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, host, _ string, _ error) {
	m.UpstreamErrors.WithLabelValues(method, host).Inc()
}
