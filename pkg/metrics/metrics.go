// Package metrics implements the observability hooks with Prometheus
// collectors.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.Register()
//	http.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/algoviz/pkg/observability"
)

const namespace = "algoviz"

// Registry holds every collector. It implements observability.ScenarioHooks,
// observability.StoreHooks and observability.HTTPHooks.
type Registry struct {
	registry *prometheus.Registry

	CommandsAppended *prometheus.CounterVec
	CommandsStepped  *prometheus.CounterVec
	Imports          *prometheus.CounterVec
	ImportedCommands prometheus.Counter

	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the collectors on reg. A nil reg creates a fresh registry
// that also exports Go runtime and process metrics.
func New(reg *prometheus.Registry) *Registry {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	r := &Registry{registry: reg}
	r.initScenarioMetrics()
	r.initStoreMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initScenarioMetrics() {
	r.CommandsAppended = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_appended_total",
			Help:      "Commands recorded into scenarios",
		},
		[]string{"action"},
	)
	r.CommandsStepped = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_stepped_total",
			Help:      "Commands applied by scenario playback",
		},
		[]string{"direction", "action"},
	)
	r.Imports = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Scenario documents imported",
		},
		[]string{"format", "status"},
	)
	r.ImportedCommands = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_commands_total",
			Help:      "Commands contained in successfully imported documents",
		},
	)
}

func (r *Registry) initStoreMetrics() {
	r.StoreOperations = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Document store operations",
		},
		[]string{"backend", "op", "status"},
	)
	r.StoreDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Document store operation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequests = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)
	r.HTTPDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

// Register installs r as the scenario, store and HTTP hooks.
func (r *Registry) Register() {
	observability.SetScenarioHooks(r)
	observability.SetStoreHooks(r)
	observability.SetHTTPHooks(r)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// OnAppend implements observability.ScenarioHooks.
func (r *Registry) OnAppend(action string) {
	r.CommandsAppended.WithLabelValues(action).Inc()
}

// OnStep implements observability.ScenarioHooks.
func (r *Registry) OnStep(direction, action string) {
	r.CommandsStepped.WithLabelValues(direction, action).Inc()
}

// OnImport implements observability.ScenarioHooks.
func (r *Registry) OnImport(format string, commands int, err error) {
	r.Imports.WithLabelValues(format, status(err)).Inc()
	if err == nil {
		r.ImportedCommands.Add(float64(commands))
	}
}

// OnStoreOp implements observability.StoreHooks.
func (r *Registry) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	r.StoreOperations.WithLabelValues(backend, op, status(err)).Inc()
	r.StoreDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}

// OnRequest implements observability.HTTPHooks.
func (r *Registry) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.ScenarioHooks = (*Registry)(nil)
	_ observability.StoreHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)
