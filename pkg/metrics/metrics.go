// Package metrics implements the observability hooks with Prometheus.
//
// A [Registry] owns a private prometheus.Registry so tests and embedded
// servers never collide on the global default registerer:
//
//	m := metrics.NewRegistry()
//	m.Install()                          // register as observability hooks
//	router.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/doctriage/pkg/observability"
)

const namespace = "doctriage"

// Registry holds all metrics for the application.
type Registry struct {
	// Pipeline metrics
	LayoutsTotal      prometheus.Counter
	LayoutDuration    prometheus.Histogram
	LayoutNodes       prometheus.Histogram
	RendersTotal      *prometheus.CounterVec
	RenderDuration    prometheus.Histogram
	IngestsTotal      *prometheus.CounterVec
	IngestDuration    prometheus.Histogram
	IngestedDocuments prometheus.Counter
	HitTestsTotal     *prometheus.CounterVec

	// Cache metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheWrittenBytes  *prometheus.CounterVec

	// Storage metrics
	StorageOperationsTotal   *prometheus.CounterVec
	StorageOperationDuration *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initStorageMetrics()
	r.initHTTPMetrics()
	return r
}

// Prometheus returns the underlying Prometheus registry.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Install registers r for every observability hook category.
func (r *Registry) Install() {
	observability.SetPipelineHooks(r)
	observability.SetInteractionHooks(r)
	observability.SetCacheHooks(r)
	observability.SetStorageHooks(r)
	observability.SetHTTPHooks(r)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// =============================================================================
// Hook implementations
// =============================================================================

func (r *Registry) OnLayoutStart(context.Context, int) {}

func (r *Registry) OnLayoutComplete(_ context.Context, nodes, _ int, d time.Duration) {
	r.LayoutsTotal.Inc()
	r.LayoutDuration.Observe(d.Seconds())
	r.LayoutNodes.Observe(float64(nodes))
}

func (r *Registry) OnRenderStart(context.Context, []string) {}

func (r *Registry) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		r.RendersTotal.WithLabelValues(f, status(err)).Inc()
	}
	r.RenderDuration.Observe(d.Seconds())
}

func (r *Registry) OnIngestStart(context.Context, string) {}

func (r *Registry) OnIngestComplete(_ context.Context, _ string, documents int, d time.Duration, err error) {
	r.IngestsTotal.WithLabelValues(status(err)).Inc()
	r.IngestDuration.Observe(d.Seconds())
	if err == nil {
		r.IngestedDocuments.Add(float64(documents))
	}
}

func (r *Registry) OnHitTest(_ context.Context, mode string, hit bool) {
	r.HitTestsTotal.WithLabelValues(mode, strconv.FormatBool(hit)).Inc()
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

func (r *Registry) OnStorageOp(_ context.Context, backend, op string, d time.Duration, err error) {
	r.StorageOperationsTotal.WithLabelValues(backend, op, status(err)).Inc()
	r.StorageOperationDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}

func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	c := strconv.Itoa(code)
	r.HTTPRequestsTotal.WithLabelValues(method, route, c).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, c).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks    = (*Registry)(nil)
	_ observability.InteractionHooks = (*Registry)(nil)
	_ observability.CacheHooks       = (*Registry)(nil)
	_ observability.StorageHooks     = (*Registry)(nil)
	_ observability.HTTPHooks        = (*Registry)(nil)
)
