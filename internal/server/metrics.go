package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/primepipe/internal/metrics"
	"github.com/agbru/primepipe/internal/sysmon"
)

// Metrics owns the Prometheus registry served on /metrics. Each instance has
// its own registry, so several servers can coexist in one process.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	activeRequests  prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	hostCPU         prometheus.Gauge
	hostMemory      prometheus.Gauge
	pipeline        *metrics.PipelineMetrics
}

// NewMetrics creates the HTTP and pipeline collectors along with the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace, Name: "active_requests",
			Help: "HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace, Name: "requests_total",
			Help: "HTTP requests served, by path and status code.",
		}, []string{"path", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace, Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		hostCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace, Name: "host_cpu_percent",
			Help: "System-wide CPU usage sampled by the server.",
		}),
		hostMemory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace, Name: "host_memory_percent",
			Help: "System-wide memory usage sampled by the server.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.activeRequests, m.requestsTotal, m.requestDuration,
		m.hostCPU, m.hostMemory,
	)
	m.pipeline = metrics.NewPipelineMetrics(reg)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// Pipeline returns the recorder passed to every strategy run by the server.
func (m *Metrics) Pipeline() *metrics.PipelineMetrics { return m.pipeline }

// ObserveHost records a system sample in the host gauges.
func (m *Metrics) ObserveHost(s sysmon.Stats) {
	m.hostCPU.Set(s.CPUPercent)
	m.hostMemory.Set(s.MemPercent)
}

// WritePrometheus serves the registry in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
