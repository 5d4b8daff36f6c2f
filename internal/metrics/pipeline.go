package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/primepipe/internal/pipeline"
)

// Namespace prefixes every collector exported by primepipe.
const Namespace = "primepipe"

// PipelineMetrics records pipeline activity in Prometheus collectors.
// It implements pipeline.Recorder.
type PipelineMetrics struct {
	checked       prometheus.Counter
	primes        prometheus.Counter
	workersDone   prometheus.Counter
	activeWorkers prometheus.Gauge
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
}

var _ pipeline.Recorder = (*PipelineMetrics)(nil)

// NewPipelineMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		checked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Name: "candidates_checked_total",
			Help: "Candidates tested for primality by pipeline workers.",
		}),
		primes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Name: "primes_found_total",
			Help: "Primes confirmed by pipeline workers.",
		}),
		workersDone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace, Name: "worker_done_total",
			Help: "WorkerDone signals emitted.",
		}),
		activeWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "active_workers",
			Help: "Workers currently consuming the work queue.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace, Name: "runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace, Name: "run_duration_seconds",
			Help:    "Wall-clock duration of successful pipeline runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.checked, m.primes, m.workersDone, m.activeWorkers, m.runs, m.runDuration)
	}
	return m
}

// WorkerStarted implements pipeline.Recorder.
func (m *PipelineMetrics) WorkerStarted() {
	m.activeWorkers.Inc()
}

// WorkerFinished implements pipeline.Recorder.
func (m *PipelineMetrics) WorkerFinished(stats pipeline.WorkerStats) {
	m.workersDone.Inc()
	m.checked.Add(float64(stats.Checked))
	m.primes.Add(float64(stats.Found))
}

// WorkerExited implements pipeline.Recorder.
func (m *PipelineMetrics) WorkerExited() {
	m.activeWorkers.Dec()
}

// RunFinished implements pipeline.Recorder.
func (m *PipelineMetrics) RunFinished(report *pipeline.Report, err error) {
	if err != nil {
		m.runs.WithLabelValues(outcome(err)).Inc()
		return
	}
	m.runs.WithLabelValues("success").Inc()
	if report != nil {
		m.runDuration.Observe(report.Duration.Seconds())
	}
}
