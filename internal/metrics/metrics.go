// Package metrics exposes Prometheus instruments for the interview pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	sessionsStarted  prometheus.Counter
	sessionsFinished *prometheus.CounterVec
	generations      *prometheus.CounterVec
	fallbacks        prometheus.Counter
	pipelineDuration *prometheus.HistogramVec
}

// New registers all instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "interview",
			Name:      "sessions_started_total",
			Help:      "Interview sessions created.",
		}),
		sessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Name:      "sessions_finished_total",
			Help:      "Interview sessions that reached a terminal status.",
		}, []string{"status"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Name:      "generation_attempts_total",
			Help:      "LLM generation attempts by backend and outcome.",
		}, []string{"backend", "outcome"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "interview",
			Name:      "generation_fallbacks_total",
			Help:      "Times the fallback backend was used.",
		}),
		pipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "interview",
			Name:      "pipeline_duration_seconds",
			Help:      "Wall time of setup and answer pipelines.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"pipeline"}),
	}

	reg.MustRegister(m.sessionsStarted, m.sessionsFinished, m.generations, m.fallbacks, m.pipelineDuration)
	return m
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *Metrics) SessionFinished(status string) {
	if m == nil {
		return
	}
	m.sessionsFinished.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveGeneration(backend, outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(backend, outcome).Inc()
}

func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

// ObservePipeline records time since start under the given pipeline name.
func (m *Metrics) ObservePipeline(pipeline string, start time.Time) {
	if m == nil {
		return
	}
	m.pipelineDuration.WithLabelValues(pipeline).Observe(time.Since(start).Seconds())
}
