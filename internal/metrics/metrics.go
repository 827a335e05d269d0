// Package metrics provides Prometheus metrics for the forecaster.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Manager owns every metric of the service on one registry.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	invocations        *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec
	invocationRows     *prometheus.CounterVec
	triggers           *prometheus.CounterVec
	inputChanges       prometheus.Counter
	sessionsActive     prometheus.Gauge
	lastPrediction     prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets custom buckets for the invocation latency histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry registers metrics on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "energy",
		subsystem: "forecaster",
		buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.init()
	return m
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.invocations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_invocations_total",
		Help:      "Model invocations by batch kind and status",
	}, []string{"kind", "status"})

	m.invocationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_invocation_duration_seconds",
		Help:      "Duration of model invocations",
		Buckets:   m.buckets,
	}, []string{"kind"})

	m.invocationRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_rows_total",
		Help:      "Feature rows sent to the model",
	}, []string{"kind"})

	m.triggers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predict_triggers_total",
		Help:      "Predict button presses by outcome",
	}, []string{"status"})

	m.inputChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "input_changes_total",
		Help:      "Accepted form control changes",
	})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_active",
		Help:      "Connected form sessions",
	})

	m.lastPrediction = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_prediction_kwh",
		Help:      "Most recent scalar prediction in kWh",
	})
}

// ObserveInvocation records one model call.
func (m *Manager) ObserveInvocation(kind string, rows int, d time.Duration, err error) {
	m.invocations.WithLabelValues(kind, status(err)).Inc()
	m.invocationDuration.WithLabelValues(kind).Observe(d.Seconds())
	m.invocationRows.WithLabelValues(kind).Add(float64(rows))
}

// ObserveTrigger records a predict press and, on success, its scalar value.
func (m *Manager) ObserveTrigger(kwh float64, err error) {
	m.triggers.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.lastPrediction.Set(kwh)
	}
}

// ObserveInputChange records an accepted control change.
func (m *Manager) ObserveInputChange() {
	m.inputChanges.Inc()
}

func (m *Manager) SessionOpened() { m.sessionsActive.Inc() }
func (m *Manager) SessionClosed() { m.sessionsActive.Dec() }

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
