package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "alchemist_formulas"

// Label values for run results
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultSkipped   = "skipped"
	ResultError     = "error"
)

// Recorder is what the formula service reports to
type Recorder interface {
	ObserveRun(result string, duration time.Duration)
	AddGranted(n int)
	AddRemoved(n int)
	ObserveDecision(kind string, accepted bool)
}

// Metrics holds the prometheus collectors
type Metrics struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	granted   prometheus.Counter
	removed   prometheus.Counter
	decisions *prometheus.CounterVec
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "Formula reconciliation runs by result",
		}, []string{"result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconciliation_duration_seconds",
			Help:      "Wall time of a reconciliation run including prompts",
			Buckets:   []float64{0.01, 0.05, 0.25, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"result"}),
		granted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "formulas_granted_total",
			Help:      "Formulas added to actors",
		}),
		removed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "formulas_removed_total",
			Help:      "Lower tier formulas removed from actors",
		}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompt_decisions_total",
			Help:      "Confirmation prompt answers by prompt kind",
		}, []string{"kind", "answer"}),
	}
}

func (m *Metrics) ObserveRun(result string, duration time.Duration) {
	m.runs.WithLabelValues(result).Inc()
	m.duration.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *Metrics) AddGranted(n int) {
	m.granted.Add(float64(n))
}

func (m *Metrics) AddRemoved(n int) {
	m.removed.Add(float64(n))
}

func (m *Metrics) ObserveDecision(kind string, accepted bool) {
	answer := "declined"
	if accepted {
		answer = "accepted"
	}
	m.decisions.WithLabelValues(kind, answer).Inc()
}

// Nop discards everything
type Nop struct{}

func (Nop) ObserveRun(string, time.Duration) {}
func (Nop) AddGranted(int)                   {}
func (Nop) AddRemoved(int)                   {}
func (Nop) ObserveDecision(string, bool)     {}
