// Package metrics exposes session activity as Prometheus collectors.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/mathadventures/internal/difficulty"
)

const namespace = "mathadv"

// Metrics owns a private registry so several sessions (or tests) in one
// process never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	turns          *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	responseTime   *prometheus.HistogramVec
	pscore         prometheus.Gauge
	level          prometheus.Gauge
	storyFallbacks prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: difficulty, result (correct, incorrect)
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "turns_total",
			Help:      "Answered puzzles by difficulty and result",
		}, []string{"difficulty", "result"}),

		// Labels: from, to
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "transitions_total",
			Help:      "Difficulty transitions",
		}, []string{"from", "to"}),

		responseTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "response_time_seconds",
			Help:      "Learner response time in seconds",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 30},
		}, []string{"difficulty"}),

		pscore: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "pscore",
			Help:      "P-Score after the most recent turn",
		}),

		level: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "difficulty_level",
			Help:      "Current difficulty index (0 easy, 1 medium, 2 hard)",
		}),

		storyFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "puzzle",
			Name:      "story_fallbacks_total",
			Help:      "Story rewordings that fell back to the plain puzzle",
		}),
	}
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTurn records one answered puzzle and the state it left behind.
func (m *Metrics) ObserveTurn(level difficulty.Level, correct bool, responseSeconds, scoreAfter float64, levelAfter difficulty.Level) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.turns.WithLabelValues(level.String(), result).Inc()
	m.responseTime.WithLabelValues(level.String()).Observe(responseSeconds)
	m.pscore.Set(scoreAfter)
	m.level.Set(float64(levelAfter))
}

// ObserveTransition records a level change.
func (m *Metrics) ObserveTransition(from, to difficulty.Level) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// AddStoryFallbacks adds n story fallbacks.
func (m *Metrics) AddStoryFallbacks(n int) {
	m.storyFallbacks.Add(float64(n))
}

// WriteFile writes all metrics in the text exposition format, suitable for
// the node_exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
