// Package metrics records per-run Prometheus metrics for a provisioning run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

const namespace = "msm"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the collectors for one run. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	registry          *prometheus.Registry
	toolInvocations   *prometheus.CounterVec
	milestoneDuration *prometheus.HistogramVec
	runs              *prometheus.CounterVec
}

// New creates a registry with every collector registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_invocations_total",
				Help:      "External tool invocations by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		milestoneDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "milestone_duration_seconds",
				Help:      "Time spent producing each milestone, excluding time waiting on prerequisites",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"milestone"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Provisioning runs by outcome",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(m.toolInvocations, m.milestoneDuration, m.runs)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveTool counts one external tool invocation.
func (m *Metrics) ObserveTool(tool string, err error) {
	if m == nil {
		return
	}
	m.toolInvocations.WithLabelValues(tool, outcome(err)).Inc()
}

// ObserveMilestone records how long a milestone's work took.
func (m *Metrics) ObserveMilestone(milestone string, d time.Duration) {
	if m == nil {
		return
	}
	m.milestoneDuration.WithLabelValues(milestone).Observe(d.Seconds())
}

// ObserveRun counts a finished run.
func (m *Metrics) ObserveRun(err error) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome(err)).Inc()
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf(messages.MetricsWriteTextfileFmt, path, err)
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
