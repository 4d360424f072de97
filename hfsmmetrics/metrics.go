// Package hfsmmetrics adapts hfsm.Logger to Prometheus, mirroring the
// langgraph-go idiom of a small struct of pre-registered collectors
// incremented from hot paths — applied here to tick-loop observability
// instead of LLM-call observability. The core hfsm package never imports
// this package: it is an optional collaborator wired in at Machine
// construction via hfsm.WithLogger.
package hfsmmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sceneforge/hfsm"
)

// Metrics is an hfsm.Logger that records engine activity as Prometheus
// counters, namespaced "hfsm". All methods are safe to call from a
// single-threaded tick loop; no internal locking is needed beyond what the
// prometheus client types already provide.
type Metrics struct {
	transitions        *prometheus.CounterVec
	substitutionPasses prometheus.Counter
	planAdvances       *prometheus.CounterVec
	guardCancellations prometheus.Counter
	methodCalls        *prometheus.CounterVec
}

var _ hfsm.Logger = (*Metrics)(nil)

// New creates and registers the hfsm metric collectors with registry. Pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() for test isolation.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hfsm",
			Name:      "transitions_total",
			Help:      "Transition requests enqueued via FullControl, by request kind",
		}, []string{"kind"}),
		// Logger has no dedicated "pass completed" hook, so this is
		// approximated as one increment per enqueued transition request —
		// the nearest observable proxy for substitution-loop activity.
		substitutionPasses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hfsm",
			Name:      "substitution_passes_total",
			Help:      "Transition requests enqueued, approximating substitution-loop activity",
		}),
		planAdvances: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hfsm",
			Name:      "plan_advances_total",
			Help:      "Plan task advancements, by outcome",
		}, []string{"event"}),
		guardCancellations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hfsm",
			Name:      "guard_cancellations_total",
			Help:      "Entry/exit guard calls to CancelPendingTransitions",
		}),
		methodCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hfsm",
			Name:      "method_calls_total",
			Help:      "Lifecycle callback invocations, by method",
		}, []string{"method"}),
	}
}

func (m *Metrics) RecordMethod(_ hfsm.StateID, method hfsm.Method) {
	m.methodCalls.WithLabelValues(method.String()).Inc()
}

func (m *Metrics) RecordTransition(_ hfsm.StateID, kind hfsm.Kind, _ hfsm.StateID) {
	m.transitions.WithLabelValues(kind.String()).Inc()
	m.substitutionPasses.Inc()
}

func (m *Metrics) RecordTaskStatus(_ hfsm.RegionID, _ hfsm.StateID, _ hfsm.StatusEvent) {}

func (m *Metrics) RecordPlanStatus(_ hfsm.RegionID, event hfsm.StatusEvent) {
	m.planAdvances.WithLabelValues(event.String()).Inc()
}

func (m *Metrics) RecordCancelledPending(_ hfsm.StateID) {
	m.guardCancellations.Inc()
}

func (m *Metrics) RecordUtilityResolution(hfsm.StateID, hfsm.Prong, float32) {}

func (m *Metrics) RecordRandomResolution(hfsm.StateID, hfsm.Prong, float64) {}
