package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		activationsTotal,
		policyNumberCollisionsTotal,
		operationLatency,
	)
}

var (
	activationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "policy_activations_total",
			Help: "Slot activations by outcome (success, already_used, conflict, forbidden, not_found, invalid_state, error).",
		},
		[]string{"outcome"},
	)

	policyNumberCollisionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "policy_number_collisions_total",
			Help: "Generated policy numbers rejected by the unique constraint and regenerated.",
		},
	)

	operationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_operation_duration_seconds",
			Help:    "Latency of purchase and activation transactions.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation", "outcome"},
	)
)

func IncActivation(outcome string) {
	activationsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncPolicyNumberCollision() {
	policyNumberCollisionsTotal.Inc()
}

func ObserveOperation(operation, outcome string, d time.Duration) {
	operationLatency.WithLabelValues(norm(operation), norm(outcome)).Observe(d.Seconds())
}
