// Package metrics defines the custom Prometheus metrics for the rental
// platform's session core. It is the single source of truth for metric
// names, labels, and help strings; metrics register themselves with the
// default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rental"

// LoginAttemptsTotal counts credential verifications by outcome.
// Label:
//   - result: "user", "admin", "rejected", or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of credential verifications, by outcome.",
	},
	[]string{"result"},
)

// MutationsTotal counts identity mutations by field group and outcome.
// Labels:
//   - field: the mutated field group (e.g. "email", "card", "library")
//   - result: "ok", "error" (remote failure), or "rejected" (no user session)
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_mutations_total",
		Help:      "Total number of identity mutations, by field group and outcome.",
	},
	[]string{"field", "result"},
)

// GuardDecisionsTotal counts route access decisions.
// Labels:
//   - category: the route category that produced the decision, or "unmatched"
//   - decision: "allow" or "deny"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route access decisions, by category and decision.",
	},
	[]string{"category", "decision"},
)

// SessionHydrationsTotal counts container hydrations by source.
// Label:
//   - source: "vault" (stored identity found) or "cold" (empty slot)
var SessionHydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_hydrations_total",
		Help:      "Total number of session hydrations, by source.",
	},
	[]string{"source"},
)
