// Package metrics defines the Prometheus metrics of the login screen and the
// role-directory server. All metrics are registered with the default registry
// at init time.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "secureguard"

// Sign-in methods used as the "method" label.
const (
	MethodPassword  = "password"
	MethodFederated = "federated"
)

// LoginAttemptsTotal counts submit presses that reached the controller.
// Label:
//   - method: "password" or "federated"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts started, by sign-in method.",
	},
	[]string{"method"},
)

// LoginOutcomesTotal counts how login attempts ended.
// Labels:
//   - method: "password" or "federated"
//   - outcome: "parent", "child", "verification", "invalid_input", "offline",
//     "auth_error", "lookup_error", "busy", "disabled"
var LoginOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_outcomes_total",
		Help:      "Total number of finished login attempts, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// RoleLookupDuration measures role-directory lookups.
// Label:
//   - result: "hit", "miss" or "error"
var RoleLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "role_lookup_duration_seconds",
		Help:      "Duration of role-directory lookups.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// RPCRequestsTotal counts role-directory RPCs handled by the server.
// Labels:
//   - method: full gRPC method name
//   - code: gRPC status code, e.g. "OK", "Unauthenticated"
var RPCRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Total number of role-directory RPCs, by method and status code.",
	},
	[]string{"method", "code"},
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
