// Package metrics defines the custom Prometheus metrics of the accounts API.
// It is the single source of truth for metric names, labels and help strings.
//
// Collectors are created unregistered; MustRegister adds them to the
// registry the router exposes. HTTP request metrics come from the
// echoprometheus middleware instead.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "accounts"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "invalid" or "error"
var RegistrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "bad_request" or "error"
var LoginsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts access-token refresh attempts.
// Label:
//   - result: "success", "missing", "invalid" or "error"
var TokenRefreshesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of token refresh attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout requests.
var LogoutsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout requests.",
	},
)

// PasswordHashDuration observes how long password hashing takes.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hash and verify operations.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"op"},
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		RegistrationsTotal,
		LoginsTotal,
		TokenRefreshesTotal,
		LogoutsTotal,
		PasswordHashDuration,
	}
}

// MustRegister adds the custom metrics to reg. Registering twice with the
// same registry is a no-op; any other registration error panics.
func MustRegister(reg prometheus.Registerer) {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			panic(err)
		}
	}
}
