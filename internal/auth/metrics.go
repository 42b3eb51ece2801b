package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opLogin  = "login"
	opSignup = "signup"
	opLogout = "logout"

	outcomeSuccess = "success"
	outcomeError   = "error"
)

var outcomes = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "auth_outcomes_total",
		Help: "Number of authentication operations, differentiated by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// record counts err under op. Rejections are labelled by their kind.
func record(op string, err error) {
	outcome := outcomeSuccess

	if err != nil {
		outcome = outcomeError
		if rej, ok := AsRejection(err); ok {
			outcome = rej.Kind.String()
		}
	}

	outcomes.WithLabelValues(op, outcome).Inc()
}
