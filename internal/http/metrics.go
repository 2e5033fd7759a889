package httpx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcome labels for loginAttempts.
const (
	outcomeSuccess          = "success"
	outcomeNoTicket         = "no_ticket"
	outcomeValidationFailed = "validation_failed"
	outcomeSealFailed       = "seal_failed"
	outcomeRateLimited      = "rate_limited"
)

var loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cas_login_attempts_total",
	Help: "CAS callback outcomes by terminal state.",
}, []string{"outcome"})
