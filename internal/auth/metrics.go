// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation names used as metric labels.
const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpForgotPassword = "forgot_password"
	OpResetPassword  = "reset_password"
)

// OutcomeSuccess labels a successful operation. Failures are labelled with their Kind.
const OutcomeSuccess = "success"

// Operations counts credential operations by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Operations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hireheaven_auth_operations_total",
		Help: "Total number of credential operations by outcome",
	},
	[]string{"operation", "outcome"},
)

// OperationDuration observes credential operation latency.
var OperationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "hireheaven_auth_operation_duration_seconds",
		Help:    "Credential operation duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// RegisterMetrics registers auth metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Operations)
	reg.MustRegister(OperationDuration)
}

func recordOperation(operation string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = string(KindOf(err))
	}
	Operations.WithLabelValues(operation, outcome).Inc()
	OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
