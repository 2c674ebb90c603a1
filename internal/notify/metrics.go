// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package notify

import "github.com/prometheus/client_golang/prometheus"

// Notification outcomes.
const (
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
	OutcomeDropped   = "dropped"
)

// Notifications counts detached mail publishes by outcome.
var Notifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hireheaven_notifications_total",
		Help: "Total number of outbound mail publishes by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers notify metrics with the given Prometheus registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Notifications)
}

func recordNotification(outcome string) {
	Notifications.WithLabelValues(outcome).Inc()
}
