// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package company

import "github.com/prometheus/client_golang/prometheus"

// OutcomeCreated labels a stored company. Rejections use their failure kind.
const OutcomeCreated = "created"

// Creations counts company registrations by outcome.
var Creations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hireheaven_company_creations_total",
		Help: "Total number of company registrations by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers company metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Creations)
}
