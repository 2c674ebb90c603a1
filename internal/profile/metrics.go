// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package profile

import "github.com/prometheus/client_golang/prometheus"

// Skill change labels.
const (
	ChangeAdded     = "added"
	ChangeUnchanged = "unchanged"
	ChangeRemoved   = "removed"
)

// SkillChanges counts skill association writes by effect.
var SkillChanges = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hireheaven_skill_changes_total",
		Help: "Total number of skill association changes by effect",
	},
	[]string{"change"},
)

// RegisterMetrics registers profile metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(SkillChanges)
}
