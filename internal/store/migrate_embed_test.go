// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package store

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EveryUpHasDown(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	names := make(map[string]bool, len(entries))
	for _, entry := range entries {
		assert.Regexp(t, pattern, entry.Name())
		names[entry.Name()] = true
	}

	for name := range names {
		if stem, ok := strings.CutSuffix(name, ".up.sql"); ok {
			assert.True(t, names[stem+".down.sql"], "missing down migration for %s", stem)
		}
	}
}

func TestMigrationsFS_SkillUpsertNeedsUniqueName(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/000002_skills.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "name TEXT NOT NULL UNIQUE")
	assert.Contains(t, string(data), "PRIMARY KEY (account_id, skill_id)")
}

func TestMigrationsFS_CompanyNamesAreUnique(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/000003_companies.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE UNIQUE INDEX IF NOT EXISTS companies_name_key ON companies (name)")
	assert.Contains(t, string(data), "REFERENCES accounts (id)")
}
