// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireheaven/hireheaven/pkg/errutil"
)

func TestConfigDir(t *testing.T) {
	tests := []struct {
		name       string
		configHome string
		home       string
		want       string
	}{
		{"env var", "/custom/config", "/home/testuser", "/custom/config/hireheaven"},
		{"home fallback", "", "/home/testuser", "/home/testuser/.config/hireheaven"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.configHome)
			t.Setenv("HOME", tt.home)

			got, err := ConfigDir()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	got, err := ConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "/custom/config/hireheaven/config.yaml", got)
}

func TestFindConfigFile(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	got, err := FindConfigFile()
	require.NoError(t, err)
	assert.Empty(t, got, "missing file is not an error")

	path := filepath.Join(base, "hireheaven", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	got, err = FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindConfigFile_Directory(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "hireheaven", "config.yaml"), 0o700))

	_, err := FindConfigFile()
	errutil.AssertErrorCode(t, err, "XDG_NOT_A_FILE")
}
