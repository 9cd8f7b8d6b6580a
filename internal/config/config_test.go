package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9090"
tick_seconds: 10
probe_timeout_seconds: 4
confirm_threshold: 3
max_extra_monitors: 5
main_target: 1.1.1.1
custom_target: 9.9.9.9
custom_label: Quad9
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 10, cfg.TickSeconds)
	assert.Equal(t, 4, cfg.ProbeTimeoutSeconds)
	assert.Equal(t, 3, cfg.ConfirmThreshold)
	assert.Equal(t, 5, cfg.MaxExtraMonitors)
	assert.Equal(t, "1.1.1.1", cfg.MainTarget)
	assert.Equal(t, "9.9.9.9", cfg.CustomTarget)
	assert.Equal(t, "Quad9", cfg.CustomLabel)
	// Untouched keys keep their defaults.
	assert.Equal(t, "8.8.8.8", DefaultConfig().MainTarget)
	assert.Equal(t, DefaultConfig().DataDirectory, cfg.DataDirectory)
}

func TestLoadRejectsTimeoutAboveTick(t *testing.T) {
	path := writeConfig(t, `
tick_seconds: 2
probe_timeout_seconds: 2
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsEmptyPermanentTargets(t *testing.T) {
	path := writeConfig(t, `main_target: ""`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadNormalisesNonPositiveValues(t *testing.T) {
	path := writeConfig(t, `
tick_seconds: -1
probe_timeout_seconds: -1
confirm_threshold: 0
max_extra_monitors: -2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TickSeconds)
	assert.Equal(t, 2, cfg.ProbeTimeoutSeconds)
	assert.Equal(t, 5, cfg.ConfirmThreshold)
	assert.Equal(t, 0, cfg.MaxExtraMonitors)
}
