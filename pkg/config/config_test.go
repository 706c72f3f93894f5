package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 50, cfg.Analysis.MaxFunctionLines)
	assert.True(t, cfg.Analysis.EnableDynamic)
	assert.Equal(t, 5.0, cfg.Sandbox.TimeoutSeconds)
	assert.Equal(t, 500, cfg.Sandbox.MaxTraceEvents)
	assert.Equal(t, "python3", cfg.Sandbox.Python)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumina.toml")
	content := `
[analysis]
max_function_lines = 25

[sandbox]
timeout_seconds = 2.5
python = "python3.12"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Analysis.MaxFunctionLines)
	assert.Equal(t, 2.5, cfg.Sandbox.TimeoutSeconds)
	assert.Equal(t, "python3.12", cfg.Sandbox.Python)
	// Untouched keys keep their defaults.
	assert.Equal(t, 500, cfg.Sandbox.MaxTraceEvents)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumina.yaml")
	content := `
analysis:
  risk_thresholds:
    low: 3
    medium: 8
    high: 15
output:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Analysis.RiskThresholds.Low)
	assert.Equal(t, 15, cfg.Analysis.RiskThresholds.High)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestFingerprintChangesWithThresholds(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Analysis.MaxFunctionLines = 10
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
