package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 72, cfg.DateToleranceHours)
	assert.Equal(t, 0.7, cfg.ConfidenceThreshold)
	assert.Equal(t, "Balance Correction", cfg.DefaultPairCategory)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().DateToleranceHours, cfg.DateToleranceHours)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.conf")
	contents := `[general]
user_name = Jane Doe
date_tolerance_hours = 48

[transfer_detection]
confidence_threshold = 0.8

[transfer_categorization]
default_pair_category = Internal Transfer
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", cfg.UserName)
	assert.Equal(t, 48, cfg.DateToleranceHours)
	assert.Equal(t, 0.8, cfg.ConfidenceThreshold)
	assert.Equal(t, "Internal Transfer", cfg.DefaultPairCategory)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.conf")
	require.NoError(t, os.WriteFile(path, []byte("[general]\nuser_name = Jane Doe\n"), 0o644))

	t.Setenv("LEDGER_USER_NAME", "Env Name")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Env Name", cfg.UserName)
}
