package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csuite/internal/module"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(contents), 0o644))
	return dir
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `
device:
  adbPath: /opt/adb
  serial: emulator-5556
launch:
  logTag: AppCompatibility
  failOnHarnessFailures: true
  timeout: 90s
module:
  prefix: smoke
runs:
  keep: 5
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/opt/adb", cfg.Device.ADBPath)
	assert.Equal(t, "emulator-5556", cfg.Device.Serial)
	assert.Equal(t, "AppCompatibility", cfg.Launch.LogTag)
	assert.True(t, cfg.Launch.FailOnHarnessFailures)
	assert.Equal(t, 90*time.Second, cfg.Launch.Timeout)
	assert.Equal(t, "App launched", cfg.Launch.LogMarker)
	assert.True(t, cfg.Runs.Persist)
	assert.Equal(t, 5, cfg.Runs.Keep)

	assert.Equal(t, "smoke", cfg.Module.Prefix)
	assert.Equal(t, module.DefaultPlan, cfg.Module.Plan)
	assert.Equal(t, module.DefaultPreparers(), cfg.Module.Preparers)
}

func TestLoadConfig_CustomPreparers(t *testing.T) {
	dir := writeConfig(t, `
module:
  preparers:
    - class: com.example.Setup
      options:
        - name: flag
          value: "on"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []module.Preparer{{
		Class:   "com.example.Setup",
		Options: []module.Option{{Name: "flag", Value: "on"}},
	}}, cfg.Module.Preparers)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	dir := writeConfig(t, "device:\n  serial: [unterminated\n")

	_, err := LoadConfig(dir)

	var cfgErr ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "parse", cfgErr.ErrorType)
	assert.Equal(t, configFileName, cfgErr.FileName)
	assert.Positive(t, cfgErr.LineNumber)
	assert.Contains(t, cfgErr.DetailedError(), "Line:")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := writeConfig(t, `
launch:
  harnessCommand: [run, launch, --serial]
logging:
  level: loud
`)

	_, err := LoadConfig(dir)

	var cfgErr ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "validation", cfgErr.ErrorType)
	assert.Equal(t, []string{"launch.harnessCommand", "logging.level"}, cfgErr.Suggestions)
}

func TestRunsDir(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, filepath.Join("/cfg", "runs"), cfg.RunsDir("/cfg"))

	cfg.Runs.Dir = "/var/csuite/runs"
	assert.Equal(t, "/var/csuite/runs", cfg.RunsDir("/cfg"))
}
