package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points PAIS_DIR and the working directory at fresh temp dirs
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("PAIS_DIR", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestInitConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, InitConfig(""))
	cfg, err := GetConfig()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.Framework)
	assert.True(t, cfg.Hooks.SecurityEnabled)
	assert.True(t, cfg.Hooks.ResearchEnabled)
	assert.True(t, cfg.Hooks.HistoryEnabled)
	assert.True(t, cfg.Hooks.UIEnabled)
	assert.True(t, cfg.Hooks.PluginsEnabled)
	assert.True(t, cfg.Plugins.EnforceTimeout)
	assert.Equal(t, []string{"file"}, cfg.Observability.Sinks)
	assert.Equal(t, filepath.Join(home, ".config/pais/research"), cfg.Paths.Research)
	assert.Equal(t, filepath.Join(dir, "pais.yaml"), GetDefaultConfigPath())
}

func TestInitConfig_FileAndEnvOverrides(t *testing.T) {
	dir := isolate(t)

	content := []byte(`
hooks:
  ui_enabled: false
observability:
  sinks: [stdout, http]
  http_endpoint: http://localhost:4000/events
paths:
  history: $PAIS_DIR/history
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pais.yaml"), content, 0644))
	t.Setenv("PAIS_LOGGING_LEVEL", "debug")

	require.NoError(t, InitConfig(""))
	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.False(t, cfg.Hooks.UIEnabled)
	assert.True(t, cfg.Hooks.SecurityEnabled)
	assert.Equal(t, []string{"stdout", "http"}, cfg.Observability.Sinks)
	assert.Equal(t, "http://localhost:4000/events", cfg.Observability.HTTPEndpoint)
	assert.Equal(t, filepath.Join(dir, "history"), cfg.Paths.History)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestInitConfig_ExplicitPathMissing(t *testing.T) {
	dir := isolate(t)

	err := InitConfig(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadEnvFiles(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(".env", []byte("PAIS_TEST_VALUE=base\n"), 0644))
	require.NoError(t, os.WriteFile(".env.local", []byte("PAIS_TEST_VALUE=local\n"), 0644))
	t.Setenv("PAIS_TEST_VALUE", "")
	os.Unsetenv("PAIS_TEST_VALUE")

	loadEnvFiles()

	assert.Equal(t, "local", os.Getenv("PAIS_TEST_VALUE"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PAIS_TEST_ROOT", "/custom/path")

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "absolute", input: "/usr/local/bin", expect: "/usr/local/bin"},
		{name: "tilde", input: "~/test", expect: filepath.Join(home, "test")},
		{name: "bare tilde", input: "~", expect: home},
		{name: "env var", input: "$PAIS_TEST_ROOT/subdir", expect: "/custom/path/subdir"},
		{name: "tilde user untouched", input: "~other/x", expect: "~other/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ExpandPath(tt.input))
		})
	}
}
