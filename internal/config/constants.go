package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Framework: "claude",
	Paths: PathsConfig{
		Plugins:  "~/.config/pais/plugins",
		History:  "~/.config/pais/history",
		Research: "~/.config/pais/research",
	},
	Hooks: HooksConfig{
		SecurityEnabled: true,
		ResearchEnabled: true,
		HistoryEnabled:  true,
		UIEnabled:       true,
		PluginsEnabled:  true,
	},
	Plugins: PluginsConfig{
		PythonRunner:      "uv",
		PythonInterpreter: "python3",
		EnforceTimeout:    true,
	},
	Observability: ObservabilityConfig{
		Enabled:            true,
		Sinks:              []string{"file"},
		HTTPEndpoint:       "",
		HTTPTimeoutSeconds: 5,
		IncludePayload:     false,
	},
	Logging: LoggingConfig{
		Level:   "info",
		Format:  "json",
		LogFile: "", // Empty = logging disabled; stdout/stderr belong to the host
	},
}

// GetDefaultConfigDir returns the default configuration directory.
// PAIS_DIR takes precedence over ~/.config/pais.
func GetDefaultConfigDir() string {
	if dir := os.Getenv("PAIS_DIR"); dir != "" {
		return ExpandPath(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/pais"
	}
	return filepath.Join(home, ".config", "pais")
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return filepath.Join(GetDefaultConfigDir(), "pais.yaml")
}

// ExpandPath expands a leading ~ and any $VAR references
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}

	return path
}
