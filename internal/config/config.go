package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InitConfig initializes the configuration using Viper.
// An explicit configPath must exist; otherwise pais.yaml is searched for and may be absent.
func InitConfig(configPath string) error {
	// Load .env file if it exists (fail silently if not found)
	loadEnvFiles()

	if configPath != "" {
		viper.SetConfigFile(ExpandPath(configPath))
	} else {
		viper.SetConfigName("pais")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(GetDefaultConfigDir())
		viper.AddConfigPath(".")
	}

	setDefaults()

	// Enable environment variable overrides
	viper.SetEnvPrefix("PAIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return fmt.Errorf("failed to read config; %w", err)
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("framework", DefaultConfig.Framework)
	viper.SetDefault("paths.plugins", DefaultConfig.Paths.Plugins)
	viper.SetDefault("paths.history", DefaultConfig.Paths.History)
	viper.SetDefault("paths.research", DefaultConfig.Paths.Research)
	viper.SetDefault("hooks.security_enabled", DefaultConfig.Hooks.SecurityEnabled)
	viper.SetDefault("hooks.research_enabled", DefaultConfig.Hooks.ResearchEnabled)
	viper.SetDefault("hooks.history_enabled", DefaultConfig.Hooks.HistoryEnabled)
	viper.SetDefault("hooks.ui_enabled", DefaultConfig.Hooks.UIEnabled)
	viper.SetDefault("hooks.plugins_enabled", DefaultConfig.Hooks.PluginsEnabled)
	viper.SetDefault("plugins.python_runner", DefaultConfig.Plugins.PythonRunner)
	viper.SetDefault("plugins.python_interpreter", DefaultConfig.Plugins.PythonInterpreter)
	viper.SetDefault("plugins.enforce_timeout", DefaultConfig.Plugins.EnforceTimeout)
	viper.SetDefault("observability.enabled", DefaultConfig.Observability.Enabled)
	viper.SetDefault("observability.sinks", DefaultConfig.Observability.Sinks)
	viper.SetDefault("observability.http_endpoint", DefaultConfig.Observability.HTTPEndpoint)
	viper.SetDefault("observability.http_timeout_seconds", DefaultConfig.Observability.HTTPTimeoutSeconds)
	viper.SetDefault("observability.include_payload", DefaultConfig.Observability.IncludePayload)
	viper.SetDefault("logging.level", DefaultConfig.Logging.Level)
	viper.SetDefault("logging.format", DefaultConfig.Logging.Format)
	viper.SetDefault("logging.log_file", DefaultConfig.Logging.LogFile)
}

// GetConfig returns the current configuration with all paths expanded
func GetConfig() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config; %w", err)
	}

	cfg.Paths.Plugins = ExpandPath(cfg.Paths.Plugins)
	cfg.Paths.History = ExpandPath(cfg.Paths.History)
	cfg.Paths.Research = ExpandPath(cfg.Paths.Research)
	if cfg.Logging.LogFile != "" {
		cfg.Logging.LogFile = ExpandPath(cfg.Logging.LogFile)
	}

	return &cfg, nil
}

// loadEnvFiles loads environment variables from .env files
// It tries multiple locations and fails silently if files don't exist
func loadEnvFiles() {
	locations := []string{
		".env",
		filepath.Join(GetDefaultConfigDir(), ".env"),
	}

	// .env.local overrides .env
	localLocations := []string{
		".env.local",
		filepath.Join(GetDefaultConfigDir(), ".env.local"),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			_ = godotenv.Load(location)
		}
	}

	for _, location := range localLocations {
		if _, err := os.Stat(location); err == nil {
			_ = godotenv.Overload(location)
		}
	}
}
