package config

// Config represents the application configuration
type Config struct {
	Framework     string              `mapstructure:"framework" yaml:"framework"`
	Paths         PathsConfig         `mapstructure:"paths" yaml:"paths"`
	Hooks         HooksConfig         `mapstructure:"hooks" yaml:"hooks"`
	Plugins       PluginsConfig       `mapstructure:"plugins" yaml:"plugins"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging" yaml:"logging"`
}

// PathsConfig contains the on-disk locations used by the hook handlers
type PathsConfig struct {
	Plugins  string `mapstructure:"plugins" yaml:"plugins"`
	History  string `mapstructure:"history" yaml:"history"`
	Research string `mapstructure:"research" yaml:"research"`
}

// HooksConfig toggles the built-in handlers and plugin execution
type HooksConfig struct {
	SecurityEnabled bool `mapstructure:"security_enabled" yaml:"security_enabled"`
	ResearchEnabled bool `mapstructure:"research_enabled" yaml:"research_enabled"`
	HistoryEnabled  bool `mapstructure:"history_enabled" yaml:"history_enabled"`
	UIEnabled       bool `mapstructure:"ui_enabled" yaml:"ui_enabled"`
	PluginsEnabled  bool `mapstructure:"plugins_enabled" yaml:"plugins_enabled"`
}

// PluginsConfig controls how plugin hook scripts are launched
type PluginsConfig struct {
	PythonRunner      string `mapstructure:"python_runner" yaml:"python_runner"`
	PythonInterpreter string `mapstructure:"python_interpreter" yaml:"python_interpreter"`
	EnforceTimeout    bool   `mapstructure:"enforce_timeout" yaml:"enforce_timeout"`
}

// ObservabilityConfig contains configuration for the event emitter
type ObservabilityConfig struct {
	Enabled            bool     `mapstructure:"enabled" yaml:"enabled"`
	Sinks              []string `mapstructure:"sinks" yaml:"sinks"`
	HTTPEndpoint       string   `mapstructure:"http_endpoint" yaml:"http_endpoint"`
	HTTPTimeoutSeconds int      `mapstructure:"http_timeout_seconds" yaml:"http_timeout_seconds"`
	IncludePayload     bool     `mapstructure:"include_payload" yaml:"include_payload"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Format  string `mapstructure:"format" yaml:"format"`
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}
