package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leefowlercu/pais-hooks/internal/config"
	"github.com/leefowlercu/pais-hooks/internal/dispatch"
	"github.com/leefowlercu/pais-hooks/internal/framework"
	"github.com/leefowlercu/pais-hooks/internal/framework/claude"
	"github.com/leefowlercu/pais-hooks/internal/history"
	"github.com/leefowlercu/pais-hooks/internal/journal"
	"github.com/leefowlercu/pais-hooks/internal/observability"
	"github.com/leefowlercu/pais-hooks/internal/observability/sinks"
	"github.com/leefowlercu/pais-hooks/internal/plugin"
	"github.com/leefowlercu/pais-hooks/internal/research"
	"github.com/leefowlercu/pais-hooks/internal/security"
	"github.com/leefowlercu/pais-hooks/internal/ui"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// Subdirectories of the history path
const (
	SecurityDir  = "security"
	ResearchDir  = "research"
	RawEventsDir = "raw-events"
)

// Processor orchestrates the handling of one hook event
type Processor struct {
	cfg        *config.Config
	logger     *slog.Logger
	emitter    *observability.Emitter
	dispatcher *dispatch.Dispatcher
	stderr     io.Writer
}

// NewProcessor creates a processor with the built-in handlers, plugin runner and event sinks
func NewProcessor(cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) *Processor {
	emitter := observability.NewEmitter(observability.Options{
		Enabled:        cfg.Observability.Enabled,
		IncludePayload: cfg.Observability.IncludePayload,
		Timeout:        time.Duration(cfg.Observability.HTTPTimeoutSeconds) * time.Second,
	}, logger)

	registerSinks(emitter, cfg, stdout, logger)

	var plugins dispatch.PluginRunner
	if cfg.Hooks.PluginsEnabled {
		plugins = NewPluginExecutor(cfg, stdout, logger)
	}

	return &Processor{
		cfg:        cfg,
		logger:     logger,
		emitter:    emitter,
		dispatcher: dispatch.NewDispatcher(logger, plugins, BuildHandlers(cfg, stdout, stderr, logger)...),
		stderr:     stderr,
	}
}

// BuildHandlers returns the built-in handlers in dispatch order: security, research, history, ui
func BuildHandlers(cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) []dispatch.Handler {
	return []dispatch.Handler{
		security.NewValidator(
			cfg.Hooks.SecurityEnabled,
			journal.New(filepath.Join(cfg.Paths.History, SecurityDir)),
			stderr,
			logger,
		),
		research.NewValidator(
			cfg.Hooks.ResearchEnabled,
			cfg.Paths.Research,
			journal.New(filepath.Join(cfg.Paths.History, ResearchDir)),
			logger,
		),
		history.NewHandler(
			cfg.Hooks.HistoryEnabled,
			history.NewFileStore(cfg.Paths.History),
			logger,
		),
		ui.NewHandler(cfg.Hooks.UIEnabled, stdout, logger),
	}
}

// NewPluginExecutor creates the plugin runner from configuration
func NewPluginExecutor(cfg *config.Config, stdout io.Writer, logger *slog.Logger) *plugin.Executor {
	return plugin.NewExecutor(cfg.Paths.Plugins, plugin.Options{
		PythonRunner:      cfg.Plugins.PythonRunner,
		PythonInterpreter: cfg.Plugins.PythonInterpreter,
		EnforceTimeout:    cfg.Plugins.EnforceTimeout,
	}, stdout, logger)
}

// registerSinks registers every configured sink with the emitter
func registerSinks(emitter *observability.Emitter, cfg *config.Config, stdout io.Writer, logger *slog.Logger) {
	for _, sinkType := range cfg.Observability.Sinks {
		var sink observability.Sink

		switch sinkType {
		case "file":
			sink = sinks.NewFileSink(journal.New(filepath.Join(cfg.Paths.History, RawEventsDir)))
		case "stdout":
			sink = sinks.NewStdoutSink(stdout)
		case "http":
			timeout := time.Duration(cfg.Observability.HTTPTimeoutSeconds) * time.Second
			sink = sinks.NewHTTPSink(cfg.Observability.HTTPEndpoint, timeout)
		default:
			logger.Warn("unknown sink type", "type", sinkType)
			continue
		}

		if err := emitter.RegisterSink(sink); err != nil {
			logger.Warn("failed to register sink", "type", sinkType, "error", err)
		}
	}
}

// Process loads configuration and handles one hook event.
// It returns the exit code the host expects.
func Process(ctx context.Context, eventName string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return 1, fmt.Errorf("failed to load configuration; %w", err)
	}

	logger := SetupLogger(cfg)

	proc := NewProcessor(cfg, logger, stdout, stderr)
	return proc.ProcessHook(ctx, eventName, stdin)
}

// ProcessHook parses the payload, emits the event, dispatches it and reports the verdict
func (p *Processor) ProcessHook(ctx context.Context, eventName string, stdin io.Reader) (int, error) {
	framework.RegisterFramework(claude.NewFramework())

	fw, err := framework.GetFramework(p.cfg.Framework)
	if err != nil {
		return 1, fmt.Errorf("failed to get framework; %w", err)
	}

	input, err := fw.ParseInput(eventName, stdin)
	if errors.Is(err, framework.ErrUnknownEvent) {
		p.logger.Debug("ignoring unknown event", "event", eventName)
		return types.ExitAllow, nil
	}
	if err != nil {
		p.logger.Error("failed to parse input", "error", err)
		return 1, fmt.Errorf("failed to parse input; %w", err)
	}

	p.logger.Info("processing hook",
		"framework", input.Framework,
		"event", input.Event.String(),
		"tool", input.ToolName())

	p.emitter.Emit(ctx, input)

	verdict := p.dispatcher.Dispatch(ctx, input)

	if err := fw.WriteVerdict(verdict, p.stderr); err != nil {
		p.logger.Error("failed to write verdict", "error", err)
	}

	p.logger.Info("hook processing completed", "verdict", verdict.String())

	return fw.GetExitCode(verdict), nil
}

// SetupLogger creates and configures the logger based on configuration.
// Logs are written to file only so stdout and stderr stay reserved for the host.
func SetupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var output io.Writer

	if cfg.Logging.LogFile != "" {
		logFile, err := openLogFile(cfg.Logging.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.Logging.LogFile, err)
			output = io.Discard
		} else {
			output = logFile
		}
	} else {
		output = io.Discard
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}

// openLogFile opens or creates a log file for appending
func openLogFile(path string) (*os.File, error) {
	path = config.ExpandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory; %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file; %w", err)
	}

	return file, nil
}
