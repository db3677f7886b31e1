// Package plugin discovers installed plugins and runs their hook scripts.
//
// Protocol: the script receives the JSON payload on stdin plus PAIS_EVENT and PAIS_PLUGIN
// in its environment. Exit 0 allows, exit 2 blocks with stderr as the reason, and any other
// exit status is a non-blocking error. Stdout is echoed to the host unchanged.
package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/leefowlercu/pais-hooks/internal/dispatch"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

const (
	envEvent  = "PAIS_EVENT"
	envPlugin = "PAIS_PLUGIN"

	exitBlock = 2

	// waitDelay bounds how long Wait blocks on pipes held open by orphaned grandchildren
	waitDelay = 2 * time.Second
)

// Options control script execution
type Options struct {
	PythonRunner      string
	PythonInterpreter string
	EnforceTimeout    bool
}

// Result is the outcome of one hook script
type Result struct {
	Plugin   string
	Script   string
	ExitCode int
	Stdout   string
	Stderr   string
	Skipped  bool
	TimedOut bool
	Err      error
}

// Verdict maps the script outcome onto the dispatch verdict
func (r Result) Verdict() types.Verdict {
	switch {
	case r.Skipped:
		return types.Allow()
	case r.TimedOut:
		return types.Errorf("plugin '%s' (%s) timed out", r.Plugin, r.Script)
	case r.Err != nil:
		return types.Errorf("plugin '%s' (%s) failed; %v", r.Plugin, r.Script, r.Err)
	}

	switch r.ExitCode {
	case 0:
		return types.Allow()
	case exitBlock:
		if msg := strings.TrimSpace(r.Stderr); msg != "" {
			return types.Block(msg)
		}
		return types.Block(fmt.Sprintf("Blocked by plugin '%s' (%s)", r.Plugin, r.Script))
	default:
		return types.Errorf("plugin '%s' (%s) exited with code %d: %s", r.Plugin, r.Script, r.ExitCode, strings.TrimSpace(r.Stderr))
	}
}

// Executor runs plugin hook scripts sequentially
type Executor struct {
	dir         string
	opts        Options
	interpreter Interpreter
	stdout      io.Writer
	logger      *slog.Logger
}

// Force compile-time check for interface implementation
var _ dispatch.PluginRunner = (*Executor)(nil)

// NewExecutor creates an executor for the plugins installed under dir.
// Script stdout is echoed to stdout.
func NewExecutor(dir string, opts Options, stdout io.Writer, logger *slog.Logger) *Executor {
	return &Executor{
		dir:         dir,
		opts:        opts,
		interpreter: NewInterpreter(opts.PythonRunner, opts.PythonInterpreter),
		stdout:      stdout,
		logger:      logger,
	}
}

// Run discovers plugins and runs every script declared for the event.
// The first Block stops execution; errors are logged and execution continues.
func (e *Executor) Run(ctx context.Context, input types.HookInput) types.Verdict {
	plugins, err := Discover(e.dir, e.logger)
	if err != nil {
		e.logger.Error("failed to discover plugins", "error", err)
		return types.Errorf("failed to discover plugins; %v", err)
	}

	for _, p := range plugins {
		for _, script := range p.Manifest.ScriptsFor(input.Event) {
			result := e.Execute(ctx, p, script, input)
			verdict := result.Verdict()

			switch verdict.Kind {
			case types.VerdictBlock:
				e.logger.Info("plugin blocked", "plugin", result.Plugin, "script", result.Script)
				return verdict
			case types.VerdictError:
				e.logger.Error("plugin hook error", "plugin", result.Plugin, "script", result.Script, "message", verdict.Message)
			default:
				e.logger.Debug("plugin hook completed", "plugin", result.Plugin, "script", result.Script, "skipped", result.Skipped)
			}
		}
	}

	return types.Allow()
}

// Execute runs one hook script of a plugin
func (e *Executor) Execute(ctx context.Context, p Plugin, script HookScript, input types.HookInput) Result {
	result := Result{
		Plugin: p.Name(),
		Script: script.Script,
	}

	if script.Matcher != "" && script.Matcher != input.ToolName() {
		result.Skipped = true
		return result
	}

	// Absolute, since the script runs with the plugin root as its working directory
	scriptPath, err := filepath.Abs(filepath.Join(p.Root, script.Script))
	if err != nil {
		result.Err = fmt.Errorf("failed to resolve script path; %w", err)
		return result
	}
	if _, err := os.Stat(scriptPath); err != nil {
		result.Err = fmt.Errorf("script not found: %s", scriptPath)
		return result
	}

	payload := input.RawData
	if payload == nil {
		payload = map[string]any{}
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		result.Err = fmt.Errorf("failed to marshal payload; %w", err)
		return result
	}

	if e.opts.EnforceTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, script.TimeoutDuration())
		defer cancel()
	}

	program, args := e.interpreter.Command(p.Manifest.Plugin.Language, scriptPath)

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = p.Root
	cmd.Env = append(os.Environ(),
		envEvent+"="+input.Event.String(),
		envPlugin+"="+p.Name(),
	)
	cmd.Stdin = bytes.NewReader(payloadJSON)
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("executing plugin hook",
		"plugin", result.Plugin,
		"script", script.Script,
		"program", program,
		"args", args)

	runErr := cmd.Run()

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if result.Stdout != "" && e.stdout != nil {
		if _, err := io.WriteString(e.stdout, result.Stdout); err != nil {
			e.logger.Warn("failed to echo plugin output", "plugin", result.Plugin, "error", err)
		}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		return result
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result
		}
		result.Err = fmt.Errorf("failed to run script; %w", runErr)
		return result
	}

	result.ExitCode = 0
	return result
}
