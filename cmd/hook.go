package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/leefowlercu/pais-hooks/internal/config"
	"github.com/leefowlercu/pais-hooks/internal/plugin"
	"github.com/leefowlercu/pais-hooks/internal/processor"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Dispatch and inspect lifecycle hooks",
}

var hookDispatchCmd = &cobra.Command{
	Use:   "dispatch [event]",
	Short: "Handle one hook event from the host agent",
	Long: heredoc.Doc(`
		Reads the hook payload as JSON from stdin (or --payload) and runs every
		handler and plugin registered for the event.

		The event name may be given as an argument or taken from the payload's
		hook_event_name field. Names are matched case-insensitively and hyphens or
		underscores are ignored. Unknown events exit 0 without doing anything.
	`),
	Example: heredoc.Doc(`
		# Host configuration entry
		pais hook dispatch PreToolUse

		# Try a command against the security tiers
		pais hook dispatch pre-tool-use --payload '{"tool_name":"Bash","tool_input":{"command":"rm -rf /"}}'
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: runHookDispatch,
}

var hookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in handlers and plugin hook scripts",
	Args:  cobra.NoArgs,
	RunE:  runHookList,
}

func init() {
	hookDispatchCmd.Flags().String("payload", "", "Hook payload JSON (default: read from stdin)")

	hookListCmd.Flags().String("event", "", "Only show hooks registered for this event")
	hookListCmd.Flags().String("format", "", "Output format (text, json, yaml)")

	hookCmd.AddCommand(hookDispatchCmd)
	hookCmd.AddCommand(hookListCmd)
}

func runHookDispatch(cmd *cobra.Command, args []string) error {
	var eventName string
	if len(args) > 0 {
		eventName = args[0]
	}

	var stdin io.Reader
	payload, _ := cmd.Flags().GetString("payload")
	switch {
	case payload != "":
		stdin = strings.NewReader(payload)
	case isTerminal(cmd.InOrStdin()):
		// Nothing was piped in
		stdin = strings.NewReader("")
	default:
		stdin = cmd.InOrStdin()
	}

	code, err := processor.Process(cmd.Context(), eventName, stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if code != types.ExitAllow {
		return exitCodeError{code: code}
	}

	return nil
}

// hookEntry is one row of `hook list`
type hookEntry struct {
	Source  string   `json:"source" yaml:"source"`
	Name    string   `json:"name" yaml:"name"`
	Events  []string `json:"events" yaml:"events"`
	Matcher string   `json:"matcher,omitempty" yaml:"matcher,omitempty"`
	Timeout string   `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Enabled bool     `json:"enabled" yaml:"enabled"`
}

func runHookList(cmd *cobra.Command, args []string) error {
	eventFlag, _ := cmd.Flags().GetString("event")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := resolveFormat(formatFlag, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var filter types.EventKind
	if eventFlag != "" {
		kind, ok := types.ParseEventKind(eventFlag)
		if !ok {
			return fmt.Errorf("unknown event %q", eventFlag)
		}
		filter = kind
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration; %w", err)
	}

	entries, err := collectHookEntries(cfg, filter, processor.SetupLogger(cfg))
	if err != nil {
		return err
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, entries)
	}

	renderHookTable(cmd.OutOrStdout(), entries)
	return nil
}

// collectHookEntries lists the built-in handlers followed by every plugin script.
// A zero filter includes all events.
func collectHookEntries(cfg *config.Config, filter types.EventKind, logger *slog.Logger) ([]hookEntry, error) {
	entries := []hookEntry{}

	for _, h := range processor.BuildHandlers(cfg, io.Discard, io.Discard, logger) {
		events := h.Events()
		if filter.Valid() && !containsEvent(events, filter) {
			continue
		}

		names := make([]string, 0, len(events))
		for _, e := range events {
			names = append(names, e.String())
		}

		entries = append(entries, hookEntry{
			Source:  "builtin",
			Name:    h.Name(),
			Events:  names,
			Enabled: h.CanHandle(types.HookInput{Event: events[0]}),
		})
	}

	plugins, err := plugin.Discover(cfg.Paths.Plugins, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to discover plugins; %w", err)
	}

	for _, p := range plugins {
		for _, kind := range types.AllEventKinds() {
			if filter.Valid() && kind != filter {
				continue
			}

			for _, script := range p.Manifest.ScriptsFor(kind) {
				entries = append(entries, hookEntry{
					Source:  p.Name(),
					Name:    script.Script,
					Events:  []string{kind.String()},
					Matcher: script.Matcher,
					Timeout: script.TimeoutDuration().String(),
					Enabled: cfg.Hooks.PluginsEnabled,
				})
			}
		}
	}

	return entries, nil
}

func containsEvent(events []types.EventKind, kind types.EventKind) bool {
	for _, e := range events {
		if e == kind {
			return true
		}
	}
	return false
}

func renderHookTable(w io.Writer, entries []hookEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No hooks registered")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow("SOURCE", "NAME", "EVENTS", "MATCHER", "TIMEOUT", "ENABLED")

	for _, e := range entries {
		enabled := color.New(color.FgRed).Sprint("no")
		if e.Enabled {
			enabled = color.New(color.FgGreen).Sprint("yes")
		}
		table.AddRow(e.Source, e.Name, strings.Join(e.Events, ","), e.Matcher, e.Timeout, enabled)
	}

	fmt.Fprintln(w, table)
}
