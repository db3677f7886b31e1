package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/leefowlercu/pais-hooks/internal/config"
	"github.com/leefowlercu/pais-hooks/internal/journal"
	"github.com/leefowlercu/pais-hooks/internal/processor"
	"github.com/leefowlercu/pais-hooks/internal/security"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// maxCommandWidth bounds the command column of `security log`
const maxCommandWidth = 60

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Inspect the command security tiers and their log",
}

var securityTiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List the security tiers in evaluation order",
	Args:  cobra.NoArgs,
	RunE:  runSecurityTiers,
}

var securityLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recorded security findings",
	Long: heredoc.Doc(`
		Shows the findings recorded by the security validator, newest first.
		Findings are read from the daily security journals under the history path.
	`),
	Args: cobra.NoArgs,
	RunE: runSecurityLog,
}

var securityTestCmd = &cobra.Command{
	Use:   "test <command>",
	Short: "Classify a shell command without recording it",
	Long: heredoc.Doc(`
		Runs a shell command through the security validator and reports the
		matching tier. Nothing is written to the security log. Exits 2 when the
		command would be blocked.
	`),
	Example: heredoc.Doc(`
		pais security test -- git push --force origin main
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: runSecurityTest,
}

func init() {
	securityTiersCmd.Flags().String("format", "", "Output format (text, json, yaml)")

	securityLogCmd.Flags().Int("days", 7, "Number of days to include, today first")
	securityLogCmd.Flags().String("format", "", "Output format (text, json, yaml)")

	securityTestCmd.Flags().String("format", "", "Output format (text, json, yaml)")

	securityCmd.AddCommand(securityTiersCmd)
	securityCmd.AddCommand(securityLogCmd)
	securityCmd.AddCommand(securityTestCmd)
}

// tierView is the printable form of a tier
type tierView struct {
	Tier        int                  `json:"tier" yaml:"tier"`
	Description string               `json:"description" yaml:"description"`
	Action      types.SecurityAction `json:"action" yaml:"action"`
}

func tierViews() []tierView {
	tiers := security.Tiers()
	views := make([]tierView, 0, len(tiers))
	for _, t := range tiers {
		views = append(views, tierView{Tier: t.Tier, Description: t.Description, Action: t.Action})
	}
	return views
}

func runSecurityTiers(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := resolveFormat(formatFlag, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	views := tierViews()
	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, views)
	}

	table := uitable.New()
	table.AddRow("TIER", "DESCRIPTION", "ACTION")
	for _, v := range views {
		table.AddRow(v.Tier, v.Description, actionColor(v.Action).Sprint(v.Action))
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)

	return nil
}

func runSecurityLog(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	formatFlag, _ := cmd.Flags().GetString("format")

	if days < 1 {
		return fmt.Errorf("--days must be at least 1, got %d", days)
	}

	format, err := resolveFormat(formatFlag, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration; %w", err)
	}

	records, err := readSecurityLog(journal.New(filepath.Join(cfg.Paths.History, processor.SecurityDir)), days)
	if err != nil {
		return err
	}

	if format != formatText {
		return writeStructured(cmd.OutOrStdout(), format, records)
	}

	renderSecurityLog(cmd.OutOrStdout(), records, days)
	return nil
}

// readSecurityLog returns the recorded findings of the last days, newest first
func readSecurityLog(j *journal.Journal, days int) ([]types.SecurityRecord, error) {
	records, err := journal.ReadDays[types.SecurityRecord](j, days)
	if err != nil {
		return nil, fmt.Errorf("failed to read security log; %w", err)
	}
	if records == nil {
		records = []types.SecurityRecord{}
	}

	// RFC3339 UTC timestamps order lexically
	sort.SliceStable(records, func(i, k int) bool {
		return records[i].Timestamp > records[k].Timestamp
	})

	return records, nil
}

func renderSecurityLog(w io.Writer, records []types.SecurityRecord, days int) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No security events in the last %d day(s)\n", days)
		return
	}

	table := uitable.New()
	table.AddRow("TIME", "TIER", "COMMAND", "ACTION")
	for _, r := range records {
		table.AddRow(r.Timestamp, r.Tier, truncate(r.Command, maxCommandWidth), actionColor(r.Action).Sprint(r.Action))
	}
	fmt.Fprintln(w, table)
}

// testResult is the outcome of `security test`
type testResult struct {
	Command     string               `json:"command" yaml:"command"`
	Matched     bool                 `json:"matched" yaml:"matched"`
	Tier        int                  `json:"tier,omitempty" yaml:"tier,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Action      types.SecurityAction `json:"action,omitempty" yaml:"action,omitempty"`
	Blocked     bool                 `json:"blocked" yaml:"blocked"`
	Message     string               `json:"message,omitempty" yaml:"message,omitempty"`
}

// evaluateCommand runs command through a validator that records nothing
func evaluateCommand(ctx context.Context, command string, stderr io.Writer, logger *slog.Logger) testResult {
	validator := security.NewValidator(true, nil, stderr, logger)

	verdict := validator.Handle(ctx, types.HookInput{
		Event: types.PreToolUse,
		RawData: map[string]any{
			"tool_name":  "Bash",
			"tool_input": map[string]any{"command": command},
		},
	})

	result := testResult{Command: command, Blocked: verdict.IsBlock()}
	if verdict.IsBlock() {
		result.Message = verdict.Message
	}

	if finding, ok := security.Classify(command); ok {
		result.Matched = true
		result.Tier = finding.Tier
		result.Description = finding.Description
		result.Action = finding.Action
	}

	return result
}

func runSecurityTest(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := resolveFormat(formatFlag, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration; %w", err)
	}

	result := evaluateCommand(cmd.Context(), strings.Join(args, " "), cmd.ErrOrStderr(), processor.SetupLogger(cfg))

	if format != formatText {
		if err := writeStructured(cmd.OutOrStdout(), format, result); err != nil {
			return err
		}
	} else {
		renderTestResult(cmd.OutOrStdout(), result)
	}

	if result.Blocked {
		fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
		return exitCodeError{code: types.ExitBlock}
	}

	return nil
}

func renderTestResult(w io.Writer, result testResult) {
	if !result.Matched {
		fmt.Fprintln(w, "No tier matched; command allowed")
		return
	}

	fmt.Fprintf(w, "Tier %d (%s): %s\n", result.Tier, actionColor(result.Action).Sprint(result.Action), result.Description)
}
