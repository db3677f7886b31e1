package security

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/leefowlercu/pais-hooks/internal/dispatch"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

const (
	handlerName = "security"
	shellTool   = "Bash"
)

// Recorder durably appends security records
type Recorder interface {
	Append(record any) (string, error)
}

// Validator classifies shell commands before they execute
type Validator struct {
	enabled  bool
	recorder Recorder
	stderr   io.Writer
	logger   *slog.Logger
	now      func() time.Time
}

// Force compile-time check for interface implementation
var _ dispatch.Handler = (*Validator)(nil)

// NewValidator creates a security validator. recorder may be nil to skip persistence.
func NewValidator(enabled bool, recorder Recorder, stderr io.Writer, logger *slog.Logger) *Validator {
	return &Validator{
		enabled:  enabled,
		recorder: recorder,
		stderr:   stderr,
		logger:   logger,
		now:      time.Now,
	}
}

// Name returns the handler name
func (v *Validator) Name() string {
	return handlerName
}

// Events returns the event kinds the validator fires on
func (v *Validator) Events() []types.EventKind {
	return []types.EventKind{types.PreToolUse}
}

// CanHandle returns true for pre-tool-use events when enabled
func (v *Validator) CanHandle(input types.HookInput) bool {
	return v.enabled && input.Event == types.PreToolUse
}

// Handle classifies the shell command carried by a Bash tool invocation
func (v *Validator) Handle(ctx context.Context, input types.HookInput) types.Verdict {
	if input.ToolName() != shellTool {
		return types.Allow()
	}

	// A missing command classifies as the empty string
	command := input.ToolInputString("command")

	finding, ok := Classify(command)
	if !ok {
		return types.Allow()
	}

	v.record(finding, command, input.SessionID())

	switch finding.Action {
	case types.ActionBlock:
		v.logger.Info("command blocked", "tier", finding.Tier, "description", finding.Description)
		return types.Block(BlockMessage(finding))
	case types.ActionWarn:
		v.logger.Warn("command warned", "tier", finding.Tier, "description", finding.Description)
		color.New(color.FgYellow).Fprintf(v.stderr, "⚠️  WARNING: Tier %d - %s\n", finding.Tier, finding.Description)
		return types.Allow()
	default:
		v.logger.Debug("command logged", "tier", finding.Tier, "description", finding.Description)
		return types.Allow()
	}
}

// record appends the finding to the security log; failures never change the verdict
func (v *Validator) record(finding types.SecurityFinding, command, sessionID string) {
	if v.recorder == nil {
		return
	}

	rec := types.SecurityRecord{
		Timestamp:   types.FormatTimestamp(v.now()),
		Tier:        finding.Tier,
		Description: finding.Description,
		Command:     command,
		Action:      finding.Action,
		SessionID:   sessionID,
	}

	if _, err := v.recorder.Append(rec); err != nil {
		v.logger.Error("failed to record security event", "error", err)
	}
}

// BlockMessage builds the human-readable reason returned to the host
func BlockMessage(finding types.SecurityFinding) string {
	var sb strings.Builder
	sb.WriteString("🚨 BLOCKED: Tier ")
	sb.WriteString(strconv.Itoa(finding.Tier))
	sb.WriteString(" - ")
	sb.WriteString(finding.Description)
	return sb.String()
}
