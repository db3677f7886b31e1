package claude

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/leefowlercu/pais-hooks/internal/framework"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

const frameworkName = "claude"

// Framework implements the HookFramework interface for Claude Code
type Framework struct{}

// Force compile-time check for interface implementation
var _ framework.HookFramework = (*Framework)(nil)

// NewFramework creates a new Claude framework instance
func NewFramework() *Framework {
	return &Framework{}
}

// ParseInput decodes the JSON payload. An empty payload is treated as {}.
// When eventName is empty the payload's hook_event_name is used.
func (f *Framework) ParseInput(eventName string, reader io.Reader) (types.HookInput, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return types.HookInput{}, fmt.Errorf("failed to read hook payload; %w", err)
	}

	rawData := map[string]any{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &rawData); err != nil {
			return types.HookInput{}, fmt.Errorf("failed to decode JSON input; %w", err)
		}
		if rawData == nil {
			rawData = map[string]any{}
		}
	}

	if eventName == "" {
		eventName, _ = rawData["hook_event_name"].(string)
	}

	kind, ok := types.ParseEventKind(eventName)
	if !ok {
		return types.HookInput{}, fmt.Errorf("%w: %q", framework.ErrUnknownEvent, eventName)
	}

	return types.HookInput{
		Framework: frameworkName,
		Event:     kind,
		RawData:   rawData,
	}, nil
}

// WriteVerdict writes the block reason to stderr, where Claude Code shows it to the model
func (f *Framework) WriteVerdict(verdict types.Verdict, stderr io.Writer) error {
	if !verdict.IsBlock() {
		return nil
	}

	if _, err := fmt.Fprintln(stderr, verdict.Message); err != nil {
		return fmt.Errorf("failed to write block message; %w", err)
	}
	return nil
}

// GetExitCode returns 2 for a block and 0 otherwise
func (f *Framework) GetExitCode(verdict types.Verdict) int {
	return verdict.ExitCode()
}

// GetName returns the framework name
func (f *Framework) GetName() string {
	return frameworkName
}
