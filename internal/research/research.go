// Package research keeps research notes in the <category>/<topic>/<YYYY-MM-DD>.md layout
package research

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/leefowlercu/pais-hooks/internal/config"
	"github.com/leefowlercu/pais-hooks/internal/dispatch"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

const (
	handlerName = "research"

	// rootMarker identifies a research path regardless of how the home directory was spelled
	rootMarker = ".config/pais/research/"

	expectedPattern = "~/.config/pais/research/<category>/<topic>/<YYYY-MM-DD>.md"
	examplePath     = "~/.config/pais/research/tech/zapier-ceo-ai-stack/2026-01-05.md"
)

var (
	categoryPattern = regexp.MustCompile(`^[a-z-]+$`)
	topicPattern    = regexp.MustCompile(`^[a-z0-9-]+$`)
	filenamePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)

	// KnownCategories are suggested in violation messages
	KnownCategories = []string{"tech", "building", "football", "writing", "management", "youtube"}

	writeTools = map[string]bool{
		"Write":     true,
		"Edit":      true,
		"MultiEdit": true,
	}
)

// Recorder durably appends research records
type Recorder interface {
	Append(record any) (string, error)
}

// Validator blocks file writes that would misplace research notes
type Validator struct {
	enabled  bool
	root     string
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Force compile-time check for interface implementation
var _ dispatch.Handler = (*Validator)(nil)

// NewValidator creates a research path validator for the given root. recorder may be nil.
func NewValidator(enabled bool, root string, recorder Recorder, logger *slog.Logger) *Validator {
	return &Validator{
		enabled:  enabled,
		root:     filepath.Clean(config.ExpandPath(root)),
		recorder: recorder,
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

// Handle validates the target path of a file write or edit
func (v *Validator) Handle(ctx context.Context, input types.HookInput) types.Verdict {
	if !writeTools[input.ToolName()] {
		return types.Allow()
	}

	path := input.ToolInputString("file_path")

	relative, ok := v.relativePath(path)
	if !ok {
		return types.Allow()
	}

	if err := ValidateRelative(relative); err != nil {
		v.logger.Warn("invalid research path blocked", "path", path, "reason", err.Error())
		v.record(err.Error(), path, input.SessionID())
		return types.Block(blockMessage(err.Error()))
	}

	v.logger.Debug("research path validated", "path", path)
	return types.Allow()
}

// relativePath returns the portion of path below the research root
func (v *Validator) relativePath(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	expanded := config.ExpandPath(path)

	if v.root != "." && v.root != "" {
		prefix := v.root + string(filepath.Separator)
		if strings.HasPrefix(expanded, prefix) {
			return strings.TrimPrefix(expanded, prefix), true
		}
	}

	if idx := strings.Index(expanded, rootMarker); idx >= 0 {
		return expanded[idx+len(rootMarker):], true
	}

	return "", false
}

// ValidateRelative checks a path relative to the research root against
// <category>/<topic>/<YYYY-MM-DD>.md and names the first rule it breaks
func ValidateRelative(relative string) error {
	parts := strings.Split(relative, "/")

	if len(parts) != 3 {
		return fmt.Errorf("research path must have exactly 3 components <category>/<topic>/<YYYY-MM-DD>.md; got %d: %q", len(parts), parts)
	}

	category, topic, filename := parts[0], parts[1], parts[2]

	if !categoryPattern.MatchString(category) {
		return fmt.Errorf("category must be lowercase letters with hyphens only (pattern %s): %q; known categories: %s",
			categoryPattern.String(), category, strings.Join(KnownCategories, ", "))
	}

	if !topicPattern.MatchString(topic) {
		return fmt.Errorf("topic must be lowercase letters, digits and hyphens (pattern %s): %q; example: 'slack-mcp'",
			topicPattern.String(), topic)
	}

	if !filenamePattern.MatchString(filename) {
		return fmt.Errorf("filename must be an ISO date '<YYYY-MM-DD>.md': %q; example: '2026-01-05.md'", filename)
	}

	return nil
}

func (v *Validator) record(description, path, sessionID string) {
	if v.recorder == nil {
		return
	}

	rec := types.ResearchRecord{
		Timestamp:   types.FormatTimestamp(v.now()),
		Description: description,
		Path:        path,
		Action:      types.ActionBlock,
		SessionID:   sessionID,
	}

	if _, err := v.recorder.Append(rec); err != nil {
		v.logger.Error("failed to record research violation", "error", err)
	}
}

func blockMessage(reason string) string {
	var sb strings.Builder
	sb.WriteString("❌ INVALID RESEARCH PATH\n\n")
	sb.WriteString(reason)
	sb.WriteString("\n\n📁 Expected structure:\n")
	sb.WriteString(expectedPattern)
	sb.WriteString("\n\n📂 Example:\n")
	sb.WriteString(examplePath)
	return sb.String()
}
