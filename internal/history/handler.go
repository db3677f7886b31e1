package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leefowlercu/pais-hooks/internal/dispatch"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

const (
	handlerName = "history"

	// SessionsCategory holds captured session summaries
	SessionsCategory = "sessions"
)

// Handler captures a session summary when the agent stops
type Handler struct {
	enabled bool
	store   Store
	logger  *slog.Logger
	now     func() time.Time
}

// Force compile-time check for interface implementation
var _ dispatch.Handler = (*Handler)(nil)

// NewHandler creates a history capture handler
func NewHandler(enabled bool, store Store, logger *slog.Logger) *Handler {
	return &Handler{
		enabled: enabled,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Name returns the handler name
func (h *Handler) Name() string {
	return handlerName
}

// Events returns the event kinds the handler fires on
func (h *Handler) Events() []types.EventKind {
	return []types.EventKind{types.Stop}
}

// CanHandle returns true for stop events when enabled
func (h *Handler) CanHandle(input types.HookInput) bool {
	return h.enabled && input.Event == types.Stop
}

// Handle stores a markdown summary of the session. Store failures are reported as Error.
func (h *Handler) Handle(ctx context.Context, input types.HookInput) types.Verdict {
	sessionID := input.SessionID()
	if sessionID == "" {
		sessionID = "unknown"
	}

	entry := NewEntry(SessionsCategory, sessionTitle(sessionID), Summarize(input), h.now()).
		WithTag(input.String("stop_reason")).
		WithMetadata("session_id", sessionID)

	path, err := h.store.Store(entry)
	if err != nil {
		h.logger.Error("failed to capture session", "error", err)
		return types.Errorf("failed to store session; %v", err)
	}

	h.logger.Info("captured session", "path", path)
	return types.Allow()
}

// Summarize renders the markdown body for a stop payload. Each section is omitted when its field is absent.
func Summarize(input types.HookInput) string {
	var sb strings.Builder

	if conversation, ok := input.RawData["conversation"].([]any); ok {
		sb.WriteString("## Conversation Summary\n\n")
		fmt.Fprintf(&sb, "Messages exchanged: %d\n\n", len(conversation))
	}

	if reason := input.String("stop_reason"); reason != "" {
		fmt.Fprintf(&sb, "**Stop reason:** %s\n\n", reason)
	}

	if response := input.String("response"); response != "" {
		sb.WriteString("## Final Response\n\n")
		sb.WriteString(response)
		sb.WriteString("\n\n")
	}

	if tools, ok := input.StringSlice("tools_used"); ok && len(tools) > 0 {
		sb.WriteString("## Tools Used\n\n")
		for _, tool := range tools {
			fmt.Fprintf(&sb, "- %s\n", tool)
		}
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "Session completed.\n"
	}

	return sb.String()
}

func sessionTitle(sessionID string) string {
	short := []rune(sessionID)
	if len(short) > 8 {
		short = short[:8]
	}
	return "Session " + string(short)
}
