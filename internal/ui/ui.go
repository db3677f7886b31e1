// Package ui retitles the terminal tab after the task the user just asked for
package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leefowlercu/pais-hooks/internal/dispatch"
	"github.com/leefowlercu/pais-hooks/pkg/types"
)

const (
	handlerName = "ui"

	// MaxSummaryLength bounds the tab title summary, in characters
	MaxSummaryLength = 40
	ellipsis         = "..."
)

// conversational prefixes, tried in order
var prefixes = []string{
	"please ",
	"can you ",
	"could you ",
	"i need you to ",
	"i want you to ",
	"help me ",
	"let's ",
	"now ",
}

// Handler writes terminal title escape sequences for submitted prompts
type Handler struct {
	enabled bool
	out     io.Writer
	logger  *slog.Logger
}

// Force compile-time check for interface implementation
var _ dispatch.Handler = (*Handler)(nil)

// NewHandler creates a titling handler writing to out
func NewHandler(enabled bool, out io.Writer, logger *slog.Logger) *Handler {
	return &Handler{
		enabled: enabled,
		out:     out,
		logger:  logger,
	}
}

// Name returns the handler name
func (h *Handler) Name() string {
	return handlerName
}

// Events returns the event kinds the handler fires on
func (h *Handler) Events() []types.EventKind {
	return []types.EventKind{types.UserPromptSubmit}
}

// CanHandle returns true for prompt submissions when enabled
func (h *Handler) CanHandle(input types.HookInput) bool {
	return h.enabled && input.Event == types.UserPromptSubmit
}

// Handle sets the tab title. It always allows.
func (h *Handler) Handle(ctx context.Context, input types.HookInput) types.Verdict {
	prompt := input.String("prompt", "message", "content")
	if prompt == "" {
		return types.Allow()
	}

	summary := ExtractTaskSummary(prompt)

	// OSC 0 sets icon name and title, OSC 2 sets the title only
	fmt.Fprintf(h.out, "\x1b]0;🤖 %s\x07", summary)
	fmt.Fprintf(h.out, "\x1b]2;🤖 %s\x07", summary)

	h.logger.Debug("updated tab title", "summary", summary)
	return types.Allow()
}

// ExtractTaskSummary derives a short title from the first line of a prompt
func ExtractTaskSummary(prompt string) string {
	line, _, _ := strings.Cut(prompt, "\n")
	line = strings.TrimSpace(line)
	line = strings.TrimLeftFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, prefix := range prefixes {
		if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			line = line[len(prefix):]
			break
		}
	}

	line = capitalize(line)

	if utf8.RuneCountInString(line) > MaxSummaryLength {
		runes := []rune(line)
		line = string(runes[:MaxSummaryLength-len(ellipsis)]) + ellipsis
	}

	return line
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
