package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

type failingStore struct{}

func (failingStore) Store(Entry) (string, error) {
	return "", errors.New("read-only file system")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stopInput(data map[string]any) types.HookInput {
	return types.HookInput{Event: types.Stop, RawData: data}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name            string
		data            map[string]any
		expectContains  []string
		expectAbsent    []string
		expectExactBody string
	}{
		{
			name: "all sections",
			data: map[string]any{
				"conversation": []any{"a", "b", "c"},
				"stop_reason":  "user_request",
				"response":     "Done refactoring.",
				"tools_used":   []any{"Bash", "Edit"},
			},
			expectContains: []string{
				"Messages exchanged: 3",
				"**Stop reason:** user_request",
				"## Final Response\n\nDone refactoring.",
				"- Bash\n- Edit\n",
			},
		},
		{
			name: "only stop reason",
			data: map[string]any{"stop_reason": "end_turn"},
			expectContains: []string{
				"**Stop reason:** end_turn",
			},
			expectAbsent: []string{"## Conversation Summary", "## Final Response", "## Tools Used"},
		},
		{
			name:            "empty payload",
			data:            map[string]any{},
			expectExactBody: "Session completed.\n",
		},
		{
			name:         "empty tools list omitted",
			data:         map[string]any{"tools_used": []any{}},
			expectAbsent: []string{"## Tools Used"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := Summarize(stopInput(tt.data))

			if tt.expectExactBody != "" {
				assert.Equal(t, tt.expectExactBody, body)
			}
			for _, s := range tt.expectContains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.expectAbsent {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestHandler_StoresSession(t *testing.T) {
	base := t.TempDir()
	store := NewFileStore(base)
	h := NewHandler(true, store, discardLogger())
	h.now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, time.Local) }

	verdict := h.Handle(context.Background(), stopInput(map[string]any{
		"session_id":  "0123456789abcdef",
		"stop_reason": "user_request",
		"tools_used":  []any{"Bash"},
	}))
	require.Equal(t, types.VerdictAllow, verdict.Kind)

	matches, err := filepath.Glob(filepath.Join(base, SessionsCategory, "2026-01-05", "*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	entry, err := store.Load(matches[0])
	require.NoError(t, err)

	assert.Equal(t, "Session 01234567", entry.Title)
	assert.Equal(t, SessionsCategory, entry.Category)
	assert.Equal(t, []string{"user_request"}, entry.Tags)
	assert.Equal(t, "0123456789abcdef", entry.Metadata["session_id"])
	assert.Contains(t, entry.Content, "- Bash")
	assert.Equal(t, filepath.Base(matches[0]), entry.ID+".md")
}

func TestHandler_StoreFailureIsError(t *testing.T) {
	h := NewHandler(true, failingStore{}, discardLogger())

	verdict := h.Handle(context.Background(), stopInput(map[string]any{}))

	assert.Equal(t, types.VerdictError, verdict.Kind)
	assert.Contains(t, verdict.Message, "read-only file system")
	assert.Equal(t, types.ExitAllow, verdict.ExitCode())
}

type capturingStore struct {
	entries []Entry
}

func (c *capturingStore) Store(entry Entry) (string, error) {
	c.entries = append(c.entries, entry)
	return "captured", nil
}

func TestHandler_TitleKeepsWholeRunes(t *testing.T) {
	store := &capturingStore{}
	h := NewHandler(true, store, discardLogger())

	verdict := h.Handle(context.Background(), stopInput(map[string]any{"session_id": "séssion-ïdentifier"}))

	assert.Equal(t, types.VerdictAllow, verdict.Kind)
	require.Len(t, store.entries, 1)
	assert.Equal(t, "Session séssion-", store.entries[0].Title)
	assert.True(t, utf8.ValidString(store.entries[0].Title))
}

func TestHandler_CanHandle(t *testing.T) {
	h := NewHandler(true, failingStore{}, discardLogger())
	assert.True(t, h.CanHandle(types.HookInput{Event: types.Stop}))
	assert.False(t, h.CanHandle(types.HookInput{Event: types.SessionEnd}))
	assert.False(t, h.CanHandle(types.HookInput{Event: types.PreToolUse}))

	disabled := NewHandler(false, failingStore{}, discardLogger())
	assert.False(t, disabled.CanHandle(types.HookInput{Event: types.Stop}))
}

func TestEntry_MarkdownRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	entry := NewEntry("sessions", "Session abc", "Body text\n", created).
		WithTag("end_turn").
		WithMetadata("session_id", "abc")

	data, err := entry.Markdown()
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Session abc\n\nBody text\n")

	path := filepath.Join(t.TempDir(), "entry.md")
	require.NoError(t, os.WriteFile(path, data, 0644))

	parsed, err := NewFileStore("").Load(path)
	require.NoError(t, err)

	assert.Equal(t, entry.ID, parsed.ID)
	assert.True(t, created.Equal(parsed.CreatedAt))
	assert.Equal(t, "Body text\n", parsed.Content)
}
