package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

type recordingSink struct {
	name   string
	err    error
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Emit(ctx context.Context, event Event) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if s.err != nil {
		return Result{Success: false, Message: s.err.Error(), Error: s.err}
	}
	return Result{Success: true}
}

func (s *recordingSink) GetType() string { return s.name }
func (s *recordingSink) Validate() error { return nil }

type panickingSink struct{}

func (panickingSink) Emit(context.Context, Event) Result { panic("boom") }
func (panickingSink) GetType() string                    { return "panics" }
func (panickingSink) Validate() error                    { return nil }

type invalidSink struct{}

func (invalidSink) Emit(context.Context, Event) Result { return Result{} }
func (invalidSink) GetType() string                    { return "invalid" }
func (invalidSink) Validate() error                    { return errors.New("missing endpoint") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleInput() types.HookInput {
	return types.HookInput{
		Event: types.PreToolUse,
		RawData: map[string]any{
			"sessionId": "0123456789abcdef",
			"toolName":  "Bash",
			"extra":     "value",
		},
	}
}

func TestNewEvent(t *testing.T) {
	now := time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)

	event := NewEvent(sampleInput(), now, false)

	assert.Equal(t, "2026-01-03T12:00:00Z", event.Timestamp)
	assert.Equal(t, now.Local().Format(LocalTimeFormat), event.LocalTime)
	assert.Equal(t, "PreToolUse", event.EventType)
	assert.Equal(t, "0123456789abcdef", event.SessionID)
	assert.Equal(t, "Bash", event.ToolName)
	assert.Nil(t, event.Payload)

	withPayload := NewEvent(sampleInput(), now, true)
	assert.Equal(t, "value", withPayload.Payload["extra"])
}

func TestEmitter_Emit(t *testing.T) {
	e := NewEmitter(Options{Enabled: true}, discardLogger())

	good := &recordingSink{name: "file"}
	bad := &recordingSink{name: "http", err: errors.New("connection refused")}
	require.NoError(t, e.RegisterSink(good))
	require.NoError(t, e.RegisterSink(bad))
	require.NoError(t, e.RegisterSink(panickingSink{}))

	results := e.Emit(context.Background(), sampleInput())

	require.True(t, results.Emitted)
	require.Len(t, results.Results, 3)

	sort.Slice(results.Results, func(i, j int) bool {
		return results.Results[i].SinkType < results.Results[j].SinkType
	})
	assert.True(t, results.Results[0].Success)
	assert.Equal(t, "file", results.Results[0].SinkType)
	assert.False(t, results.Results[1].Success)
	assert.Equal(t, "http", results.Results[1].SinkType)
	assert.False(t, results.Results[2].Success)
	assert.Contains(t, results.Results[2].Error.Error(), "panic")

	require.Len(t, good.events, 1)
	require.Len(t, bad.events, 1)
	assert.Equal(t, "PreToolUse", good.events[0].EventType)
}

func TestEmitter_Disabled(t *testing.T) {
	e := NewEmitter(Options{Enabled: false}, discardLogger())
	sink := &recordingSink{name: "file"}
	require.NoError(t, e.RegisterSink(sink))

	results := e.Emit(context.Background(), sampleInput())

	assert.False(t, results.Emitted)
	assert.Empty(t, sink.events)
}

func TestEmitter_NoSinks(t *testing.T) {
	e := NewEmitter(Options{Enabled: true}, discardLogger())
	assert.False(t, e.Emit(context.Background(), sampleInput()).Emitted)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterSink(&recordingSink{name: "stdout"}))
	require.NoError(t, r.RegisterSink(&recordingSink{name: "file"}))

	assert.Error(t, r.RegisterSink(nil))
	assert.Error(t, r.RegisterSink(&recordingSink{name: ""}))
	assert.Error(t, r.RegisterSink(&recordingSink{name: "file"}))
	assert.Error(t, r.RegisterSink(invalidSink{}))

	assert.Equal(t, []string{"file", "stdout"}, r.ListSinks())
	assert.True(t, r.HasSink("file"))
	assert.False(t, r.HasSink("http"))

	_, err := r.GetSink("http")
	assert.Error(t, err)
}

func TestEvent_Display(t *testing.T) {
	event := Event{LocalTime: "2026-01-03 12:00:00", EventType: "Notification"}
	assert.Equal(t, "2026-01-03 12:00:00 Notification", stripANSI(event.Display()))

	event.SessionID = "abc"
	event.ToolName = "Read"
	assert.Equal(t, "2026-01-03 12:00:00 Notification [abc] Read", stripANSI(event.Display()))

	event.SessionID = "セッション識別子です"
	display := stripANSI(event.Display())
	assert.True(t, utf8.ValidString(display))
	assert.Contains(t, display, "[セッション識別子]")
}

func stripANSI(s string) string {
	var out []rune
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && r == 'm':
			inEscape = false
		case !inEscape:
			out = append(out, r)
		}
	}
	return string(out)
}
