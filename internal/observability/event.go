package observability

import (
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// LocalTimeFormat is the display layout of Event.LocalTime
const LocalTimeFormat = "2006-01-02 15:04:05"

// Event is the record written to every sink
type Event struct {
	Timestamp string         `json:"timestamp"`
	LocalTime string         `json:"local_time"`
	EventType string         `json:"event_type"`
	SessionID string         `json:"session_id,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewEvent builds an event from a hook input observed at now
func NewEvent(input types.HookInput, now time.Time, includePayload bool) Event {
	event := Event{
		Timestamp: types.FormatTimestamp(now),
		LocalTime: now.Local().Format(LocalTimeFormat),
		EventType: input.Event.String(),
		SessionID: input.SessionID(),
		ToolName:  input.ToolName(),
	}

	if includePayload {
		event.Payload = input.RawData
	}

	return event
}

var eventColors = map[string]*color.Color{
	types.SessionStart.String(): color.New(color.FgGreen),
	types.SessionEnd.String():   color.New(color.FgRed),
	types.PreToolUse.String():   color.New(color.FgCyan),
	types.PostToolUse.String():  color.New(color.FgBlue),
	types.Stop.String():         color.New(color.FgYellow),
}

var (
	dim  = color.New(color.Faint)
	bold = color.New(color.Bold)
)

// Display renders the event as one line: <local time> <EventType> [<session8>] <tool>
func (e Event) Display() string {
	eventType := e.EventType
	if c, ok := eventColors[e.EventType]; ok {
		eventType = c.Sprint(e.EventType)
	}

	parts := []string{dim.Sprint(e.LocalTime), eventType}

	if e.SessionID != "" {
		session := []rune(e.SessionID)
		if len(session) > 8 {
			session = session[:8]
		}
		parts = append(parts, dim.Sprint("["+string(session)+"]"))
	}

	if e.ToolName != "" {
		parts = append(parts, bold.Sprint(e.ToolName))
	}

	return strings.Join(parts, " ")
}
