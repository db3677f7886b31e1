package types

import "time"

// HookInput represents one parsed hook invocation
type HookInput struct {
	Framework string         // Framework name (e.g., "claude")
	Event     EventKind      // Parsed event kind
	RawData   map[string]any // Raw JSON payload
}

// String returns the first non-empty string value found under the given keys
func (h HookInput) String(keys ...string) string {
	for _, key := range keys {
		if v, ok := h.RawData[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// ToolName returns the tool the agent is about to use (or just used)
func (h HookInput) ToolName() string {
	return h.String("tool_name", "toolName")
}

// SessionID returns the host session identifier, if present
func (h HookInput) SessionID() string {
	return h.String("session_id", "sessionId")
}

// ToolInputString returns a string field nested under tool_input
func (h HookInput) ToolInputString(key string) string {
	toolInput, ok := h.RawData["tool_input"].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := toolInput[key].(string)
	return v
}

// StringSlice returns the string elements of an array field
func (h HookInput) StringSlice(key string) ([]string, bool) {
	raw, ok := h.RawData[key].([]any)
	if !ok {
		return nil, false
	}

	values := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			values = append(values, s)
		}
	}
	return values, true
}

// SecurityAction is the response attached to a security tier
type SecurityAction string

const (
	ActionBlock SecurityAction = "Block"
	ActionWarn  SecurityAction = "Warn"
	ActionLog   SecurityAction = "Log"
)

// SecurityFinding is a classified shell command
type SecurityFinding struct {
	Tier        int
	Description string
	Action      SecurityAction
}

// SecurityRecord is one line of the security JSONL log
type SecurityRecord struct {
	Timestamp   string         `json:"timestamp" yaml:"timestamp"`
	Tier        int            `json:"tier" yaml:"tier"`
	Description string         `json:"description" yaml:"description"`
	Command     string         `json:"command" yaml:"command"`
	Action      SecurityAction `json:"action" yaml:"action"`
	SessionID   string         `json:"session_id,omitempty" yaml:"session_id,omitempty"`
}

// ResearchRecord is one line of the research JSONL log
type ResearchRecord struct {
	Timestamp   string         `json:"timestamp"`
	Description string         `json:"description"`
	Path        string         `json:"path"`
	Action      SecurityAction `json:"action"`
	SessionID   string         `json:"session_id,omitempty"`
}

// FormatTimestamp renders t in the UTC RFC3339 form used by every JSONL record
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
