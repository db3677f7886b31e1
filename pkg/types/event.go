package types

import "strings"

// EventKind identifies a moment in the host agent's lifecycle that triggers dispatch
type EventKind int

const (
	PreToolUse EventKind = iota + 1
	PostToolUse
	SessionStart
	SessionEnd
	Stop
	SubagentStop
	Notification
	PermissionRequest
	UserPromptSubmit
	PreCompact
)

var eventNames = map[EventKind]string{
	PreToolUse:        "PreToolUse",
	PostToolUse:       "PostToolUse",
	SessionStart:      "SessionStart",
	SessionEnd:        "SessionEnd",
	Stop:              "Stop",
	SubagentStop:      "SubagentStop",
	Notification:      "Notification",
	PermissionRequest: "PermissionRequest",
	UserPromptSubmit:  "UserPromptSubmit",
	PreCompact:        "PreCompact",
}

// AllEventKinds returns every event kind in declaration order
func AllEventKinds() []EventKind {
	return []EventKind{
		PreToolUse,
		PostToolUse,
		SessionStart,
		SessionEnd,
		Stop,
		SubagentStop,
		Notification,
		PermissionRequest,
		UserPromptSubmit,
		PreCompact,
	}
}

// ParseEventKind resolves an event name case-insensitively, ignoring hyphens and underscores.
// Unknown names return false so that new host events fail open.
func ParseEventKind(name string) (EventKind, bool) {
	normalized := normalizeEventName(name)
	if normalized == "" {
		return 0, false
	}

	for kind, canonical := range eventNames {
		if strings.ToLower(canonical) == normalized {
			return kind, true
		}
	}

	return 0, false
}

// String returns the canonical (PascalCase) event name
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether k is one of the known event kinds
func (k EventKind) Valid() bool {
	_, ok := eventNames[k]
	return ok
}

func normalizeEventName(name string) string {
	replacer := strings.NewReplacer("-", "", "_", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(name)))
}
