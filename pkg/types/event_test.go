package types

import "testing"

func TestParseEventKind(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect EventKind
		ok     bool
	}{
		{name: "canonical", input: "PreToolUse", expect: PreToolUse, ok: true},
		{name: "kebab case", input: "pre-tool-use", expect: PreToolUse, ok: true},
		{name: "snake case", input: "user_prompt_submit", expect: UserPromptSubmit, ok: true},
		{name: "upper case", input: "STOP", expect: Stop, ok: true},
		{name: "padded", input: "  session-start ", expect: SessionStart, ok: true},
		{name: "pre compact", input: "pre_compact", expect: PreCompact, ok: true},
		{name: "unknown", input: "PostCompact", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "separators only", input: "-_-", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEventKind(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseEventKind(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expect {
				t.Errorf("ParseEventKind(%q) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestEventKind_RoundTrip(t *testing.T) {
	kinds := AllEventKinds()
	if len(kinds) != 10 {
		t.Fatalf("expected 10 event kinds, got %d", len(kinds))
	}

	for _, kind := range kinds {
		parsed, ok := ParseEventKind(kind.String())
		if !ok {
			t.Errorf("ParseEventKind(%q) did not match", kind.String())
			continue
		}
		if parsed != kind {
			t.Errorf("round trip of %q = %v, want %v", kind.String(), parsed, kind)
		}
	}
}

func TestEventKind_StringUnknown(t *testing.T) {
	var k EventKind
	if k.Valid() {
		t.Error("zero EventKind should not be valid")
	}
	if got := k.String(); got != "Unknown" {
		t.Errorf("String() = %q, want %q", got, "Unknown")
	}
}

func TestVerdict_ExitCode(t *testing.T) {
	tests := []struct {
		name    string
		verdict Verdict
		expect  int
	}{
		{name: "allow", verdict: Allow(), expect: 0},
		{name: "block", verdict: Block("nope"), expect: 2},
		{name: "error", verdict: Errorf("disk full: %d", 28), expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.verdict.ExitCode(); got != tt.expect {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expect)
			}
		})
	}
}

func TestHookInput_Accessors(t *testing.T) {
	input := HookInput{
		RawData: map[string]any{
			"sessionId":  "abc",
			"tool_name":  "Bash",
			"tool_input": map[string]any{"command": "ls -la"},
			"tools_used": []any{"Bash", 3, "Edit"},
		},
	}

	if got := input.SessionID(); got != "abc" {
		t.Errorf("SessionID() = %q, want %q", got, "abc")
	}
	if got := input.ToolName(); got != "Bash" {
		t.Errorf("ToolName() = %q, want %q", got, "Bash")
	}
	if got := input.ToolInputString("command"); got != "ls -la" {
		t.Errorf("ToolInputString() = %q, want %q", got, "ls -la")
	}
	if got := input.ToolInputString("file_path"); got != "" {
		t.Errorf("ToolInputString(missing) = %q, want empty", got)
	}

	tools, ok := input.StringSlice("tools_used")
	if !ok || len(tools) != 2 || tools[0] != "Bash" || tools[1] != "Edit" {
		t.Errorf("StringSlice() = %v, %v", tools, ok)
	}
	if _, ok := input.StringSlice("missing"); ok {
		t.Error("StringSlice(missing) should report false")
	}
}
