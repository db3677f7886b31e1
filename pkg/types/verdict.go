package types

import "fmt"

// Exit codes understood by the host agent
const (
	ExitAllow = 0
	ExitBlock = 2
)

// VerdictKind is the three-way outcome of a handler or plugin
type VerdictKind int

const (
	VerdictAllow VerdictKind = iota
	VerdictBlock
	VerdictError
)

// Verdict is the result produced by a handler or plugin for one event
type Verdict struct {
	Kind    VerdictKind
	Message string
}

// Allow lets the action proceed
func Allow() Verdict {
	return Verdict{Kind: VerdictAllow}
}

// Block denies the action with a human-readable reason
func Block(message string) Verdict {
	return Verdict{Kind: VerdictBlock, Message: message}
}

// Errorf reports a handler-internal failure; errors never deny the action
func Errorf(format string, args ...any) Verdict {
	return Verdict{Kind: VerdictError, Message: fmt.Sprintf(format, args...)}
}

// IsBlock reports whether the verdict denies the action
func (v Verdict) IsBlock() bool {
	return v.Kind == VerdictBlock
}

// IsError reports whether the verdict carries a handler fault
func (v Verdict) IsError() bool {
	return v.Kind == VerdictError
}

// ExitCode maps the verdict onto the host exit-code contract
func (v Verdict) ExitCode() int {
	if v.Kind == VerdictBlock {
		return ExitBlock
	}
	return ExitAllow
}

func (v Verdict) String() string {
	switch v.Kind {
	case VerdictBlock:
		return "block: " + v.Message
	case VerdictError:
		return "error: " + v.Message
	default:
		return "allow"
	}
}
