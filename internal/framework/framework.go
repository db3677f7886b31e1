package framework

import (
	"errors"
	"io"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// ErrUnknownEvent is returned by ParseInput for event names the host may add later.
// Callers treat it as an allow, not a failure.
var ErrUnknownEvent = errors.New("unknown hook event")

// HookFramework defines the interface for host agent protocol implementations
type HookFramework interface {
	// ParseInput reads the hook payload. eventName may be empty, in which case
	// the framework takes the event from the payload itself.
	ParseInput(eventName string, reader io.Reader) (types.HookInput, error)

	// WriteVerdict reports a verdict to the host through the error stream
	WriteVerdict(verdict types.Verdict, stderr io.Writer) error

	// GetExitCode returns the exit code the host expects for the verdict
	GetExitCode(verdict types.Verdict) int

	// GetName returns the framework name
	GetName() string
}
