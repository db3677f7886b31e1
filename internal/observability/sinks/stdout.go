package sinks

import (
	"context"
	"fmt"
	"io"

	"github.com/leefowlercu/pais-hooks/internal/observability"
)

// StdoutSink prints a one-line summary of each event
type StdoutSink struct {
	out io.Writer
}

// Force compile-time check for interface implementation
var _ observability.Sink = (*StdoutSink)(nil)

// NewStdoutSink creates a sink printing to out
func NewStdoutSink(out io.Writer) *StdoutSink {
	return &StdoutSink{out: out}
}

// Emit prints the event display line
func (s *StdoutSink) Emit(ctx context.Context, event observability.Event) observability.Result {
	if _, err := fmt.Fprintln(s.out, event.Display()); err != nil {
		return observability.Result{
			Success: false,
			Message: fmt.Sprintf("Failed to print event: %v", err),
			Error:   err,
		}
	}

	return observability.Result{Success: true, Message: "Printed event"}
}

// GetType returns the sink type identifier
func (s *StdoutSink) GetType() string {
	return "stdout"
}

// Validate checks if the sink configuration is valid
func (s *StdoutSink) Validate() error {
	if s.out == nil {
		return fmt.Errorf("stdout sink requires a writer")
	}
	return nil
}
