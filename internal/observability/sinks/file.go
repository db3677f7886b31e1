package sinks

import (
	"context"
	"fmt"

	"github.com/leefowlercu/pais-hooks/internal/journal"
	"github.com/leefowlercu/pais-hooks/internal/observability"
)

// FileSink appends events to a day-partitioned JSONL journal
type FileSink struct {
	journal *journal.Journal
}

// Force compile-time check for interface implementation
var _ observability.Sink = (*FileSink)(nil)

// NewFileSink creates a file sink over a journal
func NewFileSink(j *journal.Journal) *FileSink {
	return &FileSink{journal: j}
}

// Emit appends the event as one JSON line
func (s *FileSink) Emit(ctx context.Context, event observability.Event) observability.Result {
	select {
	case <-ctx.Done():
		return observability.Result{
			Success: false,
			Message: "File emission cancelled",
			Error:   ctx.Err(),
		}
	default:
	}

	path, err := s.journal.Append(event)
	if err != nil {
		return observability.Result{
			Success: false,
			Message: fmt.Sprintf("Failed to append event: %v", err),
			Error:   err,
		}
	}

	return observability.Result{
		Success: true,
		Message: fmt.Sprintf("Appended event to %s", path),
	}
}

// GetType returns the sink type identifier
func (s *FileSink) GetType() string {
	return "file"
}

// Validate checks if the sink configuration is valid
func (s *FileSink) Validate() error {
	if s.journal == nil || s.journal.Root() == "" {
		return fmt.Errorf("file sink requires a directory")
	}
	return nil
}
