// Package observability records every dispatched hook event to a set of sinks.
// Emission is best-effort: sink failures are logged and never affect the verdict.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// Sink receives a copy of every emitted event
type Sink interface {
	// Emit writes the event and reports the outcome
	Emit(ctx context.Context, event Event) Result

	// GetType returns the sink identifier used in configuration (e.g., "file", "http")
	GetType() string

	// Validate checks if the sink configuration is valid
	Validate() error
}

// Result is the outcome of one sink write
type Result struct {
	SinkType string
	Success  bool
	Message  string
	Error    error
	Duration time.Duration
}

// Results aggregates one emission across all sinks
type Results struct {
	Emitted       bool
	Results       []Result
	TotalDuration time.Duration
}

// Options configure an emitter
type Options struct {
	Enabled        bool
	IncludePayload bool
	Timeout        time.Duration
}

// Emitter fans an event out to the registered sinks
type Emitter struct {
	opts     Options
	logger   *slog.Logger
	registry *Registry
	now      func() time.Time
}

// NewEmitter creates an emitter with no sinks
func NewEmitter(opts Options, logger *slog.Logger) *Emitter {
	return &Emitter{
		opts:     opts,
		logger:   logger,
		registry: NewRegistry(),
		now:      time.Now,
	}
}

// RegisterSink adds a sink to the emitter
func (e *Emitter) RegisterSink(sink Sink) error {
	return e.registry.RegisterSink(sink)
}

// Sinks returns the registered sink types
func (e *Emitter) Sinks() []string {
	return e.registry.ListSinks()
}

// Emit writes the input to every sink concurrently and waits for all of them
func (e *Emitter) Emit(ctx context.Context, input types.HookInput) Results {
	if !e.opts.Enabled {
		e.logger.Debug("observability disabled, skipping")
		return Results{Emitted: false}
	}

	sinkTypes := e.registry.ListSinks()
	if len(sinkTypes) == 0 {
		return Results{Emitted: false}
	}

	startTime := time.Now()

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	event := NewEvent(input, e.now(), e.opts.IncludePayload)

	resultChan := make(chan Result, len(sinkTypes))
	var wg sync.WaitGroup

	for _, sinkType := range sinkTypes {
		sink, err := e.registry.GetSink(sinkType)
		if err != nil {
			resultChan <- Result{SinkType: sinkType, Success: false, Message: err.Error(), Error: err}
			continue
		}

		wg.Add(1)
		go e.emitToSink(ctx, &wg, sink, event, resultChan)
	}

	wg.Wait()
	close(resultChan)

	results := make([]Result, 0, len(sinkTypes))
	for result := range resultChan {
		if result.Error != nil {
			e.logger.Warn("failed to emit event", "sink", result.SinkType, "error", result.Error)
		}
		results = append(results, result)
	}

	totalDuration := time.Since(startTime)
	e.logger.Debug("event emitted",
		"event", event.EventType,
		"sinks", len(results),
		"duration", totalDuration)

	return Results{
		Emitted:       true,
		Results:       results,
		TotalDuration: totalDuration,
	}
}

// emitToSink runs one sink with panic recovery
func (e *Emitter) emitToSink(ctx context.Context, wg *sync.WaitGroup, sink Sink, event Event, resultChan chan<- Result) {
	defer wg.Done()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("sink panicked", "type", sink.GetType(), "panic", r)
			resultChan <- Result{
				SinkType: sink.GetType(),
				Success:  false,
				Message:  "Sink panicked during emission",
				Error:    fmt.Errorf("panic: %v", r),
			}
		}
	}()

	startTime := time.Now()
	result := sink.Emit(ctx, event)
	result.Duration = time.Since(startTime)
	result.SinkType = sink.GetType()

	resultChan <- result
}
