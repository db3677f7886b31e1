package dispatch

import (
	"context"
	"log/slog"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// Handler defines the interface for built-in hook handlers
type Handler interface {
	// Name returns a short identifier used in logs and listings
	Name() string

	// Events returns the event kinds this handler can fire on
	Events() []types.EventKind

	// CanHandle returns true if this handler should run for the given input
	CanHandle(input types.HookInput) bool

	// Handle evaluates the input and returns a verdict
	Handle(ctx context.Context, input types.HookInput) types.Verdict
}

// PluginRunner runs externally supplied hook scripts after the built-in handlers
type PluginRunner interface {
	Run(ctx context.Context, input types.HookInput) types.Verdict
}

// Dispatcher runs handlers in a fixed order for one event
type Dispatcher struct {
	handlers []Handler
	plugins  PluginRunner
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over an explicit, ordered handler list.
// plugins may be nil.
func NewDispatcher(logger *slog.Logger, plugins PluginRunner, handlers ...Handler) *Dispatcher {
	return &Dispatcher{
		handlers: handlers,
		plugins:  plugins,
		logger:   logger,
	}
}

// Handlers returns the handlers in dispatch order
func (d *Dispatcher) Handlers() []Handler {
	return d.handlers
}

// Dispatch evaluates the input. The first Block wins and nothing after it runs;
// Errors are logged and dispatch continues.
func (d *Dispatcher) Dispatch(ctx context.Context, input types.HookInput) types.Verdict {
	for _, handler := range d.handlers {
		if !handler.CanHandle(input) {
			continue
		}

		d.logger.Debug("running handler", "handler", handler.Name(), "event", input.Event.String())

		verdict := handler.Handle(ctx, input)
		if d.settle(handler.Name(), verdict) {
			return verdict
		}
	}

	if d.plugins == nil {
		return types.Allow()
	}

	verdict := d.plugins.Run(ctx, input)
	if d.settle("plugins", verdict) {
		return verdict
	}

	return types.Allow()
}

// settle logs a verdict and reports whether dispatch must stop
func (d *Dispatcher) settle(source string, verdict types.Verdict) bool {
	switch verdict.Kind {
	case types.VerdictBlock:
		d.logger.Info("hook blocked", "source", source, "message", verdict.Message)
		return true
	case types.VerdictError:
		d.logger.Error("hook error", "source", source, "message", verdict.Message)
	}
	return false
}
