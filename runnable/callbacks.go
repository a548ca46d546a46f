package runnable

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunInfo describes the run a callback event belongs to.
type RunInfo struct {
	// RunID uniquely identifies the run.
	RunID string

	// Name is the kind of runnable executing ("sequence", "chat_model", ...).
	Name string

	// Tags and Metadata are taken from the call's Config.
	Tags     []string
	Metadata map[string]any
}

// CallbackHandler receives lifecycle events from runnable executions. Events
// fire for the run they are registered on and for every nested run.
//
// Handlers must be safe for concurrent use: Batch and Parallel deliver events
// from multiple goroutines.
type CallbackHandler interface {
	// OnRunStart fires before a runnable processes its input.
	OnRunStart(ctx context.Context, info RunInfo, input any)

	// OnRunEnd fires after a runnable produced its output.
	OnRunEnd(ctx context.Context, info RunInfo, output any, elapsed time.Duration)

	// OnRunError fires when a runnable fails.
	OnRunError(ctx context.Context, info RunInfo, err error)

	// OnToken fires for each streamed token of a model run.
	OnToken(ctx context.Context, info RunInfo, token string)
}

// NoopCallbackHandler implements CallbackHandler with empty methods. Embed it
// to implement only the events you care about.
type NoopCallbackHandler struct{}

var _ CallbackHandler = NoopCallbackHandler{}

func (NoopCallbackHandler) OnRunStart(context.Context, RunInfo, any) {}

func (NoopCallbackHandler) OnRunEnd(context.Context, RunInfo, any, time.Duration) {}

func (NoopCallbackHandler) OnRunError(context.Context, RunInfo, error) {}

func (NoopCallbackHandler) OnToken(context.Context, RunInfo, string) {}

func generateRunID() string {
	return uuid.NewString()
}

// runInfo builds the RunInfo for one execution, minting an ID unless the
// config pinned one.
func (c *Config) runInfo(name string) RunInfo {
	id := c.RunID
	if id == "" {
		id = generateRunID()
	}
	return RunInfo{
		RunID:    id,
		Name:     name,
		Tags:     c.Tags,
		Metadata: c.Metadata,
	}
}

func (c *Config) notifyStart(ctx context.Context, info RunInfo, input any) {
	for _, cb := range c.Callbacks {
		cb.OnRunStart(ctx, info, input)
	}
}

func (c *Config) notifyEnd(ctx context.Context, info RunInfo, output any, elapsed time.Duration) {
	for _, cb := range c.Callbacks {
		cb.OnRunEnd(ctx, info, output, elapsed)
	}
}

func (c *Config) notifyError(ctx context.Context, info RunInfo, err error) {
	for _, cb := range c.Callbacks {
		cb.OnRunError(ctx, info, err)
	}
}

func (c *Config) notifyToken(ctx context.Context, info RunInfo, token string) {
	for _, cb := range c.Callbacks {
		cb.OnToken(ctx, info, token)
	}
}

// Tracked executes fn between OnRunStart and OnRunEnd/OnRunError
// notifications for the handlers configured in opts. Runnable implementations
// outside this package call it from their Invoke to get the same
// instrumentation the built-in runnables have.
func Tracked(ctx context.Context, name string, input any, opts []Option, fn func(context.Context) (any, error)) (any, error) {
	return runTracked(ctx, newConfig(opts...), name, input, fn)
}

// runTracked executes fn between OnRunStart and OnRunEnd/OnRunError
// notifications. It is the common wrapper used by every Invoke.
func runTracked(ctx context.Context, cfg *Config, name string, input any, fn func(context.Context) (any, error)) (any, error) {
	info := cfg.runInfo(name)
	cfg.notifyStart(ctx, info, input)
	start := time.Now()

	out, err := fn(ctx)
	if err != nil {
		cfg.notifyError(ctx, info, err)
		return nil, err
	}

	cfg.notifyEnd(ctx, info, out, time.Since(start))
	return out, nil
}
