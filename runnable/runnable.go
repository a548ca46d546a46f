package runnable

import (
	"context"
)

// Runnable is the uniform interface implemented by every unit of work in this
// package. Prompts, chat models, output parsers, composed sequences, parallel
// maps and agents all expose the same three entry points, so any of them can
// be swapped into a pipeline without the caller changing shape.
//
// Invoke transforms a single input into a single output. Stream produces the
// output incrementally as it becomes available. Batch runs many inputs
// concurrently and returns the outputs in input order.
//
// The asynchronous variants of these operations are expressed with goroutines
// and channels rather than separate methods: every method takes a
// context.Context and is safe to call from any goroutine, and the helpers in
// async.go return channels for callers that want a non-blocking handle.
type Runnable interface {
	// Invoke runs the unit on a single input and blocks until the output is
	// ready.
	Invoke(ctx context.Context, input any, opts ...Option) (any, error)

	// Stream runs the unit on a single input and returns a Stream whose
	// Chunks channel carries partial output as it is produced. Units that
	// cannot produce partial output emit the final output as a single chunk.
	Stream(ctx context.Context, input any, opts ...Option) (*Stream, error)

	// Batch runs the unit on every input concurrently, honoring
	// WithMaxConcurrency, and returns the outputs in the same order as the
	// inputs.
	Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error)
}

// Func adapts an ordinary function into a Runnable, the quickest way to drop
// custom logic into a pipeline:
//
//	double := runnable.Func(func(ctx context.Context, input any) (any, error) {
//		return input.(int) * 2, nil
//	})
//	out, err := double.Invoke(ctx, 21)
type Func func(ctx context.Context, input any) (any, error)

// Invoke calls the wrapped function.
func (f Func) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	cfg := newConfig(opts...)
	return runTracked(ctx, cfg, "func", input, func(ctx context.Context) (any, error) {
		return f(ctx, input)
	})
}

// Stream calls the wrapped function and emits its output as a single chunk.
func (f Func) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	return streamOnce(ctx, f, input, opts...)
}

// Batch calls the wrapped function once per input, concurrently.
func (f Func) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, f, inputs, opts...)
}

type passthrough struct{}

// Passthrough returns a Runnable that yields its input unchanged. It is most
// useful inside a Parallel map to forward the original input alongside
// derived values.
func Passthrough() Runnable {
	return passthrough{}
}

func (passthrough) Invoke(_ context.Context, input any, _ ...Option) (any, error) {
	return input, nil
}

func (p passthrough) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	return streamOnce(ctx, p, input, opts...)
}

func (p passthrough) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, p, inputs, opts...)
}
