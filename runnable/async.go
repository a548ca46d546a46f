package runnable

import (
	"context"
)

// AsyncResult delivers the outcome of a run started in the background.
type AsyncResult struct {
	// Output is the run's output when Err is nil.
	Output any

	// Err is the run's failure when non-nil.
	Err error
}

// InvokeAsync starts an Invoke in its own goroutine and returns a channel
// that delivers exactly one AsyncResult. The channel is buffered, so the
// result is never lost even if the caller reads late:
//
//	done := runnable.InvokeAsync(ctx, chain, input)
//	// ... other work ...
//	res := <-done
func InvokeAsync(ctx context.Context, r Runnable, input any, opts ...Option) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	go func() {
		defer close(out)
		v, err := r.Invoke(ctx, input, opts...)
		out <- AsyncResult{Output: v, Err: err}
	}()
	return out
}

// BatchAsync starts a Batch in its own goroutine and returns a channel that
// delivers exactly one BatchResult.
func BatchAsync(ctx context.Context, r Runnable, inputs []any, opts ...Option) <-chan BatchResult {
	out := make(chan BatchResult, 1)
	go func() {
		defer close(out)
		v, err := r.Batch(ctx, inputs, opts...)
		out <- BatchResult{Outputs: v, Err: err}
	}()
	return out
}

// BatchResult delivers the outcome of a background Batch.
type BatchResult struct {
	// Outputs holds the per-input outputs, in input order, when Err is nil.
	Outputs []any

	// Err is the batch failure when non-nil. A *BatchError identifies the
	// failing input.
	Err error
}

// StreamText starts a Stream and returns a channel of text chunks, closing it
// when the stream ends. Errors terminate the channel early; callers that need
// the error or the final structured output should use Stream directly.
func StreamText(ctx context.Context, r Runnable, input any, opts ...Option) (<-chan string, error) {
	stream, err := r.Stream(ctx, input, opts...)
	if err != nil {
		return nil, err
	}

	out := make(chan string, streamBufferSize)
	go func() {
		defer close(out)
		for chunk := range stream.Chunks {
			text, ok := chunk.Value.(string)
			if !ok {
				continue
			}
			select {
			case out <- text:
			case <-ctx.Done():
				stream.Cancel()
				return
			}
		}
	}()
	return out, nil
}
