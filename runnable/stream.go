package runnable

import (
	"context"
	"fmt"
	"strings"
)

// streamBufferSize is the chunk channel capacity. Producers block once the
// consumer falls this far behind, so chunks are never dropped.
const streamBufferSize = 64

// Chunk is one piece of streamed output.
type Chunk struct {
	// Value is the chunk payload. Chat models emit string tokens; other
	// runnables emit their full output as a single chunk.
	Value any

	// Branch names the Parallel branch that produced the chunk. It is empty
	// outside Parallel streams.
	Branch string
}

// Stream is the handle returned by Runnable.Stream.
//
// Consume Chunks until it is closed, then read the final output from Result
// or the failure from Errors; exactly one of the two fires, after which Done
// is closed. Cancel stops the producer early and may be called at any time.
type Stream struct {
	// Chunks carries partial output in production order.
	Chunks <-chan Chunk

	// Result carries the final output once the stream completes.
	Result <-chan any

	// Errors carries the error if the stream fails.
	Errors <-chan error

	// Done is closed after the final result or error has been delivered.
	Done <-chan struct{}

	// Cancel stops the producer. Safe to call more than once.
	Cancel context.CancelFunc
}

// Wait discards any unread chunks and blocks until the stream finishes,
// returning the final output or error.
func (s *Stream) Wait() (any, error) {
	for range s.Chunks {
	}
	select {
	case out := <-s.Result:
		return out, nil
	case err := <-s.Errors:
		return nil, err
	}
}

// CollectText concatenates all string chunks and returns the combined text.
// Non-string chunk values are formatted with fmt.Sprint. If the stream fails,
// the text collected so far is returned alongside the error.
func (s *Stream) CollectText() (string, error) {
	var sb strings.Builder
	for chunk := range s.Chunks {
		if text, ok := chunk.Value.(string); ok {
			sb.WriteString(text)
		} else {
			sb.WriteString(fmt.Sprint(chunk.Value))
		}
	}
	select {
	case <-s.Result:
		return sb.String(), nil
	case err := <-s.Errors:
		return sb.String(), err
	}
}

// ChunkTransformer is implemented by runnables that can rewrite a stream
// chunk by chunk. A Sequence keeps streaming through trailing transformer
// steps instead of collapsing the stream into a single final chunk, which is
// how token streams survive an output parser at the end of a pipeline.
type ChunkTransformer interface {
	TransformChunk(ctx context.Context, chunk Chunk) (Chunk, error)
}

// streamPipe is the producer side of a Stream.
type streamPipe struct {
	chunks chan Chunk
	result chan any
	errs   chan error
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func newStreamPipe(ctx context.Context) (*streamPipe, *Stream) {
	ctx, cancel := context.WithCancel(ctx)
	p := &streamPipe{
		chunks: make(chan Chunk, streamBufferSize),
		result: make(chan any, 1),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	s := &Stream{
		Chunks: p.chunks,
		Result: p.result,
		Errors: p.errs,
		Done:   p.done,
		Cancel: cancel,
	}
	return p, s
}

// send delivers one chunk, blocking while the buffer is full. It reports
// false once the stream is cancelled.
func (p *streamPipe) send(c Chunk) bool {
	select {
	case p.chunks <- c:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// finish closes the stream with a final output or error. Must be called
// exactly once, after the last send.
func (p *streamPipe) finish(out any, err error) {
	close(p.chunks)
	if err != nil {
		p.errs <- err
	} else {
		p.result <- out
	}
	close(p.done)
	p.cancel()
}

// StreamInvoke runs r.Invoke in a goroutine and delivers the output as a
// single chunk followed by the final result. It is the Stream implementation
// to reach for when writing a Runnable with no incremental output.
func StreamInvoke(ctx context.Context, r Runnable, input any, opts ...Option) (*Stream, error) {
	return streamOnce(ctx, r, input, opts...)
}

// streamOnce is the default Stream implementation for runnables without
// incremental output: Invoke, emit the output as one chunk, finish.
func streamOnce(ctx context.Context, r Runnable, input any, opts ...Option) (*Stream, error) {
	pipe, stream := newStreamPipe(ctx)
	go func() {
		out, err := r.Invoke(pipe.ctx, input, opts...)
		if err != nil {
			pipe.finish(nil, err)
			return
		}
		if !pipe.send(Chunk{Value: out}) {
			pipe.finish(nil, pipe.ctx.Err())
			return
		}
		pipe.finish(out, nil)
	}()
	return stream, nil
}
