package runnable

import (
	"context"
	"time"
)

// Sequence chains runnables so each step's output becomes the next step's
// input. It is the pipe operator of this package:
//
//	chain := runnable.NewSequence(prompt, model, runnable.NewStringOutput())
//	answer, err := chain.Invoke(ctx, map[string]any{"topic": "bears"})
//
// A Sequence is itself a Runnable, so sequences nest.
type Sequence struct {
	steps []Runnable
}

// NewSequence builds a Sequence from steps in execution order.
func NewSequence(steps ...Runnable) *Sequence {
	return &Sequence{steps: steps}
}

// Pipe returns a new Sequence with the given steps appended. The receiver is
// unchanged, so partially built pipelines can be shared:
//
//	base := runnable.NewSequence(prompt, model)
//	text := base.Pipe(runnable.NewStringOutput())
func (s *Sequence) Pipe(next ...Runnable) *Sequence {
	steps := make([]Runnable, 0, len(s.steps)+len(next))
	steps = append(steps, s.steps...)
	steps = append(steps, next...)
	return &Sequence{steps: steps}
}

// Steps returns the steps in execution order.
func (s *Sequence) Steps() []Runnable {
	out := make([]Runnable, len(s.steps))
	copy(out, s.steps)
	return out
}

// Invoke runs every step in order, feeding each output into the next step.
// An empty Sequence returns the input unchanged.
func (s *Sequence) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	cfg := newConfig(opts...)
	return runTracked(ctx, cfg, "sequence", input, func(ctx context.Context) (any, error) {
		childOpts := cfg.childOptions()
		current := input
		for _, step := range s.steps {
			out, err := step.Invoke(ctx, current, childOpts...)
			if err != nil {
				return nil, err
			}
			current = out
		}
		return current, nil
	})
}

// Stream runs the sequence with incremental output. Steps before the last
// non-transformer step are invoked to completion; that step is streamed, and
// any trailing ChunkTransformer steps rewrite each chunk in flight. The final
// result is the last step's final output.
func (s *Sequence) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	if len(s.steps) == 0 {
		return streamOnce(ctx, Passthrough(), input, opts...)
	}

	cfg := newConfig(opts...)
	childOpts := cfg.childOptions()

	// Trailing transformer steps keep the stream alive; everything up to the
	// step before them runs eagerly.
	split := len(s.steps)
	for split > 1 {
		if _, ok := s.steps[split-1].(ChunkTransformer); !ok {
			break
		}
		split--
	}

	pipe, stream := newStreamPipe(ctx)
	info := cfg.runInfo("sequence")
	cfg.notifyStart(ctx, info, input)
	start := time.Now()

	finish := func(out any, err error) {
		if err != nil {
			cfg.notifyError(pipe.ctx, info, err)
		} else {
			cfg.notifyEnd(pipe.ctx, info, out, time.Since(start))
		}
		pipe.finish(out, err)
	}

	go func() {
		current := input
		for _, step := range s.steps[:split-1] {
			out, err := step.Invoke(pipe.ctx, current, childOpts...)
			if err != nil {
				finish(nil, err)
				return
			}
			current = out
		}

		src, err := s.steps[split-1].Stream(pipe.ctx, current, childOpts...)
		if err != nil {
			finish(nil, err)
			return
		}

		transformers := make([]ChunkTransformer, 0, len(s.steps)-split)
		for _, step := range s.steps[split:] {
			transformers = append(transformers, step.(ChunkTransformer))
		}

		for chunk := range src.Chunks {
			c := chunk
			for _, tr := range transformers {
				c, err = tr.TransformChunk(pipe.ctx, c)
				if err != nil {
					src.Cancel()
					finish(nil, err)
					return
				}
			}
			if !pipe.send(c) {
				src.Cancel()
				finish(nil, pipe.ctx.Err())
				return
			}
		}

		out, err := src.Wait()
		if err != nil {
			finish(nil, err)
			return
		}

		// The transformer steps still produce the pipeline's final output.
		for _, step := range s.steps[split:] {
			out, err = step.Invoke(pipe.ctx, out, childOpts...)
			if err != nil {
				finish(nil, err)
				return
			}
		}
		finish(out, nil)
	}()

	return stream, nil
}

// Batch runs the whole sequence once per input, concurrently.
func (s *Sequence) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, s, inputs, opts...)
}
