package runnable

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Parallel runs several runnables on the same input concurrently and collects
// their outputs into a map keyed by branch name:
//
//	fanout := runnable.NewParallel(map[string]runnable.Runnable{
//		"joke": jokeChain,
//		"poem": poemChain,
//	})
//	out, err := fanout.Invoke(ctx, map[string]any{"topic": "bears"})
//	// out is map[string]any{"joke": ..., "poem": ...}
type Parallel struct {
	branches map[string]Runnable
	keys     []string
}

// NewParallel builds a Parallel from named branches.
func NewParallel(branches map[string]Runnable) *Parallel {
	keys := make([]string, 0, len(branches))
	for k := range branches {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Parallel{branches: branches, keys: keys}
}

// Invoke runs every branch concurrently on the same input. The first branch
// error cancels the remaining branches and is returned with the branch name
// attached. WithMaxConcurrency caps how many branches run at once.
func (p *Parallel) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	cfg := newConfig(opts...)
	return runTracked(ctx, cfg, "parallel", input, func(ctx context.Context) (any, error) {
		if len(p.keys) == 0 {
			return map[string]any{}, nil
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		childOpts := cfg.childOptions()
		results := make([]any, len(p.keys))
		errs := make([]error, len(p.keys))

		var sem chan struct{}
		if cfg.MaxConcurrency > 0 {
			sem = make(chan struct{}, cfg.MaxConcurrency)
		}

		var wg sync.WaitGroup
		for i, key := range p.keys {
			wg.Add(1)
			go func(idx int, name string, branch Runnable) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						errs[idx] = fmt.Errorf("branch %s: %w: %v", name, ErrPanic, r)
						cancel()
					}
				}()

				if sem != nil {
					select {
					case sem <- struct{}{}:
						defer func() { <-sem }()
					case <-ctx.Done():
						errs[idx] = ctx.Err()
						return
					}
				}

				out, err := branch.Invoke(ctx, input, childOpts...)
				if err != nil {
					errs[idx] = fmt.Errorf("branch %s: %w", name, err)
					cancel()
					return
				}
				results[idx] = out
			}(i, key, p.branches[key])
		}
		wg.Wait()

		if err := firstError(errs); err != nil {
			return nil, err
		}

		out := make(map[string]any, len(p.keys))
		for i, key := range p.keys {
			out[key] = results[i]
		}
		return out, nil
	})
}

// Stream runs every branch's stream concurrently. Chunks from all branches
// are interleaved on the combined stream with Branch set to the producing
// key; the final result is the same map Invoke returns. WithMaxConcurrency
// caps how many branches stream at once, same as on the invoke path.
func (p *Parallel) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	cfg := newConfig(opts...)
	pipe, stream := newStreamPipe(ctx)

	go func() {
		if len(p.keys) == 0 {
			pipe.finish(map[string]any{}, nil)
			return
		}

		childOpts := cfg.childOptions()
		results := make([]any, len(p.keys))
		errs := make([]error, len(p.keys))

		var sem chan struct{}
		if cfg.MaxConcurrency > 0 {
			sem = make(chan struct{}, cfg.MaxConcurrency)
		}

		var wg sync.WaitGroup
		for i, key := range p.keys {
			wg.Add(1)
			go func(idx int, name string, branch Runnable) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						errs[idx] = fmt.Errorf("branch %s: %w: %v", name, ErrPanic, r)
						pipe.cancel()
					}
				}()

				if sem != nil {
					select {
					case sem <- struct{}{}:
						defer func() { <-sem }()
					case <-pipe.ctx.Done():
						errs[idx] = pipe.ctx.Err()
						return
					}
				}

				src, err := branch.Stream(pipe.ctx, input, childOpts...)
				if err != nil {
					errs[idx] = fmt.Errorf("branch %s: %w", name, err)
					pipe.cancel()
					return
				}
				for chunk := range src.Chunks {
					chunk.Branch = name
					if !pipe.send(chunk) {
						src.Cancel()
						return
					}
				}
				out, err := src.Wait()
				if err != nil {
					errs[idx] = fmt.Errorf("branch %s: %w", name, err)
					pipe.cancel()
					return
				}
				results[idx] = out
			}(i, key, p.branches[key])
		}
		wg.Wait()

		if err := firstError(errs); err != nil {
			pipe.finish(nil, err)
			return
		}

		out := make(map[string]any, len(p.keys))
		for i, key := range p.keys {
			out[key] = results[i]
		}
		pipe.finish(out, nil)
	}()

	return stream, nil
}

// Batch fans the whole parallel map over every input.
func (p *Parallel) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, p, inputs, opts...)
}
