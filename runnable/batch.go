package runnable

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// BatchInvoke runs r.Invoke once per input under the standard Batch rules:
// one goroutine per input, WithMaxConcurrency honored, outputs in input
// order, first failure cancels the rest. It is the Batch implementation to
// reach for when writing a Runnable outside this package.
func BatchInvoke(ctx context.Context, r Runnable, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, r, inputs, opts...)
}

// batchInvoke is the shared Batch implementation: every input is invoked in
// its own goroutine, a semaphore enforces MaxConcurrency, and outputs keep
// input order. The first failure cancels the inputs still in flight and is
// returned as a *BatchError.
func batchInvoke(ctx context.Context, r Runnable, inputs []any, opts ...Option) ([]any, error) {
	if len(inputs) == 0 {
		return []any{}, nil
	}

	cfg := newConfig(opts...)
	childOpts := cfg.childOptions()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]any, len(inputs))
	errs := make([]error, len(inputs))

	var sem chan struct{}
	if cfg.MaxConcurrency > 0 {
		sem = make(chan struct{}, cfg.MaxConcurrency)
	}

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(idx int, in any) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					errs[idx] = fmt.Errorf("%w: %v", ErrPanic, rec)
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

			out, err := r.Invoke(ctx, in, childOpts...)
			if err != nil {
				errs[idx] = err
				cancel()
				return
			}
			results[idx] = out
		}(i, input)
	}
	wg.Wait()

	if idx, err := firstBatchError(errs); err != nil {
		return nil, &BatchError{Index: idx, Err: err}
	}
	return results, nil
}

// firstError returns the first non-nil error, preferring one that is not just
// the cancellation triggered by another failure.
func firstError(errs []error) error {
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		if !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return first
}

func firstBatchError(errs []error) (int, error) {
	firstIdx := -1
	for i, err := range errs {
		if err == nil {
			continue
		}
		if firstIdx < 0 {
			firstIdx = i
		}
		if !errors.Is(err, context.Canceled) {
			return i, err
		}
	}
	if firstIdx < 0 {
		return -1, nil
	}
	return firstIdx, errs[firstIdx]
}
