package runnable

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelInvokeCollectsBranches(t *testing.T) {
	t.Parallel()

	fanout := NewParallel(map[string]Runnable{
		"double": Func(func(ctx context.Context, input any) (any, error) {
			return input.(int) * 2, nil
		}),
		"triple": Func(func(ctx context.Context, input any) (any, error) {
			return input.(int) * 3, nil
		}),
	})

	out, err := fanout.Invoke(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"double": 10, "triple": 15}, out)
}

func TestParallelInvokeEmpty(t *testing.T) {
	t.Parallel()

	fanout := NewParallel(map[string]Runnable{})
	out, err := fanout.Invoke(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}

func TestParallelInvokeNamesFailingBranch(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fanout := NewParallel(map[string]Runnable{
		"good": Passthrough(),
		"bad": Func(func(ctx context.Context, input any) (any, error) {
			return nil, boom
		}),
	})

	_, err := fanout.Invoke(context.Background(), 1)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "branch bad:")
}

func TestParallelInvokeCancelsSiblingsOnFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fanout := NewParallel(map[string]Runnable{
		"fails": Func(func(ctx context.Context, input any) (any, error) {
			return nil, boom
		}),
		"slow": Func(func(ctx context.Context, input any) (any, error) {
			select {
			case <-time.After(5 * time.Second):
				return "done", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}),
	})

	start := time.Now()
	_, err := fanout.Invoke(context.Background(), 1)
	require.ErrorIs(t, err, boom, "the real failure wins over the cancellation it caused")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestParallelInvokeRecoversPanic(t *testing.T) {
	t.Parallel()

	fanout := NewParallel(map[string]Runnable{
		"explode": Func(func(ctx context.Context, input any) (any, error) {
			panic("kaboom")
		}),
		"calm": Passthrough(),
	})

	_, err := fanout.Invoke(context.Background(), 1)
	require.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "branch explode")
	assert.Contains(t, err.Error(), "kaboom")
}

func TestParallelInvokeMaxConcurrency(t *testing.T) {
	t.Parallel()

	var current, peak int32
	branch := Func(func(ctx context.Context, input any) (any, error) {
		cur := atomic.AddInt32(&current, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return input, nil
	})

	fanout := NewParallel(map[string]Runnable{
		"a": branch, "b": branch, "c": branch, "d": branch,
	})

	_, err := fanout.Invoke(context.Background(), 1, WithMaxConcurrency(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&peak))
}

// The cap applies to the streaming path too, not just Invoke.
func TestParallelStreamMaxConcurrency(t *testing.T) {
	t.Parallel()

	var current, peak int32
	branch := Func(func(ctx context.Context, input any) (any, error) {
		cur := atomic.AddInt32(&current, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return input, nil
	})

	fanout := NewParallel(map[string]Runnable{
		"a": branch, "b": branch, "c": branch, "d": branch,
	})

	stream, err := fanout.Stream(context.Background(), 1, WithMaxConcurrency(1))
	require.NoError(t, err)
	_, err = stream.Wait()
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&peak))
}

func TestParallelStreamTagsChunksWithBranch(t *testing.T) {
	t.Parallel()

	fanout := NewParallel(map[string]Runnable{
		"greet": newTokenEmitter("hello there", "hel", "lo"),
		"count": Func(func(ctx context.Context, input any) (any, error) {
			return 3, nil
		}),
	})

	stream, err := fanout.Stream(context.Background(), nil)
	require.NoError(t, err)

	byBranch := map[string][]any{}
	for chunk := range stream.Chunks {
		require.NotEmpty(t, chunk.Branch)
		byBranch[chunk.Branch] = append(byBranch[chunk.Branch], chunk.Value)
	}
	out, err := stream.Wait()
	require.NoError(t, err)

	assert.Equal(t, []any{"hel", "lo"}, byBranch["greet"])
	assert.Equal(t, []any{3}, byBranch["count"])
	assert.Equal(t, map[string]any{"greet": "hello there", "count": 3}, out)
}

func TestParallelStreamReportsBranchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	bad := newTokenEmitter(nil, "tick")
	bad.err = boom

	fanout := NewParallel(map[string]Runnable{"bad": bad})

	stream, err := fanout.Stream(context.Background(), nil)
	require.NoError(t, err)

	_, err = stream.Wait()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "branch bad:")
}

func TestParallelBatch(t *testing.T) {
	t.Parallel()

	fanout := NewParallel(map[string]Runnable{
		"id": Passthrough(),
	})

	outs, err := fanout.Batch(context.Background(), []any{1, 2})
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, map[string]any{"id": 1}, outs[0])
	assert.Equal(t, map[string]any{"id": 2}, outs[1])
}
