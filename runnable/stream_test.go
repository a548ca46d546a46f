package runnable

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenEmitter streams a fixed set of string chunks and finishes with a
// final output, standing in for a chat model in streaming tests. If err is
// set the stream fails after the tokens.
type tokenEmitter struct {
	tokens   []string
	final    any
	err      error
	gotInput any
}

func newTokenEmitter(final any, tokens ...string) *tokenEmitter {
	return &tokenEmitter{tokens: tokens, final: final}
}

func (e *tokenEmitter) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	e.gotInput = input
	if e.err != nil {
		return nil, e.err
	}
	return e.final, nil
}

func (e *tokenEmitter) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	e.gotInput = input
	pipe, stream := newStreamPipe(ctx)
	go func() {
		for _, tok := range e.tokens {
			if !pipe.send(Chunk{Value: tok}) {
				pipe.finish(nil, pipe.ctx.Err())
				return
			}
		}
		if e.err != nil {
			pipe.finish(nil, e.err)
			return
		}
		pipe.finish(e.final, nil)
	}()
	return stream, nil
}

func (e *tokenEmitter) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, e, inputs, opts...)
}

func TestStreamWaitDiscardsChunks(t *testing.T) {
	t.Parallel()

	e := newTokenEmitter("final", "a", "b", "c")
	stream, err := e.Stream(context.Background(), nil)
	require.NoError(t, err)

	out, err := stream.Wait()
	require.NoError(t, err)
	assert.Equal(t, "final", out)

	// Done is closed once the result has been delivered.
	select {
	case <-stream.Done:
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Wait")
	}
}

func TestStreamCollectText(t *testing.T) {
	t.Parallel()

	e := newTokenEmitter("ignored", "Hel", "lo", " world")
	stream, err := e.Stream(context.Background(), nil)
	require.NoError(t, err)

	text, err := stream.CollectText()
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestStreamCollectTextFormatsNonStrings(t *testing.T) {
	t.Parallel()

	answer := Func(func(ctx context.Context, input any) (any, error) {
		return 42, nil
	})
	stream, err := answer.Stream(context.Background(), nil)
	require.NoError(t, err)

	text, err := stream.CollectText()
	require.NoError(t, err)
	assert.Equal(t, "42", text)
}

func TestStreamCollectTextKeepsPartialOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	e := newTokenEmitter(nil, "partial ")
	e.err = boom

	stream, err := e.Stream(context.Background(), nil)
	require.NoError(t, err)

	text, err := stream.CollectText()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "partial ", text)
}

func TestStreamCancelStopsProducer(t *testing.T) {
	t.Parallel()

	// Enough tokens to overflow the buffer so the producer must block.
	tokens := make([]string, 10*streamBufferSize)
	for i := range tokens {
		tokens[i] = "x"
	}
	e := newTokenEmitter("never", tokens...)

	stream, err := e.Stream(context.Background(), nil)
	require.NoError(t, err)

	<-stream.Chunks
	stream.Cancel()

	_, err = stream.Wait()
	require.ErrorIs(t, err, context.Canceled)
}

func TestStreamInvokeEmitsOutputOnce(t *testing.T) {
	t.Parallel()

	upper := Func(func(ctx context.Context, input any) (any, error) {
		return strings.ToUpper(input.(string)), nil
	})

	stream, err := StreamInvoke(context.Background(), upper, "shout")
	require.NoError(t, err)

	var chunks []any
	for chunk := range stream.Chunks {
		chunks = append(chunks, chunk.Value)
	}
	out, err := stream.Wait()
	require.NoError(t, err)

	assert.Equal(t, []any{"SHOUT"}, chunks)
	assert.Equal(t, "SHOUT", out)
}
