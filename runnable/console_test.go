package runnable

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleHandlerPrintsLifecycle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	trace := NewConsoleCallbackHandler(WithConsoleWriter(&buf))

	double := Func(func(ctx context.Context, input any) (any, error) {
		return input.(int) * 2, nil
	})
	_, err := double.Invoke(context.Background(), 21, WithCallbacks(trace))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "▶ func")
	assert.Contains(t, out, "✔ func")
	assert.Contains(t, out, "21")
	assert.Contains(t, out, "42")
}

func TestConsoleHandlerPrintsErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	trace := NewConsoleCallbackHandler(WithConsoleWriter(&buf))

	failing := Func(func(ctx context.Context, input any) (any, error) {
		return nil, errors.New("dial tcp: refused")
	})
	_, err := failing.Invoke(context.Background(), "x", WithCallbacks(trace))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "✘ func")
	assert.Contains(t, out, "dial tcp: refused")
	assert.NotContains(t, out, "✔")
}

func TestConsoleHandlerTokens(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	NewConsoleCallbackHandler(WithConsoleWriter(&quiet)).
		OnToken(context.Background(), RunInfo{}, "tok")
	assert.Empty(t, quiet.String(), "tokens are silent unless enabled")

	var buf bytes.Buffer
	NewConsoleCallbackHandler(WithConsoleWriter(&buf), WithConsoleTokens()).
		OnToken(context.Background(), RunInfo{}, "tok")
	assert.Contains(t, buf.String(), "tok")
}

func TestShortID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "run-1234", shortID("run-1234-5678-uuid"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestPreview(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", preview("a\n  b\tc"))

	long := preview(strings.Repeat("x", 200))
	assert.Len(t, []rune(long), 97)
	assert.True(t, strings.HasSuffix(long, "…"))
}
