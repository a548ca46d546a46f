package runnable

import (
	"context"
	"testing"

	"github.com/smallnest/runnablego/history/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// historyEcho answers with the question and records the injected turns.
func historyEcho(seen *[][]llms.ChatMessage, historyKey string) Func {
	return func(ctx context.Context, input any) (any, error) {
		values := input.(map[string]any)
		turns, _ := values[historyKey].([]llms.ChatMessage)
		*seen = append(*seen, turns)
		return "echo: " + values["question"].(string), nil
	}
}

func TestHistoryRequiresSessionID(t *testing.T) {
	t.Parallel()

	chain := WithMessageHistory(Passthrough(), memory.NewStore())
	_, err := chain.Invoke(context.Background(), map[string]any{"question": "hi"})
	require.ErrorIs(t, err, ErrSessionIDRequired)
}

func TestHistoryRejectsNonMapInput(t *testing.T) {
	t.Parallel()

	chain := WithMessageHistory(Passthrough(), memory.NewStore())
	_, err := chain.Invoke(context.Background(), "plain string",
		WithSessionID("s1"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestHistoryInjectsPriorTurns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	var seen [][]llms.ChatMessage
	chain := WithMessageHistory(historyEcho(&seen, "history"), store)

	out, err := chain.Invoke(ctx, map[string]any{"question": "first"},
		WithSessionID("s1"))
	require.NoError(t, err)
	assert.Equal(t, "echo: first", out)

	out, err = chain.Invoke(ctx, map[string]any{"question": "second"},
		WithSessionID("s1"))
	require.NoError(t, err)
	assert.Equal(t, "echo: second", out)

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0], "first call starts with an empty conversation")

	require.Len(t, seen[1], 2, "second call sees the first exchange")
	human, ok := seen[1][0].(llms.HumanChatMessage)
	require.True(t, ok)
	assert.Equal(t, "first", human.Content)
	ai, ok := seen[1][1].(llms.AIChatMessage)
	require.True(t, ok)
	assert.Equal(t, "echo: first", ai.Content)

	msgs, err := store.Messages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, llms.ChatMessageTypeHuman, msgs[2].Role)
	assert.Equal(t, "second", msgs[2].Content)
}

func TestHistorySessionsAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	var seen [][]llms.ChatMessage
	chain := WithMessageHistory(historyEcho(&seen, "history"), store)

	_, err := chain.Invoke(ctx, map[string]any{"question": "alice asks"},
		WithSessionID("alice"))
	require.NoError(t, err)

	_, err = chain.Invoke(ctx, map[string]any{"question": "bob asks"},
		WithSessionID("bob"))
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Empty(t, seen[1], "bob must not see alice's turns")

	aliceMsgs, err := store.Messages(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, aliceMsgs, 2)
}

func TestHistoryStreamPersistsExchange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	var seen [][]llms.ChatMessage
	chain := WithMessageHistory(historyEcho(&seen, "history"), store)

	stream, err := chain.Stream(ctx, map[string]any{"question": "hi"},
		WithSessionID("s1"))
	require.NoError(t, err)

	out, err := stream.Wait()
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)

	msgs, err := store.Messages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "echo: hi", msgs[1].Content)
}

func TestHistoryCustomKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	var gotTurns any
	inner := Func(func(ctx context.Context, input any) (any, error) {
		values := input.(map[string]any)
		gotTurns = values["turns"]
		return map[string]any{"answer": "pong"}, nil
	})

	chain := WithMessageHistory(inner, store,
		WithInputKey("msg"),
		WithHistoryKey("turns"),
		WithOutputMessageFunc(func(output any) (string, error) {
			return output.(map[string]any)["answer"].(string), nil
		}))

	_, err := chain.Invoke(ctx, map[string]any{"msg": "ping"}, WithSessionID("s1"))
	require.NoError(t, err)
	assert.NotNil(t, gotTurns)

	msgs, err := store.Messages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "ping", msgs[0].Content)
	assert.Equal(t, "pong", msgs[1].Content)
}

func TestHistoryDefaultOutputText(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	inner := Func(func(ctx context.Context, input any) (any, error) {
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: "model answer"}},
		}, nil
	})

	chain := WithMessageHistory(inner, store)
	_, err := chain.Invoke(ctx, map[string]any{"question": "q"}, WithSessionID("s1"))
	require.NoError(t, err)

	msgs, err := store.Messages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "model answer", msgs[1].Content)
}
