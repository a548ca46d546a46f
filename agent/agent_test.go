package agent

import (
	"context"
	"sync"
	"testing"

	"github.com/smallnest/runnablego/runnable"
	"github.com/smallnest/runnablego/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
)

// mockLLM implements llms.Model with scripted responses.
type mockLLM struct {
	mu        sync.Mutex
	responses []llms.ContentResponse
	callCount int
}

func (m *mockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.callCount >= len(m.responses) {
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: "No more responses"}},
		}, nil
	}
	resp := m.responses[m.callCount]
	m.callCount++
	return &resp, nil
}

func (m *mockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

// echoTool records the input it was called with and echoes it back.
type echoTool struct {
	lastInput string
}

func (e *echoTool) Name() string        { return "echo" }
func (e *echoTool) Description() string { return "Echoes the input back. Input is any string." }

func (e *echoTool) Call(ctx context.Context, input string) (string, error) {
	e.lastInput = input
	return "echo: " + input, nil
}

// toolCallResponse scripts a model turn that asks for the echo tool.
func toolCallResponse(input string) llms.ContentResponse {
	call := llms.ToolCall{
		ID:   "call-1",
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      "echo",
			Arguments: `{"__arg1": "` + input + `"}`,
		},
	}
	return llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{call},
			FuncCall:  call.FunctionCall,
		}},
	}
}

func TestAgentAnswersDirectly(t *testing.T) {
	model := &mockLLM{
		responses: []llms.ContentResponse{
			{Choices: []*llms.ContentChoice{{Content: "Paris is the capital of France."}}},
		},
	}

	a, err := New(model, nil)
	require.NoError(t, err)
	assert.Equal(t, OpenAIFunctions, a.Type())

	answer, err := a.Invoke(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", answer)
}

func TestAgentCallsTool(t *testing.T) {
	echo := &echoTool{}
	model := &mockLLM{
		responses: []llms.ContentResponse{
			toolCallResponse("hello"),
			{Choices: []*llms.ContentChoice{{Content: "The tool said: echo: hello"}}},
		},
	}

	a, err := New(model, []tools.Tool{echo}, WithMaxIterations(3))
	require.NoError(t, err)

	answer, err := a.Invoke(context.Background(), "Use the echo tool on 'hello'")
	require.NoError(t, err)
	assert.Equal(t, "The tool said: echo: hello", answer)
	assert.Equal(t, "hello", echo.lastInput)
}

func TestAgentZeroShotReact(t *testing.T) {
	model := &mockLLM{
		responses: []llms.ContentResponse{
			{Choices: []*llms.ContentChoice{{Content: "I know this one.\nFinal Answer: Paris"}}},
		},
	}

	a, err := New(model, []tools.Tool{&echoTool{}}, WithType(ZeroShotReact))
	require.NoError(t, err)
	assert.Equal(t, ZeroShotReact, a.Type())

	answer, err := a.Invoke(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)
}

func TestAgentMaxIterations(t *testing.T) {
	model := &mockLLM{
		responses: []llms.ContentResponse{
			toolCallResponse("one"),
			toolCallResponse("two"),
		},
	}

	a, err := New(model, []tools.Tool{&echoTool{}}, WithMaxIterations(2))
	require.NoError(t, err)

	_, err = a.Invoke(context.Background(), "loop forever")
	require.Error(t, err)
	assert.ErrorIs(t, err, agents.ErrNotFinished)
}

func TestAgentInputCoercion(t *testing.T) {
	model := &mockLLM{
		responses: []llms.ContentResponse{
			{Choices: []*llms.ContentChoice{{Content: "42"}}},
		},
	}

	a, err := New(model, nil)
	require.NoError(t, err)

	answer, err := a.Invoke(context.Background(), map[string]any{"input": "What is 6 * 7?"})
	require.NoError(t, err)
	assert.Equal(t, "42", answer)

	_, err = a.Invoke(context.Background(), map[string]any{"question": "wrong key"})
	require.Error(t, err)
	assert.ErrorIs(t, err, runnable.ErrInvalidInput)

	_, err = a.Invoke(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, runnable.ErrInvalidInput)
}

func TestAgentUnknownType(t *testing.T) {
	_, err := New(&mockLLM{}, nil, WithType("bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown agent type")
}

func TestAgentStream(t *testing.T) {
	model := &mockLLM{
		responses: []llms.ContentResponse{
			{Choices: []*llms.ContentChoice{{Content: "streamed answer"}}},
		},
	}

	a, err := New(model, nil)
	require.NoError(t, err)

	stream, err := a.Stream(context.Background(), "question")
	require.NoError(t, err)

	text, err := stream.CollectText()
	require.NoError(t, err)
	assert.Equal(t, "streamed answer", text)
}

func TestAgentBatch(t *testing.T) {
	model := &mockLLM{
		responses: []llms.ContentResponse{
			{Choices: []*llms.ContentChoice{{Content: "same answer"}}},
			{Choices: []*llms.ContentChoice{{Content: "same answer"}}},
			{Choices: []*llms.ContentChoice{{Content: "same answer"}}},
		},
	}

	a, err := New(model, nil)
	require.NoError(t, err)

	answers, err := a.Batch(context.Background(),
		[]any{"q1", "q2", "q3"},
		runnable.WithMaxConcurrency(2),
	)
	require.NoError(t, err)
	assert.Equal(t, []any{"same answer", "same answer", "same answer"}, answers)
}

func TestAgentWithRegistry(t *testing.T) {
	reg := tool.NewRegistry()
	reg.Register(&echoTool{})

	a, err := New(&mockLLM{}, nil, WithRegistry(reg))
	require.NoError(t, err)

	require.Len(t, a.Tools(), 1)
	assert.Equal(t, "echo", a.Tools()[0].Name())
}
