package agent

import (
	"context"
	"fmt"

	"github.com/smallnest/runnablego/runnable"
	"github.com/smallnest/runnablego/tool"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
)

// Type selects the reasoning style of an agent.
type Type string

const (
	// OpenAIFunctions drives the loop through the model's native tool
	// calling. It is the default and the right choice for every model that
	// supports function calls.
	OpenAIFunctions Type = "openai-functions"

	// ZeroShotReact prompts the model to reason in the ReAct text format
	// and parses actions out of the completion. Use it for models without
	// native tool calling.
	ZeroShotReact Type = "zero-shot-react"
)

// Agent answers free-form questions by letting a chat model decide which
// tools to call and feeding the results back until the model produces a
// final answer. The reasoning loop itself comes from langchaingo; this type
// wraps it as a Runnable so an agent can be composed, batched and served
// like any other pipeline step.
type Agent struct {
	model         llms.Model
	tools         []tools.Tool
	typ           Type
	maxIterations int

	executor chains.Chain
}

var _ runnable.Runnable = (*Agent)(nil)

type Option func(*Agent)

// WithType selects the agent type. The default is OpenAIFunctions.
func WithType(t Type) Option {
	return func(a *Agent) {
		a.typ = t
	}
}

// WithMaxIterations caps how many model/tool rounds a single question may
// take before the run fails with agents.ErrNotFinished.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		a.maxIterations = n
	}
}

// WithRegistry replaces the tool list with the contents of a tool.Registry.
func WithRegistry(reg *tool.Registry) Option {
	return func(a *Agent) {
		a.tools = reg.Tools()
	}
}

// New creates an agent around model and agentTools.
func New(model llms.Model, agentTools []tools.Tool, opts ...Option) (*Agent, error) {
	a := &Agent{
		model: model,
		tools: agentTools,
		typ:   OpenAIFunctions,
	}

	for _, opt := range opts {
		opt(a)
	}

	var execOpts []agents.Option
	if a.maxIterations > 0 {
		execOpts = append(execOpts, agents.WithMaxIterations(a.maxIterations))
	}

	switch a.typ {
	case OpenAIFunctions:
		a.executor = agents.NewExecutor(
			agents.NewOpenAIFunctionsAgent(a.model, a.tools),
			execOpts...,
		)
	case ZeroShotReact:
		executor, err := agents.Initialize(
			a.model, a.tools, agents.ZeroShotReactDescription,
			execOpts...,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize agent: %w", err)
		}
		a.executor = executor
	default:
		return nil, fmt.Errorf("unknown agent type: %q", a.typ)
	}

	return a, nil
}

// Type returns the agent type selected at construction.
func (a *Agent) Type() Type {
	return a.typ
}

// Tools returns the tools the agent may call.
func (a *Agent) Tools() []tools.Tool {
	return a.tools
}

// Invoke answers a single question. The input may be a question string, a
// map carrying the question under "input", or an llms.PromptValue; the
// output is the final answer string.
func (a *Agent) Invoke(ctx context.Context, input any, opts ...runnable.Option) (any, error) {
	return runnable.Tracked(ctx, "agent", input, opts, func(ctx context.Context) (any, error) {
		question, err := questionFromInput(input)
		if err != nil {
			return nil, err
		}
		return chains.Run(ctx, a.executor, question)
	})
}

// Stream answers a single question and emits the final answer as one chunk.
// The reasoning loop is internal to langchaingo, so there is no per-token
// output to forward.
func (a *Agent) Stream(ctx context.Context, input any, opts ...runnable.Option) (*runnable.Stream, error) {
	return runnable.StreamInvoke(ctx, a, input, opts...)
}

// Batch answers every question concurrently.
func (a *Agent) Batch(ctx context.Context, inputs []any, opts ...runnable.Option) ([]any, error) {
	return runnable.BatchInvoke(ctx, a, inputs, opts...)
}

func questionFromInput(input any) (string, error) {
	switch v := input.(type) {
	case string:
		return v, nil
	case map[string]any:
		if q, ok := v["input"].(string); ok {
			return q, nil
		}
		return "", fmt.Errorf("%w: agent input map needs a string \"input\" key", runnable.ErrInvalidInput)
	case llms.PromptValue:
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: agent expects a string question, got %T", runnable.ErrInvalidInput, input)
}
