package runnable

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

// Prompt adapts a langchaingo prompt template to the Runnable interface. Its
// input is the map of template variables and its output is an
// llms.PromptValue ready for a chat model:
//
//	tmpl := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
//		prompts.NewSystemMessagePromptTemplate("You are a comedian.", nil),
//		prompts.NewHumanMessagePromptTemplate("Tell me a joke about {{.topic}}.", []string{"topic"}),
//	})
//	chain := runnable.NewSequence(runnable.NewPrompt(tmpl), model)
type Prompt struct {
	template prompts.FormatPrompter
}

// NewPrompt wraps a prompt template. Both prompts.PromptTemplate and
// prompts.ChatPromptTemplate satisfy the FormatPrompter interface.
func NewPrompt(template prompts.FormatPrompter) *Prompt {
	return &Prompt{template: template}
}

// Invoke formats the template. The input must be a map[string]any of template
// variables; nil is accepted for templates without variables.
func (p *Prompt) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	cfg := newConfig(opts...)
	return runTracked(ctx, cfg, "prompt", input, func(ctx context.Context) (any, error) {
		values, err := promptValues(input)
		if err != nil {
			return nil, err
		}
		return p.template.FormatPrompt(values)
	})
}

// Stream formats the template and emits the prompt value as a single chunk.
func (p *Prompt) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	return streamOnce(ctx, p, input, opts...)
}

// Batch formats the template once per input, concurrently.
func (p *Prompt) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, p, inputs, opts...)
}

func promptValues(input any) (map[string]any, error) {
	switch v := input.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: prompt expects map[string]any, got %T", ErrInvalidInput, input)
	}
}
