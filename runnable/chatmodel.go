package runnable

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// ChatModel adapts any langchaingo chat model to the Runnable interface. The
// output of Invoke is the model's *llms.ContentResponse; Stream emits string
// tokens as the model produces them.
//
// Call options passed to NewChatModel are bound to every request, the way a
// model is configured once and reused across chains:
//
//	llm, _ := openai.New()
//	model := runnable.NewChatModel(llm, llms.WithTemperature(0.7))
type ChatModel struct {
	model llms.Model
	bound []llms.CallOption
}

// NewChatModel wraps a langchaingo model with optional bound call options.
func NewChatModel(model llms.Model, bound ...llms.CallOption) *ChatModel {
	return &ChatModel{model: model, bound: bound}
}

// Invoke sends the input to the model and returns the full response.
func (m *ChatModel) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	cfg := newConfig(opts...)
	return runTracked(ctx, cfg, "chat_model", input, func(ctx context.Context) (any, error) {
		messages, err := MessagesFromInput(input)
		if err != nil {
			return nil, err
		}
		return m.model.GenerateContent(ctx, messages, m.bound...)
	})
}

// Stream sends the input to the model with streaming enabled. Each token
// arrives as a string chunk; the final result is the full
// *llms.ContentResponse.
func (m *ChatModel) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	cfg := newConfig(opts...)
	messages, err := MessagesFromInput(input)
	if err != nil {
		return nil, err
	}

	pipe, stream := newStreamPipe(ctx)
	info := cfg.runInfo("chat_model")
	cfg.notifyStart(ctx, info, input)
	start := time.Now()

	go func() {
		callOpts := make([]llms.CallOption, 0, len(m.bound)+1)
		callOpts = append(callOpts, m.bound...)
		callOpts = append(callOpts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			token := string(chunk)
			cfg.notifyToken(ctx, info, token)
			if !pipe.send(Chunk{Value: token}) {
				return pipe.ctx.Err()
			}
			return nil
		}))

		resp, err := m.model.GenerateContent(pipe.ctx, messages, callOpts...)
		if err != nil {
			cfg.notifyError(pipe.ctx, info, err)
			pipe.finish(nil, err)
			return
		}
		cfg.notifyEnd(pipe.ctx, info, resp, time.Since(start))
		pipe.finish(resp, nil)
	}()

	return stream, nil
}

// Batch sends every input to the model concurrently.
func (m *ChatModel) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, m, inputs, opts...)
}

// MessagesFromInput coerces the inputs a chat model accepts into langchaingo
// message content. Accepted types: llms.PromptValue, []llms.MessageContent,
// []llms.ChatMessage, and string (treated as a single human message).
func MessagesFromInput(input any) ([]llms.MessageContent, error) {
	switch v := input.(type) {
	case llms.PromptValue:
		return chatMessagesToContent(v.Messages()), nil
	case []llms.MessageContent:
		return v, nil
	case []llms.ChatMessage:
		return chatMessagesToContent(v), nil
	case llms.ChatMessage:
		return chatMessagesToContent([]llms.ChatMessage{v}), nil
	case string:
		return []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, v)}, nil
	default:
		return nil, fmt.Errorf("%w: chat model expects a prompt value, messages or string, got %T", ErrInvalidInput, input)
	}
}

func chatMessagesToContent(messages []llms.ChatMessage) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		out = append(out, llms.TextParts(msg.GetType(), msg.GetContent()))
	}
	return out
}

// contentText extracts the text of the first choice of a model response.
func contentText(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Content, nil
}
