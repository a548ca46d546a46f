package runnable

import (
	"context"
	"errors"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
)

// OpenAIChatModel exposes the Runnable interface directly over the
// sashabaranov OpenAI client, for callers already holding one or talking to
// an OpenAI-compatible endpoint. Responses are normalized to
// *llms.ContentResponse so the same parsers work behind either model type:
//
//	client := openai.NewClient(os.Getenv("OPENAI_API_KEY"))
//	model := runnable.NewOpenAIChatModel(client, openai.GPT4oMini)
type OpenAIChatModel struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// OpenAIOption configures an OpenAIChatModel.
type OpenAIOption func(*OpenAIChatModel)

// WithOpenAITemperature sets the sampling temperature for every request.
func WithOpenAITemperature(t float32) OpenAIOption {
	return func(m *OpenAIChatModel) {
		m.temperature = t
	}
}

// WithOpenAIMaxTokens caps the completion length for every request.
func WithOpenAIMaxTokens(n int) OpenAIOption {
	return func(m *OpenAIChatModel) {
		m.maxTokens = n
	}
}

// NewOpenAIChatModel wraps an OpenAI client and model name.
func NewOpenAIChatModel(client *openai.Client, model string, opts ...OpenAIOption) *OpenAIChatModel {
	m := &OpenAIChatModel{
		client: client,
		model:  model,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Invoke sends a chat completion request and returns the response as
// *llms.ContentResponse.
func (m *OpenAIChatModel) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	cfg := newConfig(opts...)
	return runTracked(ctx, cfg, "openai_chat_model", input, func(ctx context.Context) (any, error) {
		req, err := m.request(input)
		if err != nil {
			return nil, err
		}
		resp, err := m.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, ErrNoChoices
		}
		choice := resp.Choices[0]
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{
				Content:    choice.Message.Content,
				StopReason: string(choice.FinishReason),
			}},
		}, nil
	})
}

// Stream sends a streaming chat completion request, emitting each delta as a
// string chunk. The final result is the assembled *llms.ContentResponse.
func (m *OpenAIChatModel) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	cfg := newConfig(opts...)
	req, err := m.request(input)
	if err != nil {
		return nil, err
	}

	pipe, stream := newStreamPipe(ctx)
	info := cfg.runInfo("openai_chat_model")
	cfg.notifyStart(ctx, info, input)
	start := time.Now()

	go func() {
		sse, err := m.client.CreateChatCompletionStream(pipe.ctx, req)
		if err != nil {
			cfg.notifyError(pipe.ctx, info, err)
			pipe.finish(nil, err)
			return
		}
		defer sse.Close()

		var content []byte
		stopReason := ""
		for {
			resp, err := sse.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				cfg.notifyError(pipe.ctx, info, err)
				pipe.finish(nil, err)
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			choice := resp.Choices[0]
			if choice.FinishReason != "" {
				stopReason = string(choice.FinishReason)
			}
			if choice.Delta.Content == "" {
				continue
			}
			content = append(content, choice.Delta.Content...)
			cfg.notifyToken(pipe.ctx, info, choice.Delta.Content)
			if !pipe.send(Chunk{Value: choice.Delta.Content}) {
				pipe.finish(nil, pipe.ctx.Err())
				return
			}
		}

		out := &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{
				Content:    string(content),
				StopReason: stopReason,
			}},
		}
		cfg.notifyEnd(pipe.ctx, info, out, time.Since(start))
		pipe.finish(out, nil)
	}()

	return stream, nil
}

// Batch sends every input concurrently.
func (m *OpenAIChatModel) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, m, inputs, opts...)
}

func (m *OpenAIChatModel) request(input any) (openai.ChatCompletionRequest, error) {
	messages, err := MessagesFromInput(input)
	if err != nil {
		return openai.ChatCompletionRequest{}, err
	}
	req := openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: m.temperature,
		MaxTokens:   m.maxTokens,
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openaiRole(msg.Role),
			Content: messageText(msg),
		})
	}
	return req, nil
}

func openaiRole(role llms.ChatMessageType) string {
	switch role {
	case llms.ChatMessageTypeAI:
		return openai.ChatMessageRoleAssistant
	case llms.ChatMessageTypeSystem:
		return openai.ChatMessageRoleSystem
	case llms.ChatMessageTypeTool:
		return openai.ChatMessageRoleTool
	case llms.ChatMessageTypeFunction:
		return openai.ChatMessageRoleFunction
	default:
		return openai.ChatMessageRoleUser
	}
}

// messageText joins the text parts of a message.
func messageText(msg llms.MessageContent) string {
	text := ""
	for _, part := range msg.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			text += tc.Text
		}
	}
	return text
}
