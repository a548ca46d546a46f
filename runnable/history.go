package runnable

import (
	"context"
	"fmt"

	"github.com/smallnest/runnablego/history"
	"github.com/tmc/langchaingo/llms"
)

// History wraps a runnable so each call sees the conversation so far and
// each successful exchange is persisted. The wrapped runnable's input must be
// a map[string]any; prior turns are injected under the history key for a
// MessagesPlaceholder in the prompt to pick up:
//
//	chain := runnable.WithMessageHistory(inner, store)
//	out, err := chain.Invoke(ctx,
//		map[string]any{"question": "what did I just ask?"},
//		runnable.WithSessionID("user-42"))
type History struct {
	inner      Runnable
	store      history.Store
	inputKey   string
	historyKey string
	outputText func(any) (string, error)
}

// HistoryOption configures a History wrapper.
type HistoryOption func(*History)

// WithInputKey sets the input map key holding the user's message. Default
// "question".
func WithInputKey(key string) HistoryOption {
	return func(h *History) {
		h.inputKey = key
	}
}

// WithHistoryKey sets the input map key the prior turns are injected under.
// Default "history".
func WithHistoryKey(key string) HistoryOption {
	return func(h *History) {
		h.historyKey = key
	}
}

// WithOutputMessageFunc overrides how the wrapped runnable's output is
// reduced to the text stored as the assistant turn. The default handles
// strings and model responses.
func WithOutputMessageFunc(fn func(output any) (string, error)) HistoryOption {
	return func(h *History) {
		h.outputText = fn
	}
}

// WithMessageHistory wraps inner with conversation memory backed by store.
func WithMessageHistory(inner Runnable, store history.Store, opts ...HistoryOption) *History {
	h := &History{
		inner:      inner,
		store:      store,
		inputKey:   "question",
		historyKey: "history",
		outputText: outputAsText,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Invoke loads the session's turns, injects them into the input, runs the
// wrapped runnable, and persists the exchange on success.
func (h *History) Invoke(ctx context.Context, input any, opts ...Option) (any, error) {
	cfg := newConfig(opts...)
	return runTracked(ctx, cfg, "history", input, func(ctx context.Context) (any, error) {
		values, sessionID, err := h.prepare(ctx, cfg, input)
		if err != nil {
			return nil, err
		}

		out, err := h.inner.Invoke(ctx, values, cfg.childOptions()...)
		if err != nil {
			return nil, err
		}

		if err := h.record(ctx, sessionID, values, out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Stream streams the wrapped runnable with history injected. The exchange is
// persisted once the inner stream completes successfully.
func (h *History) Stream(ctx context.Context, input any, opts ...Option) (*Stream, error) {
	cfg := newConfig(opts...)
	values, sessionID, err := h.prepare(ctx, cfg, input)
	if err != nil {
		return nil, err
	}

	src, err := h.inner.Stream(ctx, values, cfg.childOptions()...)
	if err != nil {
		return nil, err
	}

	pipe, stream := newStreamPipe(ctx)
	go func() {
		for chunk := range src.Chunks {
			if !pipe.send(chunk) {
				src.Cancel()
				pipe.finish(nil, pipe.ctx.Err())
				return
			}
		}
		out, err := src.Wait()
		if err != nil {
			pipe.finish(nil, err)
			return
		}
		if err := h.record(pipe.ctx, sessionID, values, out); err != nil {
			pipe.finish(nil, err)
			return
		}
		pipe.finish(out, nil)
	}()
	return stream, nil
}

// Batch runs every input concurrently. Inputs share the call's session, so
// turn order across inputs follows completion order.
func (h *History) Batch(ctx context.Context, inputs []any, opts ...Option) ([]any, error) {
	return batchInvoke(ctx, h, inputs, opts...)
}

// prepare resolves the session, loads its turns and builds the inner input.
func (h *History) prepare(ctx context.Context, cfg *Config, input any) (map[string]any, string, error) {
	sessionID := cfg.SessionID
	if sessionID == "" {
		return nil, "", ErrSessionIDRequired
	}

	base, ok := input.(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("%w: history wrapper expects map[string]any, got %T", ErrInvalidInput, input)
	}

	stored, err := h.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load history: %w", err)
	}

	values := make(map[string]any, len(base)+1)
	for k, v := range base {
		values[k] = v
	}
	values[h.historyKey] = history.ChatMessages(stored)
	return values, sessionID, nil
}

// record persists the human input and assistant output as two turns.
func (h *History) record(ctx context.Context, sessionID string, values map[string]any, output any) error {
	question := fmt.Sprintf("%v", values[h.inputKey])
	answer, err := h.outputText(output)
	if err != nil {
		return err
	}
	err = h.store.AddMessages(ctx, sessionID, []history.Message{
		history.NewHumanMessage(question),
		history.NewAIMessage(answer),
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func outputAsText(output any) (string, error) {
	switch v := output.(type) {
	case string:
		return v, nil
	case *llms.ContentResponse:
		return contentText(v)
	default:
		return fmt.Sprintf("%v", v), nil
	}
}
