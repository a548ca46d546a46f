package runnable

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConsoleCallbackHandler prints run lifecycle events to a terminal, one
// styled line per event. It is meant for development transcripts:
//
//	trace := runnable.NewConsoleCallbackHandler()
//	chain.Invoke(ctx, input, runnable.WithCallbacks(trace))
type ConsoleCallbackHandler struct {
	mu         sync.Mutex
	out        io.Writer
	showTokens bool

	startStyle lipgloss.Style
	endStyle   lipgloss.Style
	errStyle   lipgloss.Style
	dimStyle   lipgloss.Style
}

// ConsoleOption configures a ConsoleCallbackHandler.
type ConsoleOption func(*ConsoleCallbackHandler)

// WithConsoleWriter directs output somewhere other than stdout.
func WithConsoleWriter(w io.Writer) ConsoleOption {
	return func(h *ConsoleCallbackHandler) {
		h.out = w
	}
}

// WithConsoleTokens also prints each streamed token as it arrives.
func WithConsoleTokens() ConsoleOption {
	return func(h *ConsoleCallbackHandler) {
		h.showTokens = true
	}
}

// NewConsoleCallbackHandler creates a handler writing styled lines to stdout.
func NewConsoleCallbackHandler(opts ...ConsoleOption) *ConsoleCallbackHandler {
	h := &ConsoleCallbackHandler{
		out:        os.Stdout,
		startStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
		endStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd7ff")),
		errStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f")),
		dimStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ CallbackHandler = (*ConsoleCallbackHandler)(nil)

// OnRunStart prints the runnable kind and a preview of its input.
func (h *ConsoleCallbackHandler) OnRunStart(_ context.Context, info RunInfo, input any) {
	h.printf("%s %s %s\n",
		h.startStyle.Render("▶ "+info.Name),
		h.dimStyle.Render(shortID(info.RunID)),
		preview(input))
}

// OnRunEnd prints the elapsed time and a preview of the output.
func (h *ConsoleCallbackHandler) OnRunEnd(_ context.Context, info RunInfo, output any, elapsed time.Duration) {
	h.printf("%s %s %s %s\n",
		h.endStyle.Render("✔ "+info.Name),
		h.dimStyle.Render(shortID(info.RunID)),
		h.dimStyle.Render(elapsed.Round(time.Millisecond).String()),
		preview(output))
}

// OnRunError prints the failure.
func (h *ConsoleCallbackHandler) OnRunError(_ context.Context, info RunInfo, err error) {
	h.printf("%s %s %v\n",
		h.errStyle.Render("✘ "+info.Name),
		h.dimStyle.Render(shortID(info.RunID)),
		err)
}

// OnToken prints streamed tokens when WithConsoleTokens is set.
func (h *ConsoleCallbackHandler) OnToken(_ context.Context, _ RunInfo, token string) {
	if !h.showTokens {
		return
	}
	h.printf("%s", h.dimStyle.Render(token))
}

func (h *ConsoleCallbackHandler) printf(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, format, args...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// preview renders a value on one line, truncated for readability.
func preview(v any) string {
	const maxLen = 96
	text := strings.Join(strings.Fields(fmt.Sprintf("%v", v)), " ")
	if runes := []rune(text); len(runes) > maxLen {
		text = string(runes[:maxLen]) + "…"
	}
	return text
}
