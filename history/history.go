package history

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Message is one stored conversation turn.
type Message struct {
	// Role is the langchaingo message type ("human", "ai", "system", ...).
	Role llms.ChatMessageType `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// CreatedAt records when the turn was stored.
	CreatedAt time.Time `json:"created_at"`
}

// NewHumanMessage builds a human turn stamped with the current time.
func NewHumanMessage(content string) Message {
	return Message{Role: llms.ChatMessageTypeHuman, Content: content, CreatedAt: time.Now()}
}

// NewAIMessage builds an assistant turn stamped with the current time.
func NewAIMessage(content string) Message {
	return Message{Role: llms.ChatMessageTypeAI, Content: content, CreatedAt: time.Now()}
}

// NewSystemMessage builds a system turn stamped with the current time.
func NewSystemMessage(content string) Message {
	return Message{Role: llms.ChatMessageTypeSystem, Content: content, CreatedAt: time.Now()}
}

// ChatMessage converts the stored turn to langchaingo's message interface.
func (m Message) ChatMessage() llms.ChatMessage {
	switch m.Role {
	case llms.ChatMessageTypeHuman:
		return llms.HumanChatMessage{Content: m.Content}
	case llms.ChatMessageTypeAI:
		return llms.AIChatMessage{Content: m.Content}
	case llms.ChatMessageTypeSystem:
		return llms.SystemChatMessage{Content: m.Content}
	default:
		return llms.GenericChatMessage{Role: string(m.Role), Content: m.Content}
	}
}

// FromChatMessage converts a langchaingo message into a storable turn.
func FromChatMessage(msg llms.ChatMessage) Message {
	return Message{
		Role:      msg.GetType(),
		Content:   msg.GetContent(),
		CreatedAt: time.Now(),
	}
}

// ChatMessages converts stored turns to langchaingo messages, preserving
// order.
func ChatMessages(messages []Message) []llms.ChatMessage {
	out := make([]llms.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ChatMessage())
	}
	return out
}

// Store persists conversation turns keyed by session ID. Implementations
// live in the subpackages of this package (memory, file, redis, sqlite,
// postgres).
type Store interface {
	// AddMessage appends one turn to a session.
	AddMessage(ctx context.Context, sessionID string, msg Message) error

	// AddMessages appends several turns to a session in order.
	AddMessages(ctx context.Context, sessionID string, msgs []Message) error

	// Messages returns a session's turns in insertion order. An unknown
	// session yields an empty slice, not an error.
	Messages(ctx context.Context, sessionID string) ([]Message, error)

	// Clear removes a session's turns. Clearing an unknown session is a
	// no-op.
	Clear(ctx context.Context, sessionID string) error
}
