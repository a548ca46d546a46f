package history

import (
	"reflect"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestMessageConstructors(t *testing.T) {
	t.Parallel()

	human := NewHumanMessage("hi")
	if human.Role != llms.ChatMessageTypeHuman || human.Content != "hi" {
		t.Errorf("Unexpected human message: %+v", human)
	}
	if human.CreatedAt.IsZero() {
		t.Error("Constructors should stamp CreatedAt")
	}

	ai := NewAIMessage("hello")
	if ai.Role != llms.ChatMessageTypeAI {
		t.Errorf("Unexpected AI role: %v", ai.Role)
	}

	system := NewSystemMessage("be brief")
	if system.Role != llms.ChatMessageTypeSystem {
		t.Errorf("Unexpected system role: %v", system.Role)
	}
}

func TestChatMessageConversion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		msg  Message
		want llms.ChatMessage
	}{
		{NewHumanMessage("q"), llms.HumanChatMessage{Content: "q"}},
		{NewAIMessage("a"), llms.AIChatMessage{Content: "a"}},
		{NewSystemMessage("s"), llms.SystemChatMessage{Content: "s"}},
		{
			Message{Role: llms.ChatMessageTypeTool, Content: "result"},
			llms.GenericChatMessage{Role: "tool", Content: "result"},
		},
	}

	for _, c := range cases {
		got := c.msg.ChatMessage()
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ChatMessage() = %#v, want %#v", got, c.want)
		}
	}
}

func TestFromChatMessageRoundTrip(t *testing.T) {
	t.Parallel()

	original := llms.HumanChatMessage{Content: "round trip"}
	stored := FromChatMessage(original)

	if stored.Role != llms.ChatMessageTypeHuman {
		t.Errorf("Unexpected role: %v", stored.Role)
	}
	if stored.Content != "round trip" {
		t.Errorf("Unexpected content: %q", stored.Content)
	}
	if stored.ChatMessage() != original {
		t.Errorf("Round trip changed the message: %#v", stored.ChatMessage())
	}
}

func TestChatMessagesPreservesOrder(t *testing.T) {
	t.Parallel()

	msgs := ChatMessages([]Message{
		NewHumanMessage("first"),
		NewAIMessage("second"),
		NewHumanMessage("third"),
	})

	if len(msgs) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].GetContent() != "first" || msgs[2].GetContent() != "third" {
		t.Errorf("Order not preserved: %v", msgs)
	}

	if got := ChatMessages(nil); len(got) != 0 {
		t.Errorf("Expected empty slice for nil input, got %v", got)
	}
}
