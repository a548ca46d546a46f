package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smallnest/runnablego/history"
)

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("creates directory if missing", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "sessions")

		store, err := NewStore(dir)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		if store == nil {
			t.Fatal("Store should not be nil")
		}

		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Error("Directory should have been created")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		t.Parallel()

		store, err := NewStore(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		if store == nil {
			t.Fatal("Store should not be nil")
		}
	})
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.AddMessage(ctx, "alice", history.NewHumanMessage("hello")); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if err := store.AddMessage(ctx, "alice", history.NewAIMessage("hi")); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	msgs, err := store.Messages(ctx, "alice")
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "hello" || msgs[1].Content != "hi" {
		t.Errorf("Messages out of order: %v", msgs)
	}

	// Unknown sessions read as empty
	msgs, err = store.Messages(ctx, "bob")
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("Expected empty history, got %d messages", len(msgs))
	}
}

func TestFileStoreClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.AddMessage(ctx, "alice", history.NewHumanMessage("hello")); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if err := store.Clear(ctx, "alice"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	msgs, err := store.Messages(ctx, "alice")
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("Expected cleared session, got %d messages", len(msgs))
	}

	// Clearing again is a no-op
	if err := store.Clear(ctx, "alice"); err != nil {
		t.Errorf("Clear of unknown session should not fail: %v", err)
	}
}

func TestFileStoreSanitizesSessionIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.AddMessage(ctx, "../escape/attempt", history.NewHumanMessage("hello")); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 session file in store dir, got %d", len(entries))
	}

	msgs, err := store.Messages(ctx, "../escape/attempt")
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("Expected 1 message, got %d", len(msgs))
	}
}
