// Package sqlite provides SQLite-backed storage for RunnableGo chat history.
//
// This package persists conversation turns in a single database file, which
// makes it a good fit for CLIs, desktop applications, and single-node
// services that need memory to survive restarts without running a database
// server.
//
// # Key Features
//
//   - Serverless, file-based database
//   - Zero configuration, schema created on open
//   - Insertion order preserved per session
//   - Support for custom table names
//   - In-memory mode for tests
//
// # Basic Usage
//
//	import (
//		"github.com/smallnest/runnablego/history/sqlite"
//		"github.com/smallnest/runnablego/runnable"
//	)
//
//	store, err := sqlite.NewStore(sqlite.Options{
//		Path: "./chat.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	chat := runnable.WithMessageHistory(chain, store)
//	answer, err := chat.Invoke(ctx,
//		map[string]any{"question": "hello"},
//		runnable.WithSessionID("user-42"),
//	)
//
// # Configuration
//
//	// Custom table name
//	store, err := sqlite.NewStore(sqlite.Options{
//		Path:      "./chat.db",
//		TableName: "conversation_turns",
//	})
//
//	// In-memory database for tests
//	store, err := sqlite.NewStore(sqlite.Options{
//		Path: ":memory:",
//	})
//
// # Schema
//
// NewStore creates the table on open:
//
//	CREATE TABLE IF NOT EXISTS chat_messages (
//		id INTEGER PRIMARY KEY AUTOINCREMENT,
//		session_id TEXT NOT NULL,
//		role TEXT NOT NULL,
//		content TEXT NOT NULL,
//		created_at DATETIME NOT NULL
//	);
//
// An index on session_id keeps per-session reads fast as the table grows.
package sqlite
