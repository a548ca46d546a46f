// Package history persists chat conversation turns keyed by session ID.
//
// The Store interface abstracts where turns live; the subpackages provide
// backends for common deployments:
//
//   - history/memory: in-process map, for tests and single-run programs
//   - history/file: one JSON file per session under a directory
//   - history/redis: a Redis list per session, with optional TTL
//   - history/sqlite: a SQLite table, for single-node persistence
//   - history/postgres: a PostgreSQL table behind a pgx pool
//
// A Store pairs with runnable.WithMessageHistory to give a chain
// conversational memory:
//
//	store := memory.NewStore()
//	chain := runnable.WithMessageHistory(inner, store)
//	out, err := chain.Invoke(ctx, map[string]any{"question": "hi"},
//		runnable.WithSessionID("user-42"))
package history
