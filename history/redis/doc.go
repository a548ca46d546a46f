// Package redis provides Redis-backed storage for RunnableGo chat history.
//
// This package keeps each session's turns in a Redis list, which suits
// deployments where several service instances share one conversation store
// and where old sessions should expire on their own.
//
// # Key Features
//
//   - One list per session, insertion order preserved
//   - Optional TTL so idle sessions expire automatically
//   - Configurable key prefix for shared Redis instances
//   - Reuse an existing client with NewStoreWithClient
//
// # Basic Usage
//
//	import (
//		"github.com/smallnest/runnablego/history/redis"
//		"github.com/smallnest/runnablego/runnable"
//	)
//
//	store := redis.NewStore(redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	chat := runnable.WithMessageHistory(chain, store)
//	answer, err := chat.Invoke(ctx,
//		map[string]any{"question": "hello"},
//		runnable.WithSessionID("user-42"),
//	)
//
// # Configuration
//
//	// Expire sessions after a day of inactivity
//	store := redis.NewStore(redis.Options{
//		Addr:     "localhost:6379",
//		Password: os.Getenv("REDIS_PASSWORD"),
//		DB:       1,
//		Prefix:   "myapp:",
//		TTL:      24 * time.Hour,
//	})
//
//	// Share a client with the rest of the application
//	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	store := redis.NewStoreWithClient(client, "myapp:", 0)
//
// # Key Layout
//
// Messages for a session live under a single key:
//
//	<prefix>session:<session-id>:messages
//
// Each turn is stored as one JSON list element, so AddMessage is an RPUSH
// and Messages is an LRANGE. When a TTL is set it is refreshed on every
// write, so a session expires only after going idle.
package redis
