package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/runnablego/history"
)

// Store implements history.Store using one Redis list per session, so turns
// keep their insertion order and sessions can expire together.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configuration for the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "runnablego:"
	TTL      time.Duration // Expiration for sessions, default 0 (no expiration)
}

// NewStore creates a Redis history store, connecting with the given options.
func NewStore(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewStoreWithClient(client, opts.Prefix, opts.TTL)
}

// NewStoreWithClient wraps an existing Redis client. Useful for sharing a
// client or for tests.
func NewStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "runnablego:"
	}
	return &Store{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

var _ history.Store = (*Store)(nil)

func (s *Store) sessionKey(sessionID string) string {
	return fmt.Sprintf("%ssession:%s:messages", s.prefix, sessionID)
}

// AddMessage appends one turn to a session.
func (s *Store) AddMessage(ctx context.Context, sessionID string, msg history.Message) error {
	return s.AddMessages(ctx, sessionID, []history.Message{msg})
}

// AddMessages appends several turns to a session in one pipeline.
func (s *Store) AddMessages(ctx context.Context, sessionID string, msgs []history.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]any, 0, len(msgs))
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		values = append(values, data)
	}

	key := s.sessionKey(sessionID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, values...)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save messages to redis: %w", err)
	}
	return nil
}

// Messages returns a session's turns in insertion order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]history.Message, error) {
	entries, err := s.client.LRange(ctx, s.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []history.Message{}, nil
		}
		return nil, fmt.Errorf("failed to load messages from redis: %w", err)
	}

	out := make([]history.Message, 0, len(entries))
	for _, entry := range entries {
		var msg history.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// Clear removes a session's turns.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
