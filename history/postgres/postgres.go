package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smallnest/runnablego/history"
	"github.com/tmc/langchaingo/llms"
)

// DBPool is the slice of pgxpool.Pool this store needs. Narrowing the
// dependency keeps the store mockable in tests.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements history.Store using a PostgreSQL table.
type Store struct {
	pool      DBPool
	tableName string
}

// Options configuration for the Postgres connection
type Options struct {
	ConnString string
	TableName  string // Default "chat_messages"
}

// NewStore connects to Postgres and returns a history store. Call InitSchema
// once before first use.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewStoreWithPool(pool, opts.TableName), nil
}

// NewStoreWithPool wraps an existing pool. Useful for sharing a pool or for
// testing with mocks.
func NewStoreWithPool(pool DBPool, tableName string) *Store {
	if tableName == "" {
		tableName = "chat_messages"
	}
	return &Store{
		pool:      pool,
		tableName: tableName,
	}
}

var _ history.Store = (*Store)(nil)

// InitSchema creates the messages table if it doesn't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_session_id ON %s (session_id);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// AddMessage appends one turn to a session.
func (s *Store) AddMessage(ctx context.Context, sessionID string, msg history.Message) error {
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (session_id, role, content, created_at) VALUES ($1, $2, $3, $4)",
		s.tableName)
	if _, err := s.pool.Exec(ctx, query, sessionID, string(msg.Role), msg.Content, createdAt); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// AddMessages appends several turns to a session in order.
func (s *Store) AddMessages(ctx context.Context, sessionID string, msgs []history.Message) error {
	for _, msg := range msgs {
		if err := s.AddMessage(ctx, sessionID, msg); err != nil {
			return err
		}
	}
	return nil
}

// Messages returns a session's turns in insertion order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]history.Message, error) {
	query := fmt.Sprintf(
		"SELECT role, content, created_at FROM %s WHERE session_id = $1 ORDER BY id",
		s.tableName)
	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	out := []history.Message{}
	for rows.Next() {
		var (
			role      string
			content   string
			createdAt time.Time
		)
		if err := rows.Scan(&role, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, history.Message{
			Role:      llms.ChatMessageType(role),
			Content:   content,
			CreatedAt: createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return out, nil
}

// Clear removes a session's turns.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE session_id = $1", s.tableName)
	if _, err := s.pool.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
