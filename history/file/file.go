package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/smallnest/runnablego/history"
)

// Store persists each session as one JSON file in a directory. It suits
// local tools and development setups where a database is overkill.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a file-backed history store, creating the directory if
// needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

var _ history.Store = (*Store)(nil)

// AddMessage appends one turn to a session.
func (s *Store) AddMessage(ctx context.Context, sessionID string, msg history.Message) error {
	return s.AddMessages(ctx, sessionID, []history.Message{msg})
}

// AddMessages appends several turns to a session in order.
func (s *Store) AddMessages(_ context.Context, sessionID string, msgs []history.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load(sessionID)
	if err != nil {
		return err
	}
	stored = append(stored, msgs...)

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}
	if err := os.WriteFile(s.sessionPath(sessionID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Messages returns a session's turns in insertion order.
func (s *Store) Messages(_ context.Context, sessionID string) ([]history.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(sessionID)
}

// Clear removes a session's file.
func (s *Store) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.sessionPath(sessionID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *Store) load(sessionID string) ([]history.Message, error) {
	data, err := os.ReadFile(s.sessionPath(sessionID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []history.Message{}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var msgs []history.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return msgs, nil
}

func (s *Store) sessionPath(sessionID string) string {
	return filepath.Join(s.dir, sanitizeID(sessionID)+".json")
}

// sanitizeID keeps session IDs safe to use as file names.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
