package runnable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := newConfig(
		WithMaxConcurrency(4),
		WithTags("batch", "nightly"),
		WithMetadata(map[string]any{"user": "42"}),
		WithRunID("run-1"),
		WithSessionID("sess-1"),
	)

	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, []string{"batch", "nightly"}, cfg.Tags)
	assert.Equal(t, map[string]any{"user": "42"}, cfg.Metadata)
	assert.Equal(t, "run-1", cfg.RunID)
	assert.Equal(t, "sess-1", cfg.SessionID)
}

func TestNewConfigSkipsNilOptions(t *testing.T) {
	t.Parallel()

	cfg := newConfig(nil, WithTags("kept"), nil)
	assert.Equal(t, []string{"kept"}, cfg.Tags)
}

func TestWithMetadataMerges(t *testing.T) {
	t.Parallel()

	cfg := newConfig(
		WithMetadata(map[string]any{"a": 1}),
		WithMetadata(map[string]any{"b": 2}),
	)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, cfg.Metadata)
}

func TestChildOptionsDropRunID(t *testing.T) {
	t.Parallel()

	cfg := newConfig(
		WithMaxConcurrency(2),
		WithTags("traced"),
		WithMetadata(map[string]any{"env": "test"}),
		WithRunID("parent-run"),
		WithSessionID("sess-9"),
	)

	child := newConfig(cfg.childOptions()...)

	assert.Equal(t, 2, child.MaxConcurrency)
	assert.Equal(t, []string{"traced"}, child.Tags)
	assert.Equal(t, map[string]any{"env": "test"}, child.Metadata)
	assert.Equal(t, "sess-9", child.SessionID)
	assert.Empty(t, child.RunID, "nested runs must mint their own IDs")
}
