package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   string
	output string
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub tool " + s.name }

func (s *stubTool) Call(ctx context.Context, input string) (string, error) {
	return s.output, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "alpha", output: "a"})
	reg.Register(&stubTool{name: "beta", output: "b"})

	got, ok := reg.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Name())

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegistryReplacesOnDuplicateName(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "search", output: "first"})
	reg.Register(&stubTool{name: "search", output: "second"})

	got, ok := reg.Get("search")
	require.True(t, ok)

	result, err := got.Call(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, "second", result)

	assert.Len(t, reg.Tools(), 1)
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "zeta"})
	reg.Register(&stubTool{name: "alpha"})
	reg.Register(&stubTool{name: "mid"})

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())

	tools := reg.Tools()
	require.Len(t, tools, 3)
	assert.Equal(t, "alpha", tools[0].Name())
	assert.Equal(t, "zeta", tools[2].Name())
}
