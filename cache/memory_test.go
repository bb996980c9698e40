package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete(ctx, "k"))
	exists, _ := m.Exists(ctx, "k")
	assert.False(t, exists)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", 42, time.Minute))
	v, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	now = now.Add(time.Minute)
	exists, _ := m.Exists(ctx, "k")
	assert.False(t, exists)
}
