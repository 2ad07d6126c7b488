package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_TakeIsOneShot(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "abc", time.Minute))
	require.Error(t, m.Put(ctx, "abc", time.Minute))

	ok, err := m.Take(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Take(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_ExpiredStateIsRejected(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Put(ctx, "abc", time.Minute))
	now = now.Add(2 * time.Minute)

	ok, err := m.Take(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}
