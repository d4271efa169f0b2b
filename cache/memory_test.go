package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "k", entry{Name: "consult", Price: 500}, time.Minute))

	var got entry
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Name: "consult", Price: 500}, got)

	require.NoError(t, c.Delete(ctx, "k", "missing"))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "short", entry{Name: "x"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got entry
	found, err := c.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
