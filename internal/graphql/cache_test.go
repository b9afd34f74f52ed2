package graphql

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2, time.Minute)
	c.Set("a", json.RawMessage(`1`))
	c.Set("b", json.RawMessage(`2`))
	_, _ = c.Get("a")
	c.Set("c", json.RawMessage(`3`))

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCache_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", json.RawMessage(`1`))
	c.Set("b", json.RawMessage(`2`))
	now = now.Add(2 * time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "b expired but is only dropped on access or when full")
}

func TestCache_FullCacheDropsExpiredBeforeLive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(3, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("old-1", json.RawMessage(`1`))
	c.Set("old-2", json.RawMessage(`2`))
	now = now.Add(2 * time.Minute)
	c.Set("live", json.RawMessage(`3`))
	_, _ = c.Get("live")
	c.Set("new", json.RawMessage(`4`))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("live")
	assert.True(t, ok, "a live entry is kept while expired ones can go")
	_, ok = c.Get("new")
	assert.True(t, ok)
}

func TestCache_Purge(t *testing.T) {
	c := NewCache(10, time.Minute)
	c.Set("a", json.RawMessage(`1`))
	c.Purge()
	assert.Equal(t, 0, c.Len())
	c.Set("b", json.RawMessage(`2`))
	assert.Equal(t, 1, c.Len())
}
