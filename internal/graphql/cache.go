package graphql

import (
	"container/list"
	"encoding/json"
	"sync"
	"time"
)

// Cache holds the raw "data" payload of query responses, keyed by
// operation name and canonical variables. Least recently used entries are
// evicted once the cache is full; entries older than the TTL are misses.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type cacheEntry struct {
	key       string
	data      json.RawMessage
	expiresAt time.Time
}

// NewCache creates a cache holding at most maxSize results for ttl each.
// A non-positive maxSize disables eviction by size.
func NewCache(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Key returns the cache key of a request. json.Marshal sorts map keys, so
// equal variable sets produce equal keys.
func Key(req Request) string {
	vars, err := json.Marshal(req.Variables)
	if err != nil || len(req.Variables) == 0 {
		return req.OperationName
	}
	return req.OperationName + ":" + string(vars)
}

func (c *Cache) Get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeElement(elem)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return entry.data, true
}

func (c *Cache) Set(key string, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{key: key, data: data, expiresAt: c.now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.lru.MoveToFront(elem)
		return
	}
	c.items[key] = c.lru.PushFront(entry)

	if c.maxSize <= 0 || c.lru.Len() <= c.maxSize {
		return
	}
	// Expired entries go before live ones.
	if c.dropExpired() > 0 {
		return
	}
	if oldest := c.lru.Back(); oldest != nil {
		c.removeElement(oldest)
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Purge drops every entry. Called when the session ends.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

// dropExpired removes expired entries and returns how many were dropped.
// c.mu must be held.
func (c *Cache) dropExpired() int {
	now := c.now()
	var stale []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*cacheEntry).expiresAt) {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		c.removeElement(elem)
	}
	return len(stale)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) removeElement(elem *list.Element) {
	delete(c.items, elem.Value.(*cacheEntry).key)
	c.lru.Remove(elem)
}
