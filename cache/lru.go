package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/deeplooplabs/responses-go/openresponses"
)

// lruCache implements ResponseCache as an LRU with per-entry TTL
type lruCache struct {
	mu      sync.Mutex
	config  *Config
	items   map[string]*list.Element
	lruList *list.List
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	id        string
	resp      *openresponses.Response
	expiresAt time.Time
}

// NewLRUCache creates a new LRU response cache
func NewLRUCache(config *Config) ResponseCache {
	if config == nil {
		config = DefaultConfig()
	}

	return &lruCache{
		config:  config,
		items:   make(map[string]*list.Element),
		lruList: list.New(),
	}
}

// Get retrieves a cached response
func (c *lruCache) Get(id string) (*openresponses.Response, bool) {
	c.mu.Lock()
	element, found := c.items[id]
	if !found {
		c.mu.Unlock()
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}

	entry := element.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.removeElement(element)
		c.mu.Unlock()
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}

	c.lruList.MoveToFront(element)
	c.mu.Unlock()

	atomic.AddUint64(&c.hits, 1)
	return entry.resp, true
}

// Set stores a response. Non-terminal responses are rejected silently so a
// poll loop cannot pin a stale in-progress snapshot.
func (c *lruCache) Set(id string, resp *openresponses.Response, ttl time.Duration) error {
	if !c.config.Enabled || resp == nil {
		return nil
	}
	if !resp.Status.Terminal() {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if element, found := c.items[id]; found {
		entry := element.Value.(*cacheEntry)
		entry.resp = resp
		entry.expiresAt = time.Now().Add(ttl)
		c.lruList.MoveToFront(element)
		return nil
	}

	for c.lruList.Len() >= c.config.MaxItems && c.lruList.Len() > 0 {
		c.removeElement(c.lruList.Back())
	}

	entry := &cacheEntry{
		id:        id,
		resp:      resp,
		expiresAt: time.Now().Add(ttl),
	}
	c.items[id] = c.lruList.PushFront(entry)

	return nil
}

// Delete removes a response from the cache
func (c *lruCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, found := c.items[id]; found {
		c.removeElement(element)
	}
}

// Clear removes all cached responses
func (c *lruCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.lruList = list.New()
}

// Stats returns cache statistics
func (c *lruCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:   atomic.LoadUint64(&c.hits),
		Misses: atomic.LoadUint64(&c.misses),
		Items:  uint64(c.lruList.Len()),
	}
}

// removeElement removes an element from the cache (lock held)
func (c *lruCache) removeElement(element *list.Element) {
	entry := element.Value.(*cacheEntry)
	delete(c.items, entry.id)
	c.lruList.Remove(element)
}
