package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/bcdannyboy/fairbtc/models"
)

// DefaultCapacity and DefaultTTL are the cache's documented defaults, per
// §4.8.
const (
	DefaultCapacity = 50
	DefaultTTL      = 60 * time.Second
)

type entry struct {
	key     Fingerprint
	result  models.SimResult
	expires time.Time
}

// Cache is a bounded, TTL-expiring, fingerprint-keyed store of SimResults.
// Eviction is insertion-order (not LRU): a cache hit does not move an entry
// to the back of the list, matching §4.8's "oldest inserted" eviction rule.
// There is no negative caching: a failed or cancelled run is never stored.
type Cache struct {
	mu       sync.Mutex
	cap      int
	ttl      time.Duration
	entries  map[Fingerprint]*list.Element
	order    *list.List // front = oldest
}

// New constructs a Cache with the given capacity and TTL. A non-positive
// capacity or TTL falls back to the documented default.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		cap:     capacity,
		ttl:     ttl,
		entries: make(map[Fingerprint]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached result for key, if present and not expired. An
// expired entry is removed on touch rather than waiting for eviction.
func (c *Cache) Get(key Fingerprint) (models.SimResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return models.SimResult{}, false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expires) {
		c.removeElement(el)
		return models.SimResult{}, false
	}
	return e.result, true
}

// Put inserts result under key, evicting the oldest entry if the cache is
// at capacity. Re-inserting an existing key refreshes its TTL but keeps its
// original position, matching insertion-order (not LRU) eviction.
func (c *Cache) Put(key Fingerprint, result models.SimResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.result = result
		e.expires = time.Now().Add(c.ttl)
		return
	}

	for len(c.entries) >= c.cap {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}

	e := &entry{key: key, result: result, expires: time.Now().Add(c.ttl)}
	el := c.order.PushBack(e)
	c.entries[key] = el
}

// removeElement drops el from both the list and the index map. Caller must
// hold c.mu.
func (c *Cache) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	delete(c.entries, e.key)
	c.order.Remove(el)
}

// Len returns the number of live (possibly-expired-but-not-yet-touched)
// entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
