package metadata

import "container/list"

// DefaultCapacity is the size of the link-preview cache.
const DefaultCapacity = 100

// LRU is a fixed-capacity map that evicts the least recently used key when
// a new key is added to a full cache. Get and Add refresh recency; Peek
// does not. It is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	cap     int
	ll      *list.List
	items   map[K]*list.Element
	onEvict func(K, V)
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU returns an empty cache holding at most capacity entries
// ([DefaultCapacity] when capacity <= 0). onEvict, if non-nil, is called
// for every capacity eviction.
func NewLRU[K comparable, V any](capacity int, onEvict func(K, V)) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[K, V]{
		cap:     capacity,
		ll:      list.New(),
		items:   make(map[K]*list.Element, capacity),
		onEvict: onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Peek returns the value for key without touching recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	if el, ok := c.items[key]; ok {
		return el.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Add inserts or updates key as the most recently used entry. It reports
// whether another entry was evicted to make room.
func (c *LRU[K, V]) Add(key K, value V) (evicted bool) {
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry[K, V]).value = value
		c.ll.MoveToFront(el)
		return false
	}
	if c.ll.Len() >= c.cap {
		c.removeOldest()
		evicted = true
	}
	c.items[key] = c.ll.PushFront(&lruEntry[K, V]{key: key, value: value})
	return evicted
}

func (c *LRU[K, V]) removeOldest() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	e := c.ll.Remove(el).(*lruEntry[K, V])
	delete(c.items, e.key)
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}

// Remove deletes key. It reports whether the key was present.
func (c *LRU[K, V]) Remove(key K) bool {
	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.ll.Remove(el)
	delete(c.items, key)
	return true
}

// Keys returns the keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, c.ll.Len())
	for el := c.ll.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*lruEntry[K, V]).key)
	}
	return keys
}

func (c *LRU[K, V]) Len() int { return c.ll.Len() }

func (c *LRU[K, V]) Cap() int { return c.cap }

// Clear removes every entry without calling the eviction callback.
func (c *LRU[K, V]) Clear() {
	c.ll.Init()
	clear(c.items)
}
