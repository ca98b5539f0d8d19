// Package build provides the render cache used between rebuilds, with LRU
// eviction and TTL support.
package build

import (
	"sync"
	"sync/atomic"
	"time"
)

// RenderCache caches rendered post HTML keyed by source path and validated
// by content hash, so unchanged posts skip Markdown re-rendering across
// rebuilds in serve and watch mode.
type RenderCache struct {
	entries     map[string]*CacheEntry
	mutex       sync.Mutex
	maxSize     int64
	currentSize int64
	ttl         time.Duration
	// LRU doubly-linked list with dummy head and tail
	head *CacheEntry
	tail *CacheEntry
	// Statistics tracking (atomic for thread safety)
	hits      int64
	misses    int64
	sets      int64
	evictions int64
}

// CacheEntry represents a cached render result
type CacheEntry struct {
	Key        string
	Value      []byte
	Hash       string
	CreatedAt  time.Time
	AccessedAt time.Time
	Size       int64
	prev       *CacheEntry
	next       *CacheEntry
}

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
	Size      int64
	Entries   int
}

// NewRenderCache creates a render cache bounded to maxSize bytes whose
// entries expire after ttl.
func NewRenderCache(maxSize int64, ttl time.Duration) *RenderCache {
	cache := &RenderCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}

	cache.head = &CacheEntry{}
	cache.tail = &CacheEntry{}
	cache.head.next = cache.tail
	cache.tail.prev = cache.head

	return cache
}

// Get retrieves the cached render for key, but only if hash still matches
// the current source content and the entry has not expired.
func (rc *RenderCache) Get(key, hash string) ([]byte, bool) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	entry, exists := rc.entries[key]
	if !exists || entry.Hash != hash || rc.expired(entry) {
		if exists && (entry.Hash != hash || rc.expired(entry)) {
			rc.remove(entry)
		}
		atomic.AddInt64(&rc.misses, 1)
		return nil, false
	}

	entry.AccessedAt = time.Now()
	rc.moveToFront(entry)
	atomic.AddInt64(&rc.hits, 1)
	return entry.Value, true
}

// Set stores a render result for key tagged with the source content hash.
func (rc *RenderCache) Set(key, hash string, value []byte) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	size := int64(len(value))
	if size > rc.maxSize {
		return // never cache something bigger than the whole budget
	}

	if existing, exists := rc.entries[key]; exists {
		rc.remove(existing)
	}

	entry := &CacheEntry{
		Key:        key,
		Value:      value,
		Hash:       hash,
		CreatedAt:  time.Now(),
		AccessedAt: time.Now(),
		Size:       size,
	}

	for rc.currentSize+size > rc.maxSize {
		if !rc.evictOldest() {
			break
		}
	}

	rc.entries[key] = entry
	rc.currentSize += size
	rc.insertAtFront(entry)
	atomic.AddInt64(&rc.sets, 1)
}

// Invalidate drops the entry for key, if present.
func (rc *RenderCache) Invalidate(key string) {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if entry, exists := rc.entries[key]; exists {
		rc.remove(entry)
	}
}

// Clear drops every entry.
func (rc *RenderCache) Clear() {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	rc.entries = make(map[string]*CacheEntry)
	rc.currentSize = 0
	rc.head.next = rc.tail
	rc.tail.prev = rc.head
}

// Stats returns a snapshot of the cache counters.
func (rc *RenderCache) Stats() CacheStats {
	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	return CacheStats{
		Hits:      atomic.LoadInt64(&rc.hits),
		Misses:    atomic.LoadInt64(&rc.misses),
		Sets:      atomic.LoadInt64(&rc.sets),
		Evictions: atomic.LoadInt64(&rc.evictions),
		Size:      rc.currentSize,
		Entries:   len(rc.entries),
	}
}

// expired reports whether entry is past the TTL. A zero TTL disables expiry.
func (rc *RenderCache) expired(entry *CacheEntry) bool {
	return rc.ttl > 0 && time.Since(entry.CreatedAt) > rc.ttl
}

// evictOldest removes the least recently used entry. Callers hold the lock.
func (rc *RenderCache) evictOldest() bool {
	oldest := rc.tail.prev
	if oldest == rc.head {
		return false
	}
	rc.remove(oldest)
	atomic.AddInt64(&rc.evictions, 1)
	return true
}

// remove unlinks entry from the map and LRU list. Callers hold the lock.
func (rc *RenderCache) remove(entry *CacheEntry) {
	delete(rc.entries, entry.Key)
	rc.currentSize -= entry.Size
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

// moveToFront marks entry most recently used. Callers hold the lock.
func (rc *RenderCache) moveToFront(entry *CacheEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	rc.insertAtFront(entry)
}

// insertAtFront links entry just after the dummy head. Callers hold the lock.
func (rc *RenderCache) insertAtFront(entry *CacheEntry) {
	entry.next = rc.head.next
	entry.prev = rc.head
	rc.head.next.prev = entry
	rc.head.next = entry
}
