package build

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderCache_SetAndGet(t *testing.T) {
	cache := NewRenderCache(1024, time.Minute)

	cache.Set("_posts/a.markdown", "aabbccdd", []byte("<p>hello</p>"))

	value, ok := cache.Get("_posts/a.markdown", "aabbccdd")
	assert.True(t, ok)
	assert.Equal(t, []byte("<p>hello</p>"), value)
}

func TestRenderCache_HashMismatchIsMiss(t *testing.T) {
	cache := NewRenderCache(1024, time.Minute)

	cache.Set("_posts/a.markdown", "aabbccdd", []byte("<p>old</p>"))

	_, ok := cache.Get("_posts/a.markdown", "11223344")
	assert.False(t, ok)

	// the stale entry is dropped, not resurrected on the next Get
	_, ok = cache.Get("_posts/a.markdown", "aabbccdd")
	assert.False(t, ok)
}

func TestRenderCache_TTLExpiry(t *testing.T) {
	cache := NewRenderCache(1024, 10*time.Millisecond)

	cache.Set("key", "h", []byte("value"))
	time.Sleep(30 * time.Millisecond)

	_, ok := cache.Get("key", "h")
	assert.False(t, ok)
}

func TestRenderCache_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewRenderCache(1024, 0)

	cache.Set("key", "h", []byte("value"))
	time.Sleep(20 * time.Millisecond)

	_, ok := cache.Get("key", "h")
	assert.True(t, ok)
}

func TestRenderCache_LRUEviction(t *testing.T) {
	cache := NewRenderCache(30, time.Minute)

	cache.Set("a", "h", []byte("0123456789")) // 10 bytes
	cache.Set("b", "h", []byte("0123456789"))
	cache.Set("c", "h", []byte("0123456789"))

	// Touch "a" so "b" is the oldest
	_, ok := cache.Get("a", "h")
	assert.True(t, ok)

	cache.Set("d", "h", []byte("0123456789"))

	_, ok = cache.Get("b", "h")
	assert.False(t, ok, "least recently used entry should have been evicted")
	_, ok = cache.Get("a", "h")
	assert.True(t, ok)
	_, ok = cache.Get("c", "h")
	assert.True(t, ok)
	_, ok = cache.Get("d", "h")
	assert.True(t, ok)
}

func TestRenderCache_OversizedValueNotCached(t *testing.T) {
	cache := NewRenderCache(8, time.Minute)

	cache.Set("huge", "h", []byte("way more than eight bytes"))
	_, ok := cache.Get("huge", "h")
	assert.False(t, ok)
}

func TestRenderCache_Invalidate(t *testing.T) {
	cache := NewRenderCache(1024, time.Minute)

	cache.Set("key", "h", []byte("value"))
	cache.Invalidate("key")

	_, ok := cache.Get("key", "h")
	assert.False(t, ok)

	// invalidating an absent key is a no-op
	cache.Invalidate("missing")
}

func TestRenderCache_Clear(t *testing.T) {
	cache := NewRenderCache(1024, time.Minute)

	cache.Set("a", "h", []byte("x"))
	cache.Set("b", "h", []byte("y"))
	cache.Clear()

	stats := cache.Stats()
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, int64(0), stats.Size)
}

func TestRenderCache_Stats(t *testing.T) {
	cache := NewRenderCache(1024, time.Minute)

	cache.Set("a", "h", []byte("value"))
	cache.Get("a", "h")    // hit
	cache.Get("b", "h")    // miss
	cache.Get("a", "nope") // miss (hash mismatch)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestRenderCache_ConcurrentAccess(t *testing.T) {
	cache := NewRenderCache(64*1024, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("post-%d", n%5)
			cache.Set(key, "h", []byte("rendered html"))
			cache.Get(key, "h")
		}(i)
	}
	wg.Wait()

	stats := cache.Stats()
	assert.LessOrEqual(t, stats.Entries, 5)
}
