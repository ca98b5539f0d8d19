// Package registry maintains the in-memory set of discovered posts and
// broadcasts change events to subscribers like the preview server.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackmott/inkwell/internal/types"
)

// PostRegistry manages all discovered posts, keyed by permalink. Two source
// files that collapse to the same date+slug pair collide; Register rejects
// the second one so near-duplicate revisions of a post surface as build
// errors instead of silently shadowing each other.
type PostRegistry struct {
	posts    map[string]*types.PostInfo
	mutex    sync.RWMutex
	watchers []chan types.PostEvent
}

// NewPostRegistry creates a new post registry
func NewPostRegistry() *PostRegistry {
	return &PostRegistry{
		posts:    make(map[string]*types.PostInfo),
		watchers: make([]chan types.PostEvent, 0),
	}
}

// Register adds or updates a post in the registry. Updating means the same
// source file re-registered after an edit; a different source file claiming
// an occupied permalink is a collision.
func (r *PostRegistry) Register(post *types.PostInfo) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := post.Permalink()
	eventType := types.EventTypeAdded
	if existing, exists := r.posts[key]; exists {
		if existing.SourcePath != post.SourcePath {
			return fmt.Errorf("permalink %s claimed by both %s and %s", key, existing.SourcePath, post.SourcePath)
		}
		eventType = types.EventTypeUpdated
	}

	r.posts[key] = post

	r.notify(types.PostEvent{
		Type:      eventType,
		Post:      post,
		Timestamp: time.Now(),
	})
	return nil
}

// Get retrieves a post by permalink
func (r *PostRegistry) Get(permalink string) (*types.PostInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	post, exists := r.posts[permalink]
	return post, exists
}

// GetAll returns all registered posts keyed by permalink
func (r *PostRegistry) GetAll() map[string]*types.PostInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*types.PostInfo, len(r.posts))
	for permalink, post := range r.posts {
		result[permalink] = post
	}
	return result
}

// Sorted returns all posts newest first. Posts sharing a date sort by slug
// so the order is stable across builds.
func (r *PostRegistry) Sorted() []*types.PostInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	posts := make([]*types.PostInfo, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts
}

// ByCategory returns the posts carrying the given category, newest first.
func (r *PostRegistry) ByCategory(category string) []*types.PostInfo {
	sorted := r.Sorted()
	out := make([]*types.PostInfo, 0)
	for _, post := range sorted {
		if post.HasCategory(category) {
			out = append(out, post)
		}
	}
	return out
}

// Categories returns every category tag in use, sorted alphabetically.
func (r *PostRegistry) Categories() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	seen := make(map[string]struct{})
	for _, post := range r.posts {
		for _, c := range post.Categories {
			seen[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// FindBySourcePath retrieves a post by its source file path.
func (r *PostRegistry) FindBySourcePath(path string) (*types.PostInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, post := range r.posts {
		if post.SourcePath == path {
			return post, true
		}
	}
	return nil, false
}

// Remove removes a post from the registry by permalink
func (r *PostRegistry) Remove(permalink string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post, exists := r.posts[permalink]
	if !exists {
		return
	}

	delete(r.posts, permalink)

	r.notify(types.PostEvent{
		Type:      types.EventTypeRemoved,
		Post:      post,
		Timestamp: time.Now(),
	})
}

// RemoveBySourcePath removes the post backed by the given source file, if
// any. Used when the watcher reports a deletion.
func (r *PostRegistry) RemoveBySourcePath(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for permalink, post := range r.posts {
		if post.SourcePath == path {
			delete(r.posts, permalink)
			r.notify(types.PostEvent{
				Type:      types.EventTypeRemoved,
				Post:      post,
				Timestamp: time.Now(),
			})
			return
		}
	}
}

// Watch returns a channel that receives post events
func (r *PostRegistry) Watch() <-chan types.PostEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.PostEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *PostRegistry) UnWatch(ch <-chan types.PostEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered posts
func (r *PostRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.posts)
}

// notify broadcasts an event to all watchers. Callers must hold the lock.
func (r *PostRegistry) notify(event types.PostEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
