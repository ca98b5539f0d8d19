// Package types provides common type definitions used throughout the inkwell CLI.
// This package contains shared types to avoid circular dependencies between packages.
package types

import (
	"fmt"
	"time"
)

// PostInfo contains the metadata and content of a discovered blog post,
// assembled from the file's front matter header and its filename, and used by
// the scanner, registry, and site builder.
type PostInfo struct {
	// Layout names the template applied when the post is rendered
	Layout string
	// Title is the display title from front matter
	Title string
	// Subtitle is the optional secondary title (may be empty)
	Subtitle string
	// Date is the publication timestamp; it determines sort order and the
	// permalink path
	Date time.Time
	// Categories holds the post's category tags in front matter order
	Categories []string
	// Slug is the URL fragment derived from the filename (or a front matter
	// override)
	Slug string
	// SourcePath is the path to the Markdown source file
	SourcePath string
	// Body is the raw Markdown body with the front matter block stripped
	Body []byte
	// Draft marks posts excluded from builds unless drafts are requested
	Draft bool
	// LastMod tracks the source file modification time for change detection
	LastMod time.Time
	// Hash is a CRC32 checksum of the source file for change detection
	Hash string
	// Custom stores unrecognized front matter keys for template access
	Custom map[string]interface{}
}

// Permalink returns the post's canonical URL path, derived from its date and
// slug. Every post's date+slug pair is unique within a site; the registry
// rejects collisions.
func (p *PostInfo) Permalink() string {
	return fmt.Sprintf("/%04d/%02d/%02d/%s/", p.Date.Year(), p.Date.Month(), p.Date.Day(), p.Slug)
}

// HasCategory reports whether the post carries the given category tag.
func (p *PostInfo) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// EventType represents the type of post change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// PostEvent represents a change in the post registry, used for real-time
// notifications to watchers like the preview server.
type PostEvent struct {
	// Type indicates the kind of change (added, updated, removed)
	Type EventType
	// Post contains the post information (may be nil for removed events)
	Post *PostInfo
	// Timestamp records when the event occurred for ordering and filtering
	Timestamp time.Time
}
