// Package scanner provides post discovery for Markdown content directories.
//
// The scanner traverses configured directories to find Markdown post files,
// parses their front matter headers into metadata records, and registers the
// results in the post registry so change events reach subscribers. It
// maintains CRC32 content hashes for change detection and scans files
// concurrently with a bounded worker group. Malformed files are collected as
// structured build errors rather than aborting the whole scan.
package scanner

import (
	"context"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/jackmott/inkwell/internal/content"
	inkerrors "github.com/jackmott/inkwell/internal/errors"
	"github.com/jackmott/inkwell/internal/registry"
)

// PostScanner discovers and parses Markdown posts.
type PostScanner struct {
	registry        *registry.PostRegistry
	excludePatterns []string
	workers         int
}

// Option configures a PostScanner.
type Option func(*PostScanner)

// WithExcludePatterns sets doublestar globs for paths to skip.
func WithExcludePatterns(patterns []string) Option {
	return func(s *PostScanner) {
		s.excludePatterns = patterns
	}
}

// WithWorkers bounds scan concurrency. Values below 1 fall back to NumCPU.
func WithWorkers(n int) Option {
	return func(s *PostScanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewPostScanner creates a new post scanner feeding the given registry.
func NewPostScanner(reg *registry.PostRegistry, opts ...Option) *PostScanner {
	s := &PostScanner{
		registry: reg,
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanDirectory walks root and scans every Markdown post file found,
// returning the collector holding any per-file problems. The returned error
// covers only walk-level failures (missing directory, permission trouble).
func (s *PostScanner) ScanDirectory(ctx context.Context, root string) (*inkerrors.ErrorCollector, error) {
	collector := inkerrors.NewErrorCollector()

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if s.excluded(path + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !content.IsPostFile(path) || s.excluded(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return collector, fmt.Errorf("walking %s: %w", root, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := s.ScanFile(path); err != nil {
				collector.Add(inkerrors.BuildError{
					File:     path,
					Message:  err.Error(),
					Severity: inkerrors.ErrorSeverityError,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return collector, err
	}

	return collector, nil
}

// ScanFile parses a single post file and registers it. If an earlier scan of
// the same file registered a different permalink (the date or slug changed),
// the stale entry is removed first.
func (s *PostScanner) ScanFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	post, err := content.ParsePost(path, source, info.ModTime())
	if err != nil {
		return err
	}
	post.Hash = HashContent(source)

	if existing, ok := s.registry.FindBySourcePath(path); ok && existing.Permalink() != post.Permalink() {
		s.registry.Remove(existing.Permalink())
	}

	return s.registry.Register(post)
}

// excluded reports whether path matches any exclude pattern. Patterns are
// matched against the slash-separated path.
func (s *PostScanner) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range s.excludePatterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// HashContent returns the CRC32 checksum of source as a hex string, used for
// change detection between rebuilds.
func HashContent(source []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(source))
}
