// Package lint checks post sources for content-integrity problems: front
// matter that fails to parse, dates that disagree with the filename,
// unterminated code fences, image references pointing at missing assets, and
// malformed category tags. Problems are reported as structured build errors
// with file and line positions.
package lint

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jackmott/inkwell/internal/content"
	inkerrors "github.com/jackmott/inkwell/internal/errors"
)

var (
	// markdownImagePattern matches ![alt](/images/foo.png "title")
	markdownImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(\s*([^)\s]+)`)
	// htmlImagePattern matches <img src="/images/foo.png">
	htmlImagePattern = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
)

// Linter runs content checks over post source files.
type Linter struct {
	// siteRoot anchors root-relative asset references like /images/x.png
	siteRoot string
	// strict promotes warnings (missing images, date drift) to errors
	strict bool
}

// NewLinter creates a linter resolving asset references against siteRoot.
func NewLinter(siteRoot string, strict bool) *Linter {
	return &Linter{siteRoot: siteRoot, strict: strict}
}

// warnSeverity is the severity used for advisory findings; strict mode
// promotes them to errors.
func (l *Linter) warnSeverity() inkerrors.ErrorSeverity {
	if l.strict {
		return inkerrors.ErrorSeverityError
	}
	return inkerrors.ErrorSeverityWarning
}

// LintDirectory checks every post file under root.
func (l *Linter) LintDirectory(root string) (*inkerrors.ErrorCollector, error) {
	collector := inkerrors.NewErrorCollector()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !content.IsPostFile(path) {
			return nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		l.LintFile(path, source, collector)
		return nil
	})
	if err != nil {
		return collector, fmt.Errorf("walking %s: %w", root, err)
	}
	return collector, nil
}

// LintFile checks a single post source and adds findings to collector.
func (l *Linter) LintFile(path string, source []byte, collector *inkerrors.ErrorCollector) {
	post, err := content.ParsePost(path, source, time.Time{})
	if err != nil {
		collector.Add(inkerrors.BuildError{
			File:     path,
			Message:  err.Error(),
			Severity: inkerrors.ErrorSeverityError,
		})
		// Structural checks still run; a broken header should not hide an
		// unterminated fence further down.
		l.checkFences(path, source, collector)
		return
	}

	l.checkDateConsistency(path, post.Date, collector)
	l.checkCategories(path, post.Categories, collector)
	l.checkFences(path, source, collector)
	l.checkImageRefs(path, source, collector)
}

// checkDateConsistency warns when the front matter date and the filename
// date name different calendar days.
func (l *Linter) checkDateConsistency(path string, date time.Time, collector *inkerrors.ErrorCollector) {
	nameDate, _, err := content.ParseFilename(path)
	if err != nil {
		// ParsePost already accepted the file, so the front matter carried
		// the date; an unconventional filename is its own finding.
		collector.Add(inkerrors.BuildError{
			File:     path,
			Message:  err.Error(),
			Severity: l.warnSeverity(),
		})
		return
	}

	y1, m1, d1 := date.Date()
	y2, m2, d2 := nameDate.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		collector.Add(inkerrors.BuildError{
			File: path,
			Message: fmt.Sprintf("front matter date %04d-%02d-%02d disagrees with filename date %04d-%02d-%02d",
				y1, m1, d1, y2, m2, d2),
			Severity: l.warnSeverity(),
		})
	}
}

// checkCategories flags empty or whitespace-bearing category tags.
func (l *Linter) checkCategories(path string, categories []string, collector *inkerrors.ErrorCollector) {
	for _, category := range categories {
		trimmed := strings.TrimSpace(category)
		if trimmed == "" {
			collector.Add(inkerrors.BuildError{
				File:     path,
				Message:  "empty category tag",
				Severity: inkerrors.ErrorSeverityError,
			})
			continue
		}
		if strings.ContainsAny(category, " \t") {
			collector.Add(inkerrors.BuildError{
				File:     path,
				Message:  fmt.Sprintf("category %q contains whitespace", category),
				Severity: l.warnSeverity(),
			})
		}
	}
}

// checkFences reports code fences left open at end of file, pointing at the
// line that opened the dangling fence.
func (l *Linter) checkFences(path string, source []byte, collector *inkerrors.ErrorCollector) {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	open := false
	openLine := 0
	line := 0
	for scanner.Scan() {
		line++
		trimmed := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(trimmed, "```") {
			if open {
				open = false
			} else {
				open = true
				openLine = line
			}
		}
	}

	if open {
		collector.Add(inkerrors.BuildError{
			File:     path,
			Line:     openLine,
			Message:  "unterminated code fence",
			Severity: inkerrors.ErrorSeverityError,
		})
	}
}

// checkImageRefs verifies that root-relative image references resolve to
// files under the site root. External URLs are left alone.
func (l *Linter) checkImageRefs(path string, source []byte, collector *inkerrors.ErrorCollector) {
	refs := imageRefs(source)
	for _, ref := range refs {
		if !strings.HasPrefix(ref.target, "/") {
			continue // external or page-relative, not ours to resolve
		}
		assetPath := filepath.Join(l.siteRoot, filepath.FromSlash(ref.target))
		if _, err := os.Stat(assetPath); err != nil {
			collector.Add(inkerrors.BuildError{
				File:     path,
				Line:     ref.line,
				Message:  fmt.Sprintf("image reference %s does not resolve to an existing asset", ref.target),
				Severity: l.warnSeverity(),
			})
		}
	}
}

type imageRef struct {
	target string
	line   int
}

// imageRefs extracts image targets with their line numbers from both
// Markdown and raw HTML syntax.
func imageRefs(source []byte) []imageRef {
	var refs []imageRef
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		for _, m := range markdownImagePattern.FindAllStringSubmatch(text, -1) {
			refs = append(refs, imageRef{target: strings.Trim(m[1], `"'`), line: line})
		}
		for _, m := range htmlImagePattern.FindAllStringSubmatch(text, -1) {
			refs = append(refs, imageRef{target: m[1], line: line})
		}
	}
	return refs
}
