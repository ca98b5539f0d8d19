package content

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
)

// filenamePattern matches the post naming convention YYYY-M-D-slug.markdown.
// Month and day may be unpadded; both .markdown and .md extensions count.
var filenamePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})-(.+)\.(markdown|md)$`)

// IsPostFile reports whether path has a Markdown post extension.
func IsPostFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".markdown", ".md":
		return true
	}
	return false
}

// ParseFilename extracts the publish date and slug encoded in a post
// filename. The date must be a real calendar date; 2019-2-30 is rejected.
func ParseFilename(path string) (time.Time, string, error) {
	base := filepath.Base(path)
	m := filenamePattern.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}, "", fmt.Errorf("filename %q does not match YYYY-M-D-slug.markdown", base)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; a round trip catches them
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, "", fmt.Errorf("filename %q encodes invalid calendar date %04d-%02d-%02d", base, year, month, day)
	}

	return date, m[4], nil
}

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// PostFilename builds the canonical source filename for a new post.
func PostFilename(date time.Time, slugValue string) string {
	return fmt.Sprintf("%d-%d-%d-%s.markdown", date.Year(), int(date.Month()), date.Day(), slugValue)
}
