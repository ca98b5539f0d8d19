// Package content parses blog post source files: the YAML front matter block
// that heads each Markdown file, the date-and-slug filename convention, and
// the assembly of both into a PostInfo.
//
// Recognized front matter keys are layout, title, subtitle, date, and
// categories, plus draft and slug overrides. Unrecognized keys are preserved
// in the post's Custom map so layout templates can reach them.
package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/jackmott/inkwell/internal/types"
)

// dateLayouts are the accepted front matter date formats, most specific
// first. The corpus uses "2006-01-02 15:04:05"-style timestamps.
var dateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"2006-1-2",
}

// postEnvelope mirrors the front matter block. Categories accepts both the
// space-separated scalar form the corpus uses and a YAML list.
type postEnvelope struct {
	Layout     string         `yaml:"layout"`
	Title      string         `yaml:"title"`
	Subtitle   string         `yaml:"subtitle"`
	Date       string         `yaml:"date"`
	Categories CategoryList   `yaml:"categories"`
	Draft      bool           `yaml:"draft"`
	Slug       string         `yaml:"slug"`
	Custom     map[string]any `yaml:",inline"`
}

// CategoryList unmarshals either a space-separated scalar
// ("performance fsharp simd") or a YAML sequence into a list of tags.
type CategoryList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CategoryList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var scalar string
	if err := unmarshal(&scalar); err == nil {
		*c = CategoryList(strings.Fields(scalar))
		return nil
	}

	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	out := make(CategoryList, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	*c = out
	return nil
}

// ParseFrontMatter extracts the front matter envelope and the Markdown body
// from the provided source bytes.
func ParseFrontMatter(source []byte) (postEnvelope, []byte, error) {
	var env postEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return postEnvelope{}, nil, fmt.Errorf("parse front matter: %w", err)
	}

	return env, body, nil
}

// ParseDate parses a front matter date value, trying the accepted layouts in
// order.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q does not match any accepted format", value)
}

// ParsePost assembles a PostInfo from a source file's path, raw bytes, and
// modification time. The filename supplies the slug and a fallback date; the
// front matter date wins when both are present.
func ParsePost(path string, source []byte, modTime time.Time) (*types.PostInfo, error) {
	env, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(env.Title) == "" {
		return nil, fmt.Errorf("%s: front matter title is required", path)
	}

	nameDate, nameSlug, nameErr := ParseFilename(path)

	var date time.Time
	if env.Date != "" {
		date, err = ParseDate(env.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else if nameErr == nil {
		date = nameDate
	} else {
		return nil, fmt.Errorf("%s: no date in front matter and filename does not encode one: %v", path, nameErr)
	}

	slugValue := env.Slug
	if slugValue == "" {
		if nameErr != nil {
			return nil, fmt.Errorf("%s: no slug in front matter and filename does not encode one: %v", path, nameErr)
		}
		slugValue = nameSlug
	}
	slugValue, err = NormalizeSlug(slugValue)
	if err != nil {
		return nil, fmt.Errorf("%s: normalize slug: %w", path, err)
	}

	layout := env.Layout
	if layout == "" {
		layout = "post"
	}

	custom := env.Custom
	if custom == nil {
		custom = map[string]any{}
	}

	return &types.PostInfo{
		Layout:     layout,
		Title:      env.Title,
		Subtitle:   env.Subtitle,
		Date:       date,
		Categories: []string(env.Categories),
		Slug:       slugValue,
		SourcePath: path,
		Body:       body,
		Draft:      env.Draft,
		LastMod:    modTime,
		Custom:     custom,
	}, nil
}
