// Package scaffolding creates new sites and posts from built-in templates.
package scaffolding

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/jackmott/inkwell/internal/content"
)

// Generator scaffolds site directories and post files.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a scaffolding generator.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// SiteOptions configures InitSite.
type SiteOptions struct {
	Title string
	Force bool
}

// InitSite creates the directory skeleton for a new site: configuration,
// layouts, a sample post, and the static image directory.
func (g *Generator) InitSite(root string, opts SiteOptions) error {
	if opts.Title == "" {
		opts.Title = filepath.Base(absOrSelf(root))
	}

	configPath := filepath.Join(root, ".inkwell.yml")
	if !opts.Force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("site already initialized: %s exists", configPath)
		}
	}

	dirs := []string{
		filepath.Join(root, "_posts"),
		filepath.Join(root, "_layouts"),
		filepath.Join(root, "images"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := writeTemplate(configPath, configTemplate, map[string]string{"Title": opts.Title}); err != nil {
		return err
	}

	// Layouts are written verbatim: their template actions belong to the
	// site build, not to scaffolding.
	layouts := map[string]string{
		"post.html":     postLayoutTemplate,
		"index.html":    indexLayoutTemplate,
		"category.html": categoryLayoutTemplate,
	}
	for name, text := range layouts {
		path := filepath.Join(root, "_layouts", name)
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	return g.writeWelcomePost(root)
}

func (g *Generator) writeWelcomePost(root string) error {
	now := g.now()
	name := content.PostFilename(now, "welcome")
	path := filepath.Join(root, "_posts", name)

	return writeTemplate(path, welcomePostTemplate, map[string]string{
		"Date": now.Format("2006-01-02 15:04:05 -0700"),
	})
}

// PostOptions configures NewPost.
type PostOptions struct {
	Title      string
	Categories []string
	Date       time.Time
	Dir        string
}

// NewPost scaffolds a post file named for today's date and the slugified
// title. It refuses to overwrite an existing file.
func (g *Generator) NewPost(opts PostOptions) (string, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return "", fmt.Errorf("post title is required")
	}

	slug, err := content.NormalizeSlug(opts.Title)
	if err != nil || slug == "" {
		return "", fmt.Errorf("title %q produces no usable slug", opts.Title)
	}

	date := opts.Date
	if date.IsZero() {
		date = g.now()
	}

	dir := opts.Dir
	if dir == "" {
		dir = "_posts"
	}

	path := filepath.Join(dir, content.PostFilename(date, slug))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("post already exists: %s", path)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	err = writeTemplate(path, newPostTemplate, map[string]string{
		"Title":      opts.Title,
		"Date":       date.Format("2006-01-02 15:04:05 -0700"),
		"Categories": strings.Join(opts.Categories, " "),
	})
	if err != nil {
		return "", err
	}

	return path, nil
}

func writeTemplate(path, tmplText string, data map[string]string) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(tmplText)
	if err != nil {
		return fmt.Errorf("failed to parse template for %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
