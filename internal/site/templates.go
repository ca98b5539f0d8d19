// Package site turns the registry's posts into a static site: one HTML page
// per post, paginated index pages, per-category listings, RSS/Atom feeds,
// and a sitemap.
package site

import (
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackmott/inkwell/internal/types"
)

// SiteData is the site-wide metadata exposed to every layout template.
type SiteData struct {
	Title       string
	Subtitle    string
	Description string
	URL         string
	Author      string
}

// PostData is a rendered post as seen by layout templates.
type PostData struct {
	Title      string
	Subtitle   string
	Date       time.Time
	Categories []string
	Permalink  string
	Content    template.HTML
	Excerpt    string
	Custom     map[string]interface{}
}

// PageData is what a post layout receives.
type PageData struct {
	Site SiteData
	Post PostData
}

// ListData is what index and category layouts receive.
type ListData struct {
	Site       SiteData
	Title      string
	Category   string
	Posts      []PostData
	Pagination Pagination
	Categories []string
}

// CategoryPath is the site path of a category's listing page. The name is
// percent-escaped so tags like "c#" produce valid hrefs; the listing
// directory on disk keeps the raw name, which servers decode back to.
func CategoryPath(category string) string {
	return "/categories/" + url.PathEscape(category) + "/"
}

// templateFuncs are the helpers available inside layouts.
var templateFuncs = template.FuncMap{
	"dateFormat": func(layout string, t time.Time) string {
		return t.Format(layout)
	},
	"lower":        strings.ToLower,
	"join":         strings.Join,
	"categoryPath": CategoryPath,
}

// Layouts holds the parsed layout templates, defaults overlaid with the
// site's own files.
type Layouts struct {
	templates map[string]*template.Template
}

// LoadLayouts parses the built-in default layouts and then any *.html files
// in layoutsDir, which override defaults of the same name. A missing
// layoutsDir is fine; the defaults carry the site.
func LoadLayouts(layoutsDir string) (*Layouts, error) {
	l := &Layouts{templates: make(map[string]*template.Template)}

	for name, text := range defaultLayouts {
		tmpl, err := template.New(name).Funcs(templateFuncs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse builtin layout %s: %w", name, err)
		}
		l.templates[name] = tmpl
	}

	if layoutsDir == "" {
		return l, nil
	}
	entries, err := os.ReadDir(layoutsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("read layouts dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".html" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		text, err := os.ReadFile(filepath.Join(layoutsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", entry.Name(), err)
		}
		tmpl, err := template.New(name).Funcs(templateFuncs).Parse(string(text))
		if err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", entry.Name(), err)
		}
		l.templates[name] = tmpl
	}

	return l, nil
}

// Get returns the layout with the given name.
func (l *Layouts) Get(name string) (*template.Template, bool) {
	tmpl, ok := l.templates[name]
	return tmpl, ok
}

// Names returns the available layout names.
func (l *Layouts) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	return names
}

// postToData adapts a registry post plus its rendered HTML for templates.
func postToData(post *types.PostInfo, rendered []byte, excerpt string) PostData {
	return PostData{
		Title:      post.Title,
		Subtitle:   post.Subtitle,
		Date:       post.Date,
		Categories: post.Categories,
		Permalink:  post.Permalink(),
		Content:    template.HTML(rendered),
		Excerpt:    excerpt,
		Custom:     post.Custom,
	}
}

// defaultLayouts are the built-in page shells used when the site ships no
// overrides. Minimal on purpose; they exist so a fresh site renders out of
// the box.
var defaultLayouts = map[string]string{
	"post": `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Post.Title}} | {{.Site.Title}}</title>
<link rel="alternate" type="application/rss+xml" title="{{.Site.Title}}" href="/feed.xml">
</head>
<body>
<header><a href="/">{{.Site.Title}}</a></header>
<article>
<h1>{{.Post.Title}}</h1>
{{if .Post.Subtitle}}<h2>{{.Post.Subtitle}}</h2>{{end}}
<time datetime="{{dateFormat "2006-01-02" .Post.Date}}">{{dateFormat "January 2, 2006" .Post.Date}}</time>
{{if .Post.Categories}}<p class="categories">{{range .Post.Categories}}<a href="{{categoryPath .}}">{{.}}</a> {{end}}</p>{{end}}
{{.Post.Content}}
</article>
</body>
</html>
`,
	"index": `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Site.Title}}</title>
{{if .Site.Description}}<meta name="description" content="{{.Site.Description}}">{{end}}
<link rel="alternate" type="application/rss+xml" title="{{.Site.Title}}" href="/feed.xml">
</head>
<body>
<header><h1>{{.Site.Title}}</h1>{{if .Site.Subtitle}}<p>{{.Site.Subtitle}}</p>{{end}}</header>
<main>
{{range .Posts}}
<section>
<h2><a href="{{.Permalink}}">{{.Title}}</a></h2>
<time datetime="{{dateFormat "2006-01-02" .Date}}">{{dateFormat "January 2, 2006" .Date}}</time>
{{if .Excerpt}}<p>{{.Excerpt}}</p>{{end}}
</section>
{{end}}
</main>
<nav class="pagination">
{{if .Pagination.HasPrev}}<a href="{{.Pagination.PrevURL}}">Newer</a>{{end}}
{{range .Pagination.Pages}}<a href="{{$.Pagination.URL .}}">{{.}}</a> {{end}}
{{if .Pagination.HasNext}}<a href="{{.Pagination.NextURL}}">Older</a>{{end}}
</nav>
</body>
</html>
`,
	"category": `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Category}} | {{.Site.Title}}</title>
</head>
<body>
<header><a href="/">{{.Site.Title}}</a></header>
<main>
<h1>{{.Category}}</h1>
{{range .Posts}}
<section>
<h2><a href="{{.Permalink}}">{{.Title}}</a></h2>
<time datetime="{{dateFormat "2006-01-02" .Date}}">{{dateFormat "January 2, 2006" .Date}}</time>
</section>
{{end}}
</main>
</body>
</html>
`,
}
