package site

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackmott/inkwell/internal/build"
	"github.com/jackmott/inkwell/internal/config"
	"github.com/jackmott/inkwell/internal/logging"
	"github.com/jackmott/inkwell/internal/registry"
	"github.com/jackmott/inkwell/internal/scanner"
	"github.com/jackmott/inkwell/internal/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Site: config.SiteConfig{
			Title:       "Programming Stuff",
			Description: "Benchmarks and performance notes",
			URL:         "https://example.com",
			Author:      "Jack",
		},
		Content: config.ContentConfig{
			LayoutsDir: filepath.Join(t.TempDir(), "no-layouts"),
		},
		Build: config.BuildConfig{
			OutputDir:    filepath.Join(t.TempDir(), "_site"),
			PostsPerPage: 2,
			Workers:      2,
		},
		Markdown: config.MarkdownConfig{CodeStyle: "monokai", Unsafe: true},
		Feed:     config.FeedConfig{Enabled: true, Limit: 20},
	}
}

func testPost(slug string, date time.Time, body string, categories ...string) *types.PostInfo {
	return &types.PostInfo{
		Layout:     "post",
		Title:      "Post " + slug,
		Date:       date,
		Slug:       slug,
		Categories: categories,
		SourcePath: "_posts/" + slug + ".markdown",
		Body:       []byte(body),
		Hash:       scanner.HashContent([]byte(body)),
	}
}

func newTestBuilder(t *testing.T, cfg *config.Config, reg *registry.PostRegistry, cache *build.RenderCache) *Builder {
	t.Helper()
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelError, Output: os.Stderr})
	b, err := NewBuilder(cfg, reg, cache, logger)
	require.NoError(t, err)
	return b
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Build.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestBuild_EmitsPostPages(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("cache-locality", time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC),
		"Intro paragraph.\n\n```go\nfunc main() {}\n```\n", "performance", "go")))

	b := newTestBuilder(t, cfg, reg, nil)
	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Collector.HasErrors())
	assert.Equal(t, 1, result.Posts)

	page := readOutput(t, cfg, "2019/01/02/cache-locality/index.html")
	assert.Contains(t, page, "Post cache-locality")
	assert.Contains(t, page, "Intro paragraph.")
	assert.Contains(t, page, "Programming Stuff")
	assert.Contains(t, page, `href="/categories/performance/"`)
}

func TestBuild_IndexPagination(t *testing.T) {
	cfg := testConfig(t) // 2 posts per page
	reg := registry.NewPostRegistry()
	for i, slug := range []string{"a", "b", "c", "d", "e"} {
		date := time.Date(2019, 1, i+1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, reg.Register(testPost(slug, date, "Body of "+slug+".\n")))
	}

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	index := readOutput(t, cfg, "index.html")
	// newest first: e (Jan 5) and d (Jan 4) on page one
	assert.Contains(t, index, "Post e")
	assert.Contains(t, index, "Post d")
	assert.NotContains(t, index, "Post c")

	page2 := readOutput(t, cfg, "page/2/index.html")
	assert.Contains(t, page2, "Post c")

	page3 := readOutput(t, cfg, "page/3/index.html")
	assert.Contains(t, page3, "Post a")
}

func TestBuild_CategoryPages(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("x", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Body.\n", "rust")))
	require.NoError(t, reg.Register(testPost("y", time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), "Body.\n", "rust", "simd")))

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	rust := readOutput(t, cfg, "categories/rust/index.html")
	assert.Contains(t, rust, "Post x")
	assert.Contains(t, rust, "Post y")

	simd := readOutput(t, cfg, "categories/simd/index.html")
	assert.Contains(t, simd, "Post y")
	assert.NotContains(t, simd, "Post x")
}

func TestBuild_Feeds(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("big-o", time.Date(2017, 8, 12, 0, 0, 0, 0, time.UTC), "When Big O fools ya.\n")))

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	rss := readOutput(t, cfg, "feed.xml")
	assert.Contains(t, rss, "<rss")
	assert.Contains(t, rss, "Post big-o")
	assert.Contains(t, rss, "https://example.com/2017/08/12/big-o/")

	atom := readOutput(t, cfg, "atom.xml")
	assert.Contains(t, atom, "<feed")
	assert.Contains(t, atom, "Post big-o")
}

func TestBuild_Sitemap(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("big-o", time.Date(2017, 8, 12, 0, 0, 0, 0, time.UTC), "Body.\n", "performance")))

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	sitemap := readOutput(t, cfg, "sitemap.xml")
	assert.Contains(t, sitemap, "<loc>https://example.com/</loc>")
	assert.Contains(t, sitemap, "<loc>https://example.com/categories/performance/</loc>")
	assert.Contains(t, sitemap, "<loc>https://example.com/2017/08/12/big-o/</loc>")
	assert.Contains(t, sitemap, "<lastmod>2017-08-12</lastmod>")
}

func TestBuild_CategoriesComeFromEmittedPostsOnly(t *testing.T) {
	cfg := testConfig(t)
	layoutsDir := t.TempDir()
	cfg.Content.LayoutsDir = layoutsDir
	require.NoError(t, os.WriteFile(
		filepath.Join(layoutsDir, "index.html"),
		[]byte("<html><body>{{range .Categories}}[{{.}}]{{end}}</body></html>"),
		0644,
	))

	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("shipped", time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), "Body.\n", "real")))
	draft := testPost("wip", time.Date(2019, 1, 3, 0, 0, 0, 0, time.UTC), "Body.\n", "draftonly")
	draft.Draft = true
	require.NoError(t, reg.Register(draft))

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	sitemap := readOutput(t, cfg, "sitemap.xml")
	assert.Contains(t, sitemap, "/categories/real/")
	assert.NotContains(t, sitemap, "draftonly")

	// no listing page exists for the draft's category, so nothing may link it
	_, statErr := os.Stat(filepath.Join(cfg.Build.OutputDir, "categories", "draftonly", "index.html"))
	assert.True(t, os.IsNotExist(statErr))

	index := readOutput(t, cfg, "index.html")
	assert.Contains(t, index, "[real]")
	assert.NotContains(t, index, "draftonly")
}

func TestBuild_EscapesCategoryLinks(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("spans", time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), "Body.\n", "c#")))

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	page := readOutput(t, cfg, "2019/01/02/spans/index.html")
	assert.Contains(t, page, `href="/categories/c%23/"`)

	sitemap := readOutput(t, cfg, "sitemap.xml")
	assert.Contains(t, sitemap, "/categories/c%23/")

	// the listing directory keeps the raw name; servers decode %23 back to it
	listing := readOutput(t, cfg, "categories/c#/index.html")
	assert.Contains(t, listing, "Post spans")
}

func TestBuild_LogsOperationTiming(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("timed", time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), "Body.\n")))

	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelInfo, Format: "json", Output: &buf})
	b, err := NewBuilder(cfg, reg, nil, logger)
	require.NoError(t, err)

	_, err = b.Build(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"operation":"site-build"`)
	assert.Contains(t, buf.String(), "Operation completed")
	assert.Contains(t, buf.String(), "duration_ms")
}

func TestBuild_SkipsDraftsByDefault(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	draft := testPost("wip", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Body.\n")
	draft.Draft = true
	require.NoError(t, reg.Register(draft))

	b := newTestBuilder(t, cfg, reg, nil)
	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Posts)
	assert.Equal(t, 1, result.Skipped)

	_, statErr := os.Stat(filepath.Join(cfg.Build.OutputDir, "2019/01/01/wip/index.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_IncludesDraftsWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Build.Drafts = true
	reg := registry.NewPostRegistry()
	draft := testPost("wip", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Body.\n")
	draft.Draft = true
	require.NoError(t, reg.Register(draft))

	b := newTestBuilder(t, cfg, reg, nil)
	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Posts)
}

func TestBuild_SkipsFuturePosts(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("past", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Body.\n")))
	require.NoError(t, reg.Register(testPost("future", time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), "Body.\n")))

	b := newTestBuilder(t, cfg, reg, nil)
	b.now = func() time.Time { return time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC) }

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Posts)
	assert.Equal(t, 1, result.Skipped)
}

func TestBuild_UnknownLayoutIsBuildError(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	post := testPost("odd", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Body.\n")
	post.Layout = "no-such-layout"
	require.NoError(t, reg.Register(post))

	b := newTestBuilder(t, cfg, reg, nil)
	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Collector.HasErrors())
}

func TestBuild_LayoutOverride(t *testing.T) {
	cfg := testConfig(t)
	layoutsDir := t.TempDir()
	cfg.Content.LayoutsDir = layoutsDir
	require.NoError(t, os.WriteFile(
		filepath.Join(layoutsDir, "post.html"),
		[]byte("<html><body><h1>CUSTOM {{.Post.Title}}</h1>{{.Post.Content}}</body></html>"),
		0644,
	))

	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("x", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Body.\n")))

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	page := readOutput(t, cfg, "2019/01/01/x/index.html")
	assert.Contains(t, page, "CUSTOM Post x")
}

func TestBuild_IsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("stable", time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC),
		"Stable body.\n\n```rust\nfn main() {}\n```\n", "rust")))

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)
	first := readOutput(t, cfg, "2019/01/02/stable/index.html")
	firstFeed := readOutput(t, cfg, "feed.xml")

	_, err = b.Build(context.Background())
	require.NoError(t, err)
	second := readOutput(t, cfg, "2019/01/02/stable/index.html")
	secondFeed := readOutput(t, cfg, "feed.xml")

	assert.Equal(t, first, second)
	assert.Equal(t, firstFeed, secondFeed)
}

func TestBuild_UsesRenderCache(t *testing.T) {
	cfg := testConfig(t)
	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("cached", time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC), "Body.\n")))

	cache := build.NewRenderCache(1024*1024, time.Minute)
	b := newTestBuilder(t, cfg, reg, cache)

	_, err := b.Build(context.Background())
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	stats := cache.Stats()
	assert.GreaterOrEqual(t, stats.Hits, int64(1))
}

func TestBuild_CopiesStaticAssets(t *testing.T) {
	cfg := testConfig(t)
	staticDir := filepath.Join(t.TempDir(), "images")
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "charts"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "charts", "bench.png"), []byte("png-bytes"), 0644))
	cfg.Content.StaticDir = staticDir

	reg := registry.NewPostRegistry()
	require.NoError(t, reg.Register(testPost("x", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), "Body.\n")))

	b := newTestBuilder(t, cfg, reg, nil)
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	copied, err := os.ReadFile(filepath.Join(cfg.Build.OutputDir, "images", "charts", "bench.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(copied))
}
