package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jackmott/inkwell/internal/build"
	"github.com/jackmott/inkwell/internal/config"
	inkerrors "github.com/jackmott/inkwell/internal/errors"
	"github.com/jackmott/inkwell/internal/logging"
	"github.com/jackmott/inkwell/internal/registry"
	"github.com/jackmott/inkwell/internal/renderer"
	"github.com/jackmott/inkwell/internal/types"
)

// excerptLength caps index and feed summaries.
const excerptLength = 280

// Builder emits the static site from the post registry.
type Builder struct {
	cfg      *config.Config
	registry *registry.PostRegistry
	markdown *renderer.MarkdownRenderer
	cache    *build.RenderCache
	layouts  *Layouts
	logger   logging.Logger
	// now is injected for tests; defaults to time.Now
	now func() time.Time
}

// BuildResult summarizes a completed build.
type BuildResult struct {
	Posts      int
	Pages      int
	Skipped    int
	Duration   time.Duration
	Collector  *inkerrors.ErrorCollector
	CacheStats build.CacheStats
}

// renderedPost pairs a post with its rendered HTML for page emission.
type renderedPost struct {
	post    *types.PostInfo
	html    []byte
	excerpt string
}

// NewBuilder constructs a site builder. The render cache may be shared
// across builds (serve/watch mode) or fresh per invocation.
func NewBuilder(cfg *config.Config, reg *registry.PostRegistry, cache *build.RenderCache, logger logging.Logger) (*Builder, error) {
	layouts, err := LoadLayouts(cfg.Content.LayoutsDir)
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:      cfg,
		registry: reg,
		markdown: renderer.NewMarkdownRenderer(renderer.Options{
			CodeStyle: cfg.Markdown.CodeStyle,
			HardWraps: cfg.Markdown.HardWraps,
			Unsafe:    cfg.Markdown.Unsafe,
		}),
		cache:   cache,
		layouts: layouts,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Build renders every publishable post and emits the whole site into the
// output directory. Per-post problems land in the result's collector; the
// returned error covers failures that abort the build outright.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	op := logging.StartOperation(b.logger, "site-build")
	result, err := b.run(ctx)
	if err != nil {
		op.EndWithError(ctx, err)
		return result, err
	}
	op.End(ctx)
	return result, nil
}

func (b *Builder) run(ctx context.Context) (*BuildResult, error) {
	start := time.Now()
	result := &BuildResult{Collector: inkerrors.NewErrorCollector()}

	posts, skipped := b.publishable()
	result.Skipped = skipped
	b.logger.Debug(ctx, "Starting site build", "posts", len(posts), "skipped", skipped)

	rendered, err := b.renderAll(ctx, posts, result.Collector)
	if err != nil {
		return result, err
	}

	site := b.siteData()
	// Categories come from the rendered posts, not the whole registry, so
	// listings and the sitemap never point at pages a skipped draft would
	// have carried.
	byCategory, categories := groupByCategory(rendered)

	for _, rp := range rendered {
		if err := b.writePostPage(site, rp, result); err != nil {
			return result, err
		}
	}

	if err := b.writeIndexPages(site, rendered, categories, result); err != nil {
		return result, err
	}
	if err := b.writeCategoryPages(site, byCategory, categories, result); err != nil {
		return result, err
	}
	if b.cfg.Feed.Enabled {
		if err := b.writeFeeds(site, rendered, result); err != nil {
			return result, err
		}
	}
	if err := b.writeSitemap(site, posts, categories, result); err != nil {
		return result, err
	}
	if err := b.copyStatic(); err != nil {
		return result, err
	}

	result.Posts = len(rendered)
	result.Duration = time.Since(start)
	if b.cache != nil {
		result.CacheStats = b.cache.Stats()
	}
	b.logger.Info(ctx, "Site build finished",
		"posts", result.Posts,
		"pages", result.Pages,
	)
	return result, nil
}

// groupByCategory indexes rendered posts by category tag and returns the
// sorted category list. Input order (newest first) is preserved per category.
func groupByCategory(rendered []renderedPost) (map[string][]PostData, []string) {
	byCategory := make(map[string][]PostData)
	for _, rp := range rendered {
		for _, category := range rp.post.Categories {
			byCategory[category] = append(byCategory[category], postToData(rp.post, rp.html, rp.excerpt))
		}
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return byCategory, categories
}

// publishable returns the posts to build, newest first, minus drafts and
// future-dated posts unless the build opts into them.
func (b *Builder) publishable() ([]*types.PostInfo, int) {
	all := b.registry.Sorted()
	posts := make([]*types.PostInfo, 0, len(all))
	skipped := 0
	now := b.now()
	for _, post := range all {
		if post.Draft && !b.cfg.Build.Drafts {
			skipped++
			continue
		}
		if post.Date.After(now) && !b.cfg.Build.Future {
			skipped++
			continue
		}
		posts = append(posts, post)
	}
	return posts, skipped
}

// renderAll converts every post body to HTML, consulting the render cache
// keyed by source path and content hash. Output order matches input order.
func (b *Builder) renderAll(ctx context.Context, posts []*types.PostInfo, collector *inkerrors.ErrorCollector) ([]renderedPost, error) {
	rendered := make([]renderedPost, len(posts))
	var mu sync.Mutex
	failed := make(map[int]bool)

	workers := b.cfg.Build.Workers
	if workers < 1 {
		workers = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, post := range posts {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var html []byte
			if b.cache != nil {
				if cached, ok := b.cache.Get(post.SourcePath, post.Hash); ok {
					html = cached
				}
			}
			if html == nil {
				var err error
				html, err = b.markdown.Render(post.Body)
				if err != nil {
					collector.Add(inkerrors.BuildError{
						Post:     post.Title,
						File:     post.SourcePath,
						Message:  err.Error(),
						Severity: inkerrors.ErrorSeverityError,
					})
					mu.Lock()
					failed[i] = true
					mu.Unlock()
					return nil
				}
				if b.cache != nil {
					b.cache.Set(post.SourcePath, post.Hash, html)
				}
			}

			rendered[i] = renderedPost{
				post:    post,
				html:    html,
				excerpt: renderer.Excerpt(html, excerptLength),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]renderedPost, 0, len(rendered))
	for i, rp := range rendered {
		if !failed[i] {
			out = append(out, rp)
		}
	}
	return out, nil
}

func (b *Builder) siteData() SiteData {
	return SiteData{
		Title:       b.cfg.Site.Title,
		Subtitle:    b.cfg.Site.Subtitle,
		Description: b.cfg.Site.Description,
		URL:         b.cfg.Site.URL,
		Author:      b.cfg.Site.Author,
	}
}

// writePostPage renders one post through its layout into
// <output>/<permalink>/index.html.
func (b *Builder) writePostPage(site SiteData, rp renderedPost, result *BuildResult) error {
	tmpl, ok := b.layouts.Get(rp.post.Layout)
	if !ok {
		result.Collector.Add(inkerrors.BuildError{
			Post:     rp.post.Title,
			File:     rp.post.SourcePath,
			Message:  fmt.Sprintf("layout %q not found", rp.post.Layout),
			Severity: inkerrors.ErrorSeverityError,
		})
		return nil
	}

	data := PageData{
		Site: site,
		Post: postToData(rp.post, rp.html, rp.excerpt),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute layout %q for %s: %w", rp.post.Layout, rp.post.SourcePath, err)
	}

	outPath := filepath.Join(b.cfg.Build.OutputDir, filepath.FromSlash(rp.post.Permalink()), "index.html")
	if err := b.writeFile(outPath, buf.Bytes()); err != nil {
		return err
	}
	result.Pages++
	return nil
}

// writeIndexPages emits the paginated front page listing.
func (b *Builder) writeIndexPages(site SiteData, rendered []renderedPost, categories []string, result *BuildResult) error {
	tmpl, ok := b.layouts.Get("index")
	if !ok {
		return fmt.Errorf("index layout not found")
	}

	perPage := b.cfg.Build.PostsPerPage
	pageTotal := PageCount(len(rendered), perPage)

	for page := 1; page <= pageTotal; page++ {
		startIdx := (page - 1) * perPage
		endIdx := startIdx + perPage
		if endIdx > len(rendered) {
			endIdx = len(rendered)
		}

		postData := make([]PostData, 0, endIdx-startIdx)
		for _, rp := range rendered[startIdx:endIdx] {
			postData = append(postData, postToData(rp.post, rp.html, rp.excerpt))
		}

		data := ListData{
			Site:       site,
			Title:      site.Title,
			Posts:      postData,
			Pagination: NewPagination(page, pageTotal, 9),
			Categories: categories,
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("execute index layout (page %d): %w", page, err)
		}

		rel := "index.html"
		if page > 1 {
			rel = filepath.Join("page", fmt.Sprintf("%d", page), "index.html")
		}
		if err := b.writeFile(filepath.Join(b.cfg.Build.OutputDir, rel), buf.Bytes()); err != nil {
			return err
		}
		result.Pages++
	}
	return nil
}

// writeCategoryPages emits one listing per category under /categories/.
func (b *Builder) writeCategoryPages(site SiteData, byCategory map[string][]PostData, categories []string, result *BuildResult) error {
	tmpl, ok := b.layouts.Get("category")
	if !ok {
		return fmt.Errorf("category layout not found")
	}

	for _, category := range categories {
		posts := byCategory[category]

		data := ListData{
			Site:     site,
			Title:    category,
			Category: category,
			Posts:    posts,
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("execute category layout for %q: %w", category, err)
		}

		outPath := filepath.Join(b.cfg.Build.OutputDir, "categories", category, "index.html")
		if err := b.writeFile(outPath, buf.Bytes()); err != nil {
			return err
		}
		result.Pages++
	}
	return nil
}

// writeFeeds emits RSS and Atom documents.
func (b *Builder) writeFeeds(site SiteData, rendered []renderedPost, result *BuildResult) error {
	inputs := make([]FeedInput, 0, len(rendered))
	for _, rp := range rendered {
		inputs = append(inputs, FeedInput{Post: rp.post, HTML: rp.html, Excerpt: rp.excerpt})
	}

	feed := BuildFeed(site, inputs, b.cfg.Feed.Limit)

	rss, err := RenderRSS(feed)
	if err != nil {
		return err
	}
	if err := b.writeFile(filepath.Join(b.cfg.Build.OutputDir, "feed.xml"), []byte(rss)); err != nil {
		return err
	}

	atom, err := RenderAtom(feed)
	if err != nil {
		return err
	}
	if err := b.writeFile(filepath.Join(b.cfg.Build.OutputDir, "atom.xml"), []byte(atom)); err != nil {
		return err
	}

	result.Pages += 2
	return nil
}

func (b *Builder) writeSitemap(site SiteData, posts []*types.PostInfo, categories []string, result *BuildResult) error {
	sitemap, err := RenderSitemap(site, posts, categories)
	if err != nil {
		return err
	}
	if err := b.writeFile(filepath.Join(b.cfg.Build.OutputDir, "sitemap.xml"), []byte(sitemap)); err != nil {
		return err
	}
	result.Pages++
	return nil
}

// copyStatic mirrors the static assets directory into the output so
// /images/... references in post bodies resolve.
func (b *Builder) copyStatic() error {
	src := b.cfg.Content.StaticDir
	if src == "" {
		return nil
	}
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("static dir %s is not a directory", src)
	}

	dst := filepath.Join(b.cfg.Build.OutputDir, filepath.Base(src))
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func (b *Builder) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// pagePath is the site path of index page n (n > 1).
func pagePath(n int) string {
	return fmt.Sprintf("/page/%d/", n)
}
