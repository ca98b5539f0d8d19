package site

import (
	"fmt"
	"strings"

	"github.com/gorilla/feeds"

	"github.com/jackmott/inkwell/internal/types"
)

// FeedInput is one post prepared for feed emission.
type FeedInput struct {
	Post    *types.PostInfo
	HTML    []byte
	Excerpt string
}

// BuildFeed assembles the site feed from the newest posts. The feed's
// updated time is the newest post's date rather than the wall clock, so
// rebuilding unchanged sources yields byte-identical feeds.
func BuildFeed(site SiteData, posts []FeedInput, limit int) *feeds.Feed {
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	feed := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: site.URL},
		Description: site.Description,
	}
	if site.Author != "" {
		feed.Author = &feeds.Author{Name: site.Author}
	}
	if len(posts) > 0 {
		feed.Created = posts[0].Post.Date
		feed.Updated = posts[0].Post.Date
	}

	for _, input := range posts {
		permalink := absoluteURL(site.URL, input.Post.Permalink())
		item := &feeds.Item{
			Id:          permalink,
			Title:       input.Post.Title,
			Link:        &feeds.Link{Href: permalink},
			Description: input.Excerpt,
			Content:     string(input.HTML),
			Created:     input.Post.Date,
		}
		if site.Author != "" {
			item.Author = &feeds.Author{Name: site.Author}
		}
		feed.Items = append(feed.Items, item)
	}

	return feed
}

// RenderRSS serializes the feed as RSS 2.0.
func RenderRSS(feed *feeds.Feed) (string, error) {
	out, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("render rss: %w", err)
	}
	return out, nil
}

// RenderAtom serializes the feed as Atom.
func RenderAtom(feed *feeds.Feed) (string, error) {
	out, err := feed.ToAtom()
	if err != nil {
		return "", fmt.Errorf("render atom: %w", err)
	}
	return out, nil
}

// absoluteURL joins the site base URL and a site-rooted path.
func absoluteURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
