package site

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackmott/inkwell/internal/types"
)

func feedSite() SiteData {
	return SiteData{
		Title:       "Programming Stuff",
		Description: "Benchmarks and performance notes",
		URL:         "https://example.com/",
		Author:      "Jack",
	}
}

func feedPost(slug string, date time.Time) FeedInput {
	return FeedInput{
		Post: &types.PostInfo{
			Title: "Post " + slug,
			Slug:  slug,
			Date:  date,
		},
		HTML:    []byte("<p>Body of " + slug + ".</p>"),
		Excerpt: "Body of " + slug + ".",
	}
}

func TestBuildFeed_Basics(t *testing.T) {
	posts := []FeedInput{
		feedPost("newest", time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)),
		feedPost("older", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	feed := BuildFeed(feedSite(), posts, 20)

	assert.Equal(t, "Programming Stuff", feed.Title)
	assert.Equal(t, posts[0].Post.Date, feed.Updated)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "https://example.com/2019/03/01/newest/", feed.Items[0].Link.Href)
	assert.Equal(t, "Post newest", feed.Items[0].Title)
	assert.Equal(t, "Jack", feed.Items[0].Author.Name)
}

func TestBuildFeed_RespectsLimit(t *testing.T) {
	posts := make([]FeedInput, 0, 5)
	for day := 5; day >= 1; day-- {
		posts = append(posts, feedPost("p", time.Date(2019, 1, day, 0, 0, 0, 0, time.UTC)))
	}

	feed := BuildFeed(feedSite(), posts, 3)
	assert.Len(t, feed.Items, 3)
}

func TestBuildFeed_EmptyPosts(t *testing.T) {
	feed := BuildFeed(feedSite(), nil, 20)
	assert.Empty(t, feed.Items)
	assert.True(t, feed.Updated.IsZero())
}

func TestRenderRSSAndAtom(t *testing.T) {
	posts := []FeedInput{feedPost("only", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))}
	feed := BuildFeed(feedSite(), posts, 20)

	rss, err := RenderRSS(feed)
	require.NoError(t, err)
	assert.Contains(t, rss, "<rss")
	assert.Contains(t, rss, "Post only")

	atom, err := RenderAtom(feed)
	require.NoError(t, err)
	assert.Contains(t, atom, "<feed")
	assert.Contains(t, atom, "Post only")
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a/", absoluteURL("https://example.com/", "/a/"))
	assert.Equal(t, "https://example.com/a/", absoluteURL("https://example.com", "/a/"))
}
