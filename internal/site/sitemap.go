package site

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/jackmott/inkwell/internal/types"
)

// sitemapURLSet is the root element of a sitemap.xml document.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// RenderSitemap produces sitemap.xml content covering the index, every
// category listing, and every post. Post entries carry the post date as
// lastmod so output stays deterministic across rebuilds.
func RenderSitemap(site SiteData, posts []*types.PostInfo, categories []string) (string, error) {
	urlset := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	urlset.URLs = append(urlset.URLs, sitemapURL{Loc: absoluteURL(site.URL, "/")})
	for _, category := range categories {
		urlset.URLs = append(urlset.URLs, sitemapURL{
			Loc: absoluteURL(site.URL, CategoryPath(category)),
		})
	}
	for _, post := range posts {
		urlset.URLs = append(urlset.URLs, sitemapURL{
			Loc:     absoluteURL(site.URL, post.Permalink()),
			LastMod: post.Date.Format("2006-01-02"),
		})
	}

	var sb strings.Builder
	sb.WriteString(xml.Header)
	encoder := xml.NewEncoder(&sb)
	encoder.Indent("", "  ")
	if err := encoder.Encode(urlset); err != nil {
		return "", fmt.Errorf("encode sitemap: %w", err)
	}
	sb.WriteString("\n")
	return sb.String(), nil
}
