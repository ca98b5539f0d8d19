package renderer

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Excerpt extracts a plain-text summary from rendered post HTML: the text of
// the first paragraph, truncated to maxLen runes on a word boundary. Used
// for index listings and feed summaries.
func Excerpt(rendered []byte, maxLen int) string {
	doc, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		return ""
	}

	para := findFirst(doc, "p")
	if para == nil {
		return ""
	}

	text := strings.Join(strings.Fields(collectText(para)), " ")
	return truncate(text, maxLen)
}

// findFirst walks the node tree depth-first for the first element with the
// given tag.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	cut := maxLen
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = maxLen
	}
	return strings.TrimRight(string(runes[:cut]), " ") + "…"
}
