package scaffolding

// configTemplate is the starter configuration written by init.
const configTemplate = `site:
  title: "{{.Title}}"
  subtitle: ""
  description: ""
  url: "https://example.com"
  author: ""

content:
  post_dirs:
    - "_posts"
  static_dir: "images"
  layouts_dir: "_layouts"

build:
  output_dir: "_site"
  posts_per_page: 10

server:
  port: 4000
  host: "localhost"

markdown:
  code_style: "monokai"

feed:
  enabled: true
  limit: 20
`

// postLayoutTemplate renders a single post page.
const postLayoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Post.Title}} | {{.Site.Title}}</title>
</head>
<body>
<header>
<h1><a href="/">{{.Site.Title}}</a></h1>
</header>
<article>
<h2>{{.Post.Title}}</h2>
{{if .Post.Subtitle}}<h3>{{.Post.Subtitle}}</h3>{{end}}
<time datetime="{{dateFormat "2006-01-02" .Post.Date}}">{{dateFormat "January 2, 2006" .Post.Date}}</time>
{{if .Post.Categories}}<p class="categories">{{range .Post.Categories}}<a href="{{categoryPath .}}">{{.}}</a> {{end}}</p>{{end}}
{{.Post.Content}}
</article>
</body>
</html>
`

// indexLayoutTemplate renders the paginated post listing.
const indexLayoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Site.Title}}</title>
</head>
<body>
<header>
<h1><a href="/">{{.Site.Title}}</a></h1>
{{if .Site.Subtitle}}<p>{{.Site.Subtitle}}</p>{{end}}
</header>
<main>
{{range .Posts}}
<article>
<h2><a href="{{.Permalink}}">{{.Title}}</a></h2>
<time datetime="{{dateFormat "2006-01-02" .Date}}">{{dateFormat "January 2, 2006" .Date}}</time>
{{if .Excerpt}}<p>{{.Excerpt}}</p>{{end}}
</article>
{{end}}
</main>
{{if gt .Pagination.Last 1}}
<nav class="pagination">
{{if .Pagination.HasPrev}}<a href="{{.Pagination.PrevURL}}">Newer</a>{{end}}
{{range .Pagination.Pages}}<a href="{{$.Pagination.URL .}}">{{.}}</a> {{end}}
{{if .Pagination.HasNext}}<a href="{{.Pagination.NextURL}}">Older</a>{{end}}
</nav>
{{end}}
</body>
</html>
`

// categoryLayoutTemplate renders a per-category listing.
const categoryLayoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Category}} | {{.Site.Title}}</title>
</head>
<body>
<header>
<h1><a href="/">{{.Site.Title}}</a></h1>
<h2>{{.Category}}</h2>
</header>
<main>
{{range .Posts}}
<article>
<h3><a href="{{.Permalink}}">{{.Title}}</a></h3>
<time datetime="{{dateFormat "2006-01-02" .Date}}">{{dateFormat "January 2, 2006" .Date}}</time>
</article>
{{end}}
</main>
</body>
</html>
`

// welcomePostTemplate is the sample post written into a fresh site.
const welcomePostTemplate = `---
layout: post
title: "Welcome"
date: {{.Date}}
categories: meta
---

This is your first post. Edit or delete it, then run ` + "`inkwell build`" + `
to regenerate the site.

` + "```go" + `
package main

import "fmt"

func main() {
	fmt.Println("hello, inkwell")
}
` + "```" + `
`

// newPostTemplate is the front matter scaffold for inkwell new.
const newPostTemplate = `---
layout: post
title: "{{.Title}}"
date: {{.Date}}
categories: {{.Categories}}
---

`
