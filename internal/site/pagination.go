package site

// Pagination describes one page of a paginated listing and the window of
// page links shown in its navigation.
type Pagination struct {
	Current int
	Last    int
	visible int
}

// NewPagination builds pagination state for the given page out of lastPage
// total pages, showing at most visiblePages numbered links.
func NewPagination(currentPage, lastPage, visiblePages int) Pagination {
	if lastPage < 1 {
		lastPage = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > lastPage {
		currentPage = lastPage
	}
	if visiblePages < 1 {
		visiblePages = 1
	}
	return Pagination{Current: currentPage, Last: lastPage, visible: visiblePages}
}

// PageCount returns how many pages a listing of total items needs at perPage
// items each. An empty listing still gets one page.
func PageCount(total, perPage int) int {
	if total <= 0 {
		return 1
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return pages
}

// Pages returns the numbered page links to display: a window of visible
// pages centered on the current page, clamped to the valid range.
func (p Pagination) Pages() []int {
	start := p.Current - p.visible/2
	if start < 1 {
		start = 1
	}
	end := start + p.visible - 1
	if end > p.Last {
		end = p.Last
		start = end - p.visible + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}

// HasPrev reports whether a newer page exists.
func (p Pagination) HasPrev() bool {
	return p.Current > 1
}

// HasNext reports whether an older page exists.
func (p Pagination) HasNext() bool {
	return p.Current < p.Last
}

// URL returns the site path of page n. Page one is the root index; later
// pages live under /page/N/.
func (p Pagination) URL(n int) string {
	if n <= 1 {
		return "/"
	}
	return pagePath(n)
}

// PrevURL returns the path of the newer page.
func (p Pagination) PrevURL() string {
	return p.URL(p.Current - 1)
}

// NextURL returns the path of the older page.
func (p Pagination) NextURL() string {
	return p.URL(p.Current + 1)
}
