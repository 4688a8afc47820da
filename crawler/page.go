// Package crawler discovers all same-host pages reachable from a root URL.
// It walks the link graph with a bounded worker pool, fetching each distinct
// URL at most once through a PageGetter (normally the on-disk page cache).
package crawler

import (
	"context"
	"time"

	"mirrorwalk/urlutil"
)

// Page is one fetched resource. A StatusCode of 0 marks a sentinel page: the
// fetch failed at the transport level and FetchError holds the reason.
// Sentinel pages are cached and reported like any other result so a broken
// link never aborts a crawl. Pages are immutable once created.
type Page struct {
	URL         urlutil.URL
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
	FetchError  string
}

// Failed reports whether this is a sentinel page for a failed fetch.
func (p *Page) Failed() bool {
	return p.StatusCode == 0
}

// Site is the set of pages discovered by one walk, keyed by canonical URL.
// It records insertion order so report rows come out deterministically.
// A Site is owned by the walk that populates it and grows monotonically;
// it is not safe for concurrent mutation.
type Site struct {
	Root  urlutil.URL
	Pages map[urlutil.URL]*Page
	order []urlutil.URL
}

// NewSite creates an empty Site rooted at the given URL.
func NewSite(root urlutil.URL) *Site {
	return &Site{Root: root, Pages: make(map[urlutil.URL]*Page)}
}

// Add records a page, preserving first-insertion order. Adding a page for a
// URL already present is a no-op.
func (s *Site) Add(p *Page) {
	if _, ok := s.Pages[p.URL]; ok {
		return
	}
	s.Pages[p.URL] = p
	s.order = append(s.order, p.URL)
}

// URLs returns the discovered URLs in insertion order.
func (s *Site) URLs() []urlutil.URL {
	urls := make([]urlutil.URL, len(s.order))
	copy(urls, s.order)
	return urls
}

// Len returns the number of pages discovered so far.
func (s *Site) Len() int {
	return len(s.order)
}

// PageGetter supplies pages by URL. Implementations must return a valid Page
// (possibly a sentinel) or an error that should abort the whole run; they
// must never return a partially populated Page.
type PageGetter interface {
	GetPage(ctx context.Context, u urlutil.URL) (*Page, error)
}
