package crawler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"mirrorwalk/urlutil"
)

// Fetcher performs HTTP GETs for the page cache. Transport failures are
// absorbed into sentinel pages; a non-2xx response is a valid result, not an
// error (observing 404s is the whole point).
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	log       *slog.Logger
}

// NewFetcher creates a Fetcher. A nil client uses a default http.Client and
// a nil logger uses slog.Default.
func NewFetcher(client *http.Client, userAgent string, timeout time.Duration, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{client: client, userAgent: userAgent, timeout: timeout, log: log}
}

// Fetch GETs the URL and returns a Page. The returned page is a sentinel
// (StatusCode 0) if the request could not be built, sent, or read.
func (f *Fetcher) Fetch(ctx context.Context, u urlutil.URL) *Page {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page := &Page{URL: u, FetchedAt: time.Now().UTC()}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		page.FetchError = err.Error()
		return page
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Debug("fetch failed", "url", u.String(), "error", err)
		page.FetchError = err.Error()
		return page
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.log.Debug("read body failed", "url", u.String(), "error", err)
		page.FetchError = err.Error()
		return page
	}

	page.StatusCode = resp.StatusCode
	page.ContentType = resp.Header.Get("Content-Type")
	page.Body = body
	f.log.Debug("fetched", "url", u.String(), "status", resp.StatusCode, "bytes", len(body))
	return page
}
