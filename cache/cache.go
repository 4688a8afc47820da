// Package cache provides the content-addressed on-disk page store.
// Each distinct URL maps to one artifact named by the SHA-256 of its
// canonical textual form; hits skip the network entirely, so repeated runs
// are idempotent and cheap. Corrupt artifacts (from interrupted runs) are
// deleted and refetched automatically.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mirrorwalk/crawler"
	"mirrorwalk/urlutil"
)

// FetchFunc retrieves a page over the network. It must always return a Page;
// transport failures come back as sentinel pages, not errors.
type FetchFunc func(ctx context.Context, u urlutil.URL) *crawler.Page

// Cache is a persistent page store rooted at a directory. It implements
// crawler.PageGetter. Concurrent GetPage calls for the same URL may race past
// each other and both fetch; the write path uses temp-file+rename so readers
// never observe a partial artifact and the last writer wins.
type Cache struct {
	root  string
	fetch FetchFunc
	log   *slog.Logger
}

// entry is the on-disk artifact format. It is deliberately decoupled from
// crawler.Page so the cache layout survives changes to the in-memory type.
type entry struct {
	URL         string    `json:"url"`
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	FetchError  string    `json:"fetch_error,omitempty"`
}

// New creates a Cache rooted at dir, using fetch on misses. A nil logger uses
// slog.Default. The directory is created lazily on first write.
func New(dir string, fetch FetchFunc, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{root: dir, fetch: fetch, log: log}
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.root
}

// ArtifactPath returns the on-disk location for a URL's cache entry.
func (c *Cache) ArtifactPath(u urlutil.URL) string {
	sum := sha256.Sum256([]byte(u.String()))
	return filepath.Join(c.root, hex.EncodeToString(sum[:])+".cache")
}

// GetPage returns the cached page for u, fetching and storing it on a miss.
// It either returns a valid Page (possibly a sentinel for a failed fetch) or
// an error that should abort the whole run; it never silently returns an
// empty page.
func (c *Cache) GetPage(ctx context.Context, u urlutil.URL) (*crawler.Page, error) {
	artifact := c.ArtifactPath(u)

	page, ok, err := c.read(u, artifact)
	if err != nil {
		return nil, err
	}
	if ok {
		c.log.Debug("cache hit", "url", u.String(), "artifact", artifact)
		return page, nil
	}

	c.log.Debug("cache miss", "url", u.String(), "artifact", artifact)
	fetched := c.fetch(ctx, u)

	// A sentinel caused by cancellation is not a real observation of the
	// URL; persisting it would poison later runs.
	if fetched.Failed() && ctx.Err() != nil {
		return fetched, nil
	}

	if err := c.write(fetched, artifact); err != nil {
		return nil, err
	}

	// Read the artifact back so what we return is exactly what later runs
	// will see, and the write is verified.
	page, ok, err = c.read(u, artifact)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("cache artifact %s unreadable after write", artifact)
	}
	return page, nil
}

// read loads the artifact for u if a valid one exists. Corrupt artifacts are
// deleted and reported as absent so the caller refetches.
func (c *Cache) read(u urlutil.URL, artifact string) (*crawler.Page, bool, error) {
	data, err := os.ReadFile(artifact)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache artifact %s: %w", artifact, err)
	}

	var e entry
	if decodeErr := json.Unmarshal(data, &e); decodeErr != nil || e.URL != u.String() {
		c.log.Debug("corrupt cache artifact, deleting and refetching",
			"url", u.String(), "artifact", artifact, "error", decodeErr)
		if rmErr := os.Remove(artifact); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("remove corrupt cache artifact %s: %w", artifact, rmErr)
		}
		return nil, false, nil
	}

	return &crawler.Page{
		URL:         u,
		StatusCode:  e.StatusCode,
		ContentType: e.ContentType,
		Body:        e.Body,
		FetchedAt:   e.FetchedAt,
		FetchError:  e.FetchError,
	}, true, nil
}

// write serializes the page and installs it at artifact atomically.
func (c *Cache) write(page *crawler.Page, artifact string) error {
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", c.root, err)
	}

	data, err := json.Marshal(entry{
		URL:         page.URL.String(),
		StatusCode:  page.StatusCode,
		ContentType: page.ContentType,
		Body:        page.Body,
		FetchedAt:   page.FetchedAt,
		FetchError:  page.FetchError,
	})
	if err != nil {
		return fmt.Errorf("encode cache entry for %s: %w", page.URL, err)
	}

	// Write to a temp file in the same directory, then rename. Readers and
	// racing writers only ever see complete artifacts.
	tmp, err := os.CreateTemp(c.root, filepath.Base(artifact)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write cache temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close cache temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, artifact); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("install cache artifact %s: %w", artifact, err)
	}

	c.log.Debug("cached", "url", page.URL.String(), "artifact", artifact, "status", page.StatusCode)
	return nil
}
