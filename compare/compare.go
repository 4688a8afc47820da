// Package compare mirrors every path discovered on an original site against a
// target host and reports the status codes side by side.
package compare

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"mirrorwalk/crawler"
	"mirrorwalk/urlutil"
)

// Row is one line of the comparison report, covering a single path found on
// the original site.
type Row struct {
	Original       string // absolute URL on the original host
	Target         string // absolute URL on the target host
	OriginalStatus int
	TargetStatus   int
	OriginalPath   string
	TargetPath     string
}

// Mismatch reports whether the original and target status codes differ.
func (r Row) Mismatch() bool {
	return r.OriginalStatus != r.TargetStatus
}

// Run fetches, for every page in the walked original site, the corresponding
// URL on the target root's host and returns one row per path in the site's
// discovery order. The target's own link graph is never walked; pages are
// fetched lazily through the same cache. Fetches run concurrently but row
// order is preserved.
func Run(ctx context.Context, site *crawler.Site, target urlutil.URL, pages crawler.PageGetter, concurrency int, progressCh chan<- crawler.Event) ([]Row, error) {
	if concurrency <= 0 {
		concurrency = 8
	}

	urls := site.URLs()
	rows := make([]Row, len(urls))

	errGroup, groupCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(concurrency)

	var mu sync.Mutex
	var done int
	for i, u := range urls {
		i, u := i, u
		errGroup.Go(func() error {
			targetURL := u.WithHost(target.Host)
			targetURL.Scheme = target.Scheme

			targetPage, err := pages.GetPage(groupCtx, targetURL)
			if err != nil {
				return fmt.Errorf("fetch target %s: %w", targetURL, err)
			}
			original := site.Pages[u]

			rows[i] = Row{
				Original:       original.URL.String(),
				Target:         targetPage.URL.String(),
				OriginalStatus: original.StatusCode,
				TargetStatus:   targetPage.StatusCode,
				OriginalPath:   original.URL.Path,
				TargetPath:     targetPage.URL.Path,
			}

			if progressCh != nil {
				mu.Lock()
				done++
				n := done
				mu.Unlock()
				progressCh <- crawler.Event{
					Phase:      crawler.PhaseCompare,
					URL:        targetURL.String(),
					StatusCode: targetPage.StatusCode,
					Error:      targetPage.FetchError,
					Done:       n,
				}
			}
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Mismatches returns the rows whose status codes differ, preserving order.
func Mismatches(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if r.Mismatch() {
			out = append(out, r)
		}
	}
	return out
}
