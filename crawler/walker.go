package crawler

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"mirrorwalk/urlutil"
)

// Config holds walker settings.
type Config struct {
	Concurrency int // number of concurrent fetch workers
}

// Walker discovers every same-host page reachable from a root URL, fetching
// each distinct URL at most once per walk. Fetches go through a PageGetter so
// repeated runs are served from the page cache.
type Walker struct {
	cfg        Config
	pages      PageGetter
	visited    sync.Map
	progressCh chan<- Event
}

// NewWalker creates a Walker. progressCh is optional; pass nil to disable
// progress events.
func NewWalker(cfg Config, pages PageGetter, progressCh chan<- Event) *Walker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	return &Walker{cfg: cfg, pages: pages, progressCh: progressCh}
}

type walkResult struct {
	page *Page
	err  error
}

// Walk crawls the site rooted at root and returns the discovered page set.
// The root must be reachable; every other fetch failure becomes a sentinel
// page in the result rather than an error. A Walker is good for one walk.
func (w *Walker) Walk(ctx context.Context, root urlutil.URL) (*Site, error) {
	// Validate the root up front. The page comes from the cache, so the
	// worker that handles the seeded job below gets a cache hit, not a
	// second fetch.
	rootPage, err := w.pages.GetPage(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("fetch root %s: %w", root, err)
	}
	if rootPage.Failed() {
		return nil, fmt.Errorf("root %s is unreachable: %s", root, rootPage.FetchError)
	}

	site := NewSite(root)

	jobs := make(chan urlutil.URL, w.cfg.Concurrency*3)
	results := make(chan walkResult, w.cfg.Concurrency*3)

	var pendingJobs sync.WaitGroup

	errGroup, groupCtx := errgroup.WithContext(ctx)

	// Workers run until the jobs channel closes. They are not torn down on
	// cancellation; a cancelled context makes GetPage return immediately, so
	// every pending job still produces exactly one result and the
	// WaitGroup accounting stays exact.
	for i := 0; i < w.cfg.Concurrency; i++ {
		errGroup.Go(func() error {
			for job := range jobs {
				page, getErr := w.pages.GetPage(groupCtx, job)
				results <- walkResult{page: page, err: getErr}
			}
			return nil
		})
	}

	// Mark the root visited before seeding its job.
	w.visited.Store(root, true)
	pendingJobs.Add(1)
	jobs <- root

	errGroup.Go(func() error {
		pendingJobs.Wait()
		close(results)
		return nil
	})

	// Coordinator: collect pages, expand unvisited same-host links.
	var walkErr error
	for res := range results {
		if res.err != nil {
			if walkErr == nil {
				walkErr = res.err
			}
			pendingJobs.Done()
			continue
		}

		page := res.page
		site.Add(page)

		if w.progressCh != nil {
			w.progressCh <- Event{
				Phase:      PhaseCrawl,
				URL:        page.URL.String(),
				StatusCode: page.StatusCode,
				Error:      page.FetchError,
				Done:       site.Len(),
			}
		}

		// Sentinel pages halt expansion: there is no body worth parsing and
		// the failure is already recorded for the report.
		if !page.Failed() && ctx.Err() == nil && walkErr == nil {
			var frontier []urlutil.URL
			for _, link := range ExtractLinks(bytes.NewReader(page.Body), page.URL) {
				if _, loaded := w.visited.LoadOrStore(link, true); loaded {
					continue
				}
				frontier = append(frontier, link)
			}
			if len(frontier) > 0 {
				// Dispatch off the coordinator goroutine so a link-heavy page
				// cannot wedge the jobs/results channels against each other.
				pendingJobs.Add(len(frontier))
				go func(batch []urlutil.URL) {
					for _, link := range batch {
						jobs <- link
					}
				}(frontier)
			}
		}

		pendingJobs.Done()
	}

	close(jobs)

	if waitErr := errGroup.Wait(); waitErr != nil && walkErr == nil {
		walkErr = waitErr
	}
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, ctxErr)
	}

	return site, nil
}
