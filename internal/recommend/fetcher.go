package recommend

import (
	"context"
	"strings"
	"sync"

	"github.com/animechat/backend/internal/jikan"
	"github.com/animechat/backend/internal/logger"
	"go.uber.org/zap"
)

// Fetcher issues one catalog search per distinct title over a bounded pool
// of workers. It is a synchronization barrier: every dispatched lookup
// completes (success or omission) before FetchAll returns.
type Fetcher struct {
	catalog jikan.API
	workers int
}

// NewFetcher creates a fetcher with the given worker-pool size
func NewFetcher(catalog jikan.API, workers int) *Fetcher {
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{catalog: catalog, workers: workers}
}

// FetchAll fetches candidates for every distinct title (case-insensitive,
// first occurrence kept) and returns the union of all successful result
// lists plus the titles that failed after the client's retries. A failing
// title never cancels its siblings.
func (f *Fetcher) FetchAll(ctx context.Context, titles []string) ([]jikan.Anime, []string) {
	distinct := dedupeTitles(titles)
	if len(distinct) == 0 {
		return []jikan.Anime{}, nil
	}

	jobs := make(chan string)
	type outcome struct {
		title   string
		results []jikan.Anime
		err     error
	}
	outcomes := make(chan outcome, len(distinct))

	var wg sync.WaitGroup
	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for title := range jobs {
				results, err := f.catalog.Search(ctx, title)
				outcomes <- outcome{title: title, results: results, err: err}
			}
		}()
	}

	for _, title := range distinct {
		jobs <- title
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	union := make([]jikan.Anime, 0)
	var failed []string
	for o := range outcomes {
		if o.err != nil {
			logger.Log.Warn("candidate fetch failed, omitting title",
				logger.WithQuery(o.title),
				zap.Error(o.err),
			)
			failed = append(failed, o.title)
			continue
		}
		union = append(union, o.results...)
	}

	return union, failed
}

// dedupeTitles removes duplicate titles case-insensitively, preserving
// first-occurrence order.
func dedupeTitles(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	distinct := make([]string, 0, len(titles))
	for _, title := range titles {
		trimmed := strings.TrimSpace(title)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, trimmed)
	}
	return distinct
}
