package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/veldt-labs/pyharvest-cli/internal/progress"
)

// searchPageSize is the fixed page size for repository search.
const searchPageSize = 100

// Repo describes one repository returned by search. The default branch is
// resolved lazily, just before the tree walk.
type Repo struct {
	FullName string
	HTMLURL  string
}

// Searcher pages through the repository search. Pagination is strictly
// sequential: the search quota must be checked and honoured between pages,
// so pages are never fetched in parallel.
type Searcher struct {
	client  *Client
	monitor *Monitor
	log     *slog.Logger
}

// NewSearcher creates a searcher using client for pages and monitor for
// pre-page quota checks.
func NewSearcher(client *Client, monitor *Monitor, log *slog.Logger) *Searcher {
	return &Searcher{client: client, monitor: monitor, log: log}
}

// BuildQuery combines the language filter, the closed push-date range and
// the public-visibility filter into a search query string.
func BuildQuery(language string, start, end time.Time) string {
	return fmt.Sprintf("language:%s pushed:%s..%s is:public",
		language, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// Search collects up to target repositories matching query, most recently
// updated first. It stops early when a page comes back empty or short, and
// a failed page terminates the loop with the repositories gathered so far
// rather than failing the run. meter advances once per repository found.
func (s *Searcher) Search(ctx context.Context, query string, target int, meter progress.Meter) []Repo {
	var repos []Repo

	for page := 1; len(repos) < target; page++ {
		if snap, err := s.monitor.Status(ctx); err != nil {
			s.log.Warn("rate limit status unavailable, continuing without throttle", "error", err)
		} else if err := s.monitor.Throttle(ctx, CategorySearch, snap); err != nil {
			break
		}

		result, err := s.client.SearchPage(ctx, query, page, searchPageSize)
		if err != nil {
			s.log.Error("repository search failed", "page", page, "error", err)
			break
		}

		items := result.Repositories
		if len(items) == 0 {
			break
		}
		for _, r := range items {
			repos = append(repos, Repo{
				FullName: r.GetFullName(),
				HTMLURL:  r.GetHTMLURL(),
			})
			meter.Increment()
			if len(repos) >= target {
				break
			}
		}
		if len(items) < searchPageSize {
			break
		}
	}

	return repos
}
