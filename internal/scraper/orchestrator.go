package scraper

import (
	"context"
	"log/slog"
	"sync"

	"github.com/veldt-labs/pyharvest-cli/internal/github"
	"github.com/veldt-labs/pyharvest-cli/internal/output"
	"github.com/veldt-labs/pyharvest-cli/internal/progress"
)

// TreeWalker abstracts Walker for the orchestrator and its tests.
type TreeWalker interface {
	Walk(ctx context.Context, repo github.Repo, filters Filters) ([]Candidate, error)
}

// Orchestrator fans repository processing out over a fixed-size worker pool
// and merges results behind a join barrier. Workers only contend on the
// deduper's critical section and the aggregate append.
type Orchestrator struct {
	walker  TreeWalker
	dedup   *Deduper
	log     *slog.Logger
	workers int
}

// NewOrchestrator creates an orchestrator running workers goroutines.
func NewOrchestrator(walker TreeWalker, dedup *Deduper, workers int, log *slog.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		walker:  walker,
		dedup:   dedup,
		log:     log,
		workers: workers,
	}
}

// Run processes every repository and returns the merged records plus the
// number of candidates rejected by deduplication. A failed repository is
// logged and contributes nothing; it never aborts its siblings. Record
// order follows task completion, not submission. meter advances once per
// finished repository.
func (o *Orchestrator) Run(ctx context.Context, repos []github.Repo, filters Filters, meter progress.Meter) ([]output.Record, int) {
	jobs := make(chan github.Repo)

	var (
		mu      sync.Mutex
		records []output.Record
		skipped int
	)

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for repo := range jobs {
				recs, skip := o.process(ctx, repo, filters)

				mu.Lock()
				records = append(records, recs...)
				skipped += skip
				mu.Unlock()

				meter.Increment()
			}
		}()
	}

	for _, repo := range repos {
		jobs <- repo
	}
	close(jobs)
	wg.Wait()

	return records, skipped
}

func (o *Orchestrator) process(ctx context.Context, repo github.Repo, filters Filters) ([]output.Record, int) {
	candidates, err := o.walker.Walk(ctx, repo, filters)
	if err != nil {
		o.log.Warn("repository contributed nothing", "repo", repo.FullName, "error", err)
		return nil, 0
	}

	var recs []output.Record
	skipped := 0
	for _, c := range candidates {
		key := output.Key{RepoURL: repo.HTMLURL, Path: c.Path}
		if !o.dedup.ShouldEmit(key) {
			skipped++
			continue
		}
		recs = append(recs, output.Record{
			RepoURL:      repo.HTMLURL,
			PythonFile:   c.Path,
			NumLines:     c.Lines,
			CommentRatio: c.CommentRatio,
		})
	}
	return recs, skipped
}
