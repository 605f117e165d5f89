// Package scraper holds the per-repository file walk, the shared dedup
// state and the worker-pool orchestration that ties the pipeline together.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gh "github.com/google/go-github/v68/github"

	"github.com/veldt-labs/pyharvest-cli/internal/github"
	"github.com/veldt-labs/pyharvest-cli/internal/pystats"
)

// RepoAPI is the slice of the API client the walker needs.
type RepoAPI interface {
	Repository(ctx context.Context, fullName string) (*gh.Repository, error)
	Tree(ctx context.Context, fullName, ref string) (*gh.Tree, error)
	FileContent(ctx context.Context, fullName, path string) (string, error)
}

// Filters bound which files qualify as candidates.
type Filters struct {
	MinLines         int
	MaxLines         int
	QualityThreshold float64
}

// Candidate is one source file that passed every filter, in tree-traversal
// order within its repository.
type Candidate struct {
	Path         string
	Lines        int
	CommentRatio float64
}

// Walker resolves a repository's default branch, lists its recursive tree
// and evaluates each eligible Python file. All calls for one repository run
// sequentially on the calling worker.
type Walker struct {
	api RepoAPI
	log *slog.Logger
}

// NewWalker creates a walker backed by api.
func NewWalker(api RepoAPI, log *slog.Logger) *Walker {
	return &Walker{api: api, log: log}
}

// Walk returns the filtered candidates for one repository. A metadata or
// tree failure means the repository contributes nothing and is reported as
// an error for the caller to log; per-file failures are logged here and the
// file is skipped.
func (w *Walker) Walk(ctx context.Context, repo github.Repo, filters Filters) ([]Candidate, error) {
	meta, err := w.api.Repository(ctx, repo.FullName)
	if err != nil {
		return nil, fmt.Errorf("repository metadata: %w", err)
	}
	branch := meta.GetDefaultBranch()
	if branch == "" {
		return nil, errors.New("repository metadata has no default branch")
	}

	tree, err := w.api.Tree(ctx, repo.FullName, branch)
	if err != nil {
		return nil, fmt.Errorf("tree for branch %s: %w", branch, err)
	}

	var candidates []Candidate
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		path := entry.GetPath()
		if !strings.HasSuffix(path, ".py") || Excluded(path) {
			continue
		}

		content, err := w.api.FileContent(ctx, repo.FullName, path)
		if err != nil {
			w.log.Warn("skipping file, content fetch failed",
				"repo", repo.FullName, "path", path, "error", err)
			continue
		}

		stats := pystats.Analyze(content)
		if stats.TotalLines < filters.MinLines || stats.TotalLines > filters.MaxLines {
			continue
		}
		if stats.CommentRatio < filters.QualityThreshold {
			continue
		}
		candidates = append(candidates, Candidate{
			Path:         path,
			Lines:        stats.TotalLines,
			CommentRatio: stats.CommentRatio,
		})
	}

	return candidates, nil
}
