package github

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the HTTP request timeout for a single attempt.
	DefaultTimeout = 30 * time.Second

	// UserAgent identifies this client on every request.
	UserAgent = "pyharvest/1.0"

	// MaxAttempts is the total attempt ceiling per API call.
	MaxAttempts = 3

	// RetryBaseDelay is the pause before the first retry; later retries
	// double it.
	RetryBaseDelay = 5 * time.Second

	// ProactiveRate is the token-bucket throttle rate (~1.2 req/sec),
	// keeping sustained usage under the 5000/hour core limit.
	ProactiveRate = 1.2
)

// Client wraps the go-github client with retrying, proactively throttled
// accessors for the handful of endpoints the pipeline consumes.
type Client struct {
	gh     *gh.Client
	log    *slog.Logger
	bucket *rate.Limiter

	maxAttempts int
	retryBase   time.Duration
	sleep       func(context.Context, time.Duration) error
}

// NewClient creates a client authenticated with a static bearer token.
func NewClient(ctx context.Context, token string, log *slog.Logger) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	ghc := gh.NewClient(tc)
	ghc.UserAgent = UserAgent
	return newClient(ghc, log)
}

// NewClientFromGitHub wraps an existing go-github client. Tests use this to
// point the client at a local test server.
func NewClientFromGitHub(ghc *gh.Client, log *slog.Logger) *Client {
	return newClient(ghc, log)
}

func newClient(ghc *gh.Client, log *slog.Logger) *Client {
	return &Client{
		gh:          ghc,
		log:         log,
		bucket:      rate.NewLimiter(rate.Limit(ProactiveRate), 1),
		maxAttempts: MaxAttempts,
		retryBase:   RetryBaseDelay,
		sleep:       sleepCtx,
	}
}

// Repository fetches repository metadata, including the default branch.
func (c *Client) Repository(ctx context.Context, fullName string) (*gh.Repository, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}
	return do(ctx, c, "get repository "+fullName, func() (*gh.Repository, *gh.Response, error) {
		return c.gh.Repositories.Get(ctx, owner, name)
	})
}

// Tree fetches the full recursive file tree for a repository at ref.
func (c *Client) Tree(ctx context.Context, fullName, ref string) (*gh.Tree, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}
	return do(ctx, c, "get tree "+fullName+"@"+ref, func() (*gh.Tree, *gh.Response, error) {
		return c.gh.Git.GetTree(ctx, owner, name, ref, true)
	})
}

// FileContent fetches one file through the contents API and decodes it from
// its base64 transport encoding. Invalid byte sequences are replaced rather
// than rejected, so a file with a broken encoding still yields usable text.
func (c *Client) FileContent(ctx context.Context, fullName, path string) (string, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return "", err
	}
	content, err := do(ctx, c, "get contents "+fullName+"/"+path, func() (*gh.RepositoryContent, *gh.Response, error) {
		file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, name, path, nil)
		return file, resp, err
	})
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", fmt.Errorf("github: %s/%s is a directory, not a file", fullName, path)
	}
	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode content of %s/%s: %w", fullName, path, err)
	}
	return strings.ToValidUTF8(decoded, "�"), nil
}

// RateLimits fetches the current per-category quota state.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	return do(ctx, c, "get rate limit", func() (*gh.RateLimits, *gh.Response, error) {
		return c.gh.RateLimit.Get(ctx)
	})
}

// SearchPage fetches one page of the repository search, sorted by most
// recently updated first.
func (c *Client) SearchPage(ctx context.Context, query string, page, perPage int) (*gh.RepositoriesSearchResult, error) {
	opts := &gh.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: gh.ListOptions{
			PerPage: perPage,
			Page:    page,
		},
	}
	return do(ctx, c, fmt.Sprintf("search repositories page %d", page), func() (*gh.RepositoriesSearchResult, *gh.Response, error) {
		return c.gh.Search.Repositories(ctx, query, opts)
	})
}

func splitFullName(fullName string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("github: malformed repository name %q", fullName)
	}
	return owner, name, nil
}
