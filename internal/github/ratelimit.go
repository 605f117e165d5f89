package github

import (
	"context"
	"log/slog"
	"time"

	gh "github.com/google/go-github/v68/github"
)

// Category names one of the independently metered API quotas.
type Category string

const (
	CategoryCore   Category = "core"
	CategorySearch Category = "search"
)

// Bucket is the quota state for one category.
type Bucket struct {
	Remaining int
	Reset     time.Time
}

// Snapshot is a point-in-time view of the per-category quotas. It is
// fetched fresh before every check and never cached across checks.
type Snapshot struct {
	Core   Bucket
	Search Bucket
}

func (s Snapshot) bucket(cat Category) Bucket {
	if cat == CategorySearch {
		return s.Search
	}
	return s.Core
}

// Monitor inspects the remote rate-limit state and pauses callers when a
// category is close to exhaustion.
type Monitor struct {
	client *Client
	log    *slog.Logger

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewMonitor creates a monitor backed by client.
func NewMonitor(client *Client, log *slog.Logger) *Monitor {
	return &Monitor{
		client: client,
		log:    log,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Status fetches a fresh rate-limit snapshot.
func (m *Monitor) Status(ctx context.Context) (Snapshot, error) {
	limits, err := m.client.RateLimits(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Core:   toBucket(limits.Core),
		Search: toBucket(limits.Search),
	}, nil
}

// Throttle blocks until the category's quota resets when at most one
// request remains. The threshold is one rather than zero because the very
// next call would consume the last request; the extra second keeps the
// resumed call clear of the reset boundary.
func (m *Monitor) Throttle(ctx context.Context, cat Category, snap Snapshot) error {
	b := snap.bucket(cat)
	if b.Remaining > 1 {
		return nil
	}

	wait := b.Reset.Sub(m.now()) + time.Second
	if wait < 0 {
		wait = 0
	}
	m.log.Warn("rate limit low, waiting for reset",
		"category", string(cat),
		"remaining", b.Remaining,
		"reset", b.Reset.Format(time.RFC3339),
		"wait", wait,
	)
	return m.sleep(ctx, wait)
}

func toBucket(r *gh.Rate) Bucket {
	if r == nil {
		return Bucket{}
	}
	return Bucket{
		Remaining: r.Remaining,
		Reset:     r.Reset.Time,
	}
}
