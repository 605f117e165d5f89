package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/pyharvest-cli/internal/logger"
	"github.com/veldt-labs/pyharvest-cli/internal/progress"
)

func TestBuildQuery(t *testing.T) {
	start := time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	q := BuildQuery("python", start, end)

	assert.Equal(t, "language:python pushed:2025-08-26..2026-08-26 is:public", q)
}

// searchServer serves a healthy rate limit and search pages built by pageFn.
// pageFn returns the number of items on the requested page, or -1 to fail
// the page.
func searchServer(t *testing.T, pageFn func(page int) int) (*Searcher, *atomic.Int32) {
	t.Helper()

	var searchHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, _ *http.Request) {
		reset := time.Now().Add(time.Minute).Unix()
		fmt.Fprintf(w, `{"resources":{
			"core":{"limit":5000,"remaining":4000,"reset":%d},
			"search":{"limit":30,"remaining":25,"reset":%d}
		}}`, reset, reset)
	})
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		searchHits.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		n := pageFn(page)
		if n < 0 {
			http.Error(w, `{"message":"server error"}`, http.StatusInternalServerError)
			return
		}

		items := make([]string, 0, n)
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("owner/repo-%d-%d", page, i)
			items = append(items, fmt.Sprintf(
				`{"full_name":%q,"html_url":"https://github.com/%s"}`, name, name))
		}
		fmt.Fprintf(w, `{"total_count":1000,"incomplete_results":false,"items":[%s]}`,
			strings.Join(items, ","))
	})

	c := testClient(t, mux)
	log := logger.NewDiscard()
	return NewSearcher(c, NewMonitor(c, log), log), &searchHits
}

func TestSearcher_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("truncates to the target across full pages", func(t *testing.T) {
		s, hits := searchServer(t, func(int) int { return searchPageSize })

		repos := s.Search(ctx, "q", 120, progress.Discard)

		require.Len(t, repos, 120)
		assert.Equal(t, int32(2), hits.Load())
		assert.Equal(t, "owner/repo-1-0", repos[0].FullName)
		assert.Equal(t, "https://github.com/owner/repo-1-0", repos[0].HTMLURL)
		assert.Equal(t, "owner/repo-2-19", repos[119].FullName)
	})

	t.Run("a short page ends the result set", func(t *testing.T) {
		s, hits := searchServer(t, func(int) int { return 30 })

		repos := s.Search(ctx, "q", 100, progress.Discard)

		assert.Len(t, repos, 30)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("an empty first page yields nothing", func(t *testing.T) {
		s, _ := searchServer(t, func(int) int { return 0 })

		repos := s.Search(ctx, "q", 100, progress.Discard)

		assert.Empty(t, repos)
	})

	t.Run("a failed page keeps what was already gathered", func(t *testing.T) {
		s, _ := searchServer(t, func(page int) int {
			if page == 2 {
				return -1
			}
			return searchPageSize
		})

		repos := s.Search(ctx, "q", 250, progress.Discard)

		assert.Len(t, repos, searchPageSize)
	})

	t.Run("progress advances once per repository", func(t *testing.T) {
		s, _ := searchServer(t, func(int) int { return 40 })
		meter := &countingMeter{}

		repos := s.Search(ctx, "q", 100, meter)

		assert.Equal(t, int32(len(repos)), meter.count.Load())
	})

	t.Run("passes the fixed page size and recency sort", func(t *testing.T) {
		var query, perPage, sort, order string
		mux := http.NewServeMux()
		mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, _ *http.Request) {
			reset := time.Now().Add(time.Minute).Unix()
			fmt.Fprintf(w, `{"resources":{
				"core":{"limit":5000,"remaining":4000,"reset":%d},
				"search":{"limit":30,"remaining":25,"reset":%d}
			}}`, reset, reset)
		})
		mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			query, perPage, sort, order = q.Get("q"), q.Get("per_page"), q.Get("sort"), q.Get("order")
			fmt.Fprint(w, `{"total_count":0,"incomplete_results":false,"items":[]}`)
		})
		c := testClient(t, mux)
		log := logger.NewDiscard()
		s := NewSearcher(c, NewMonitor(c, log), log)

		s.Search(ctx, "language:python is:public", 10, progress.Discard)

		assert.Equal(t, "language:python is:public", query)
		assert.Equal(t, "100", perPage)
		assert.Equal(t, "updated", sort)
		assert.Equal(t, "desc", order)
	})
}

type countingMeter struct {
	count atomic.Int32
}

func (m *countingMeter) Increment() { m.count.Add(1) }
