package scraper

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veldt-labs/pyharvest-cli/internal/output"
)

func TestDeduper(t *testing.T) {
	key := output.Key{RepoURL: "https://github.com/a/b", Path: "main.py"}

	t.Run("first claim wins, second is rejected", func(t *testing.T) {
		d := NewDeduper(nil)

		assert.True(t, d.ShouldEmit(key))
		assert.False(t, d.ShouldEmit(key))
	})

	t.Run("pre-existing keys are never emittable", func(t *testing.T) {
		d := NewDeduper(map[output.Key]struct{}{key: {}})

		assert.False(t, d.ShouldEmit(key))
		assert.False(t, d.ShouldEmit(key))
	})

	t.Run("distinct keys do not interfere", func(t *testing.T) {
		d := NewDeduper(nil)
		other := output.Key{RepoURL: key.RepoURL, Path: "other.py"}

		assert.True(t, d.ShouldEmit(key))
		assert.True(t, d.ShouldEmit(other))
	})

	t.Run("concurrent claims on one key succeed exactly once", func(t *testing.T) {
		d := NewDeduper(nil)

		const goroutines = 64
		var emitted atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if d.ShouldEmit(key) {
					emitted.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), emitted.Load())
	})

	t.Run("concurrent claims on distinct keys all succeed", func(t *testing.T) {
		d := NewDeduper(nil)

		const goroutines = 32
		var emitted atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				k := output.Key{RepoURL: key.RepoURL, Path: fmt.Sprintf("f%d.py", n)}
				if d.ShouldEmit(k) {
					emitted.Add(1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(goroutines), emitted.Load())
	})
}
