package scraper

import (
	"sync"

	"github.com/veldt-labs/pyharvest-cli/internal/output"
)

// Deduper decides, exactly once per key, whether a candidate may be
// emitted. Keys present in the pre-existing snapshot are never emittable;
// keys claimed earlier in the current run are rejected on later calls.
// This is the only cross-worker mutable state in the pipeline.
type Deduper struct {
	// existing is a read-only snapshot taken at startup; it needs no lock.
	existing map[output.Key]struct{}

	mu   sync.Mutex
	seen map[output.Key]struct{}
}

// NewDeduper creates a deduper seeded with the keys of prior runs.
func NewDeduper(existing map[output.Key]struct{}) *Deduper {
	if existing == nil {
		existing = map[output.Key]struct{}{}
	}
	return &Deduper{
		existing: existing,
		seen:     make(map[output.Key]struct{}),
	}
}

// ShouldEmit reports whether key has never been seen and records it. The
// check and insert form a single critical section so two workers can never
// both claim the same key.
func (d *Deduper) ShouldEmit(key output.Key) bool {
	if _, ok := d.existing[key]; ok {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}
