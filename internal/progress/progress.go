// Package progress renders terminal progress bars and defines the Meter
// seam the pipeline reports through, so tests can run without a terminal.
package progress

import (
	"github.com/cheggaaa/pb/v3"
)

// Meter counts completed units of work. Implementations must tolerate
// concurrent increments from multiple workers.
type Meter interface {
	Increment()
}

// Discard is a Meter that drops every increment.
var Discard Meter = discard{}

type discard struct{}

func (discard) Increment() {}

// Bar is a terminal progress bar.
type Bar struct {
	bar *pb.ProgressBar
}

// NewBar starts a bar with the given total and description prefix.
func NewBar(total int, description string) *Bar {
	bar := pb.New(total)
	bar.Set("prefix", description+" ")
	bar.SetMaxWidth(100)
	bar.Start()
	return &Bar{bar: bar}
}

// Increment advances the bar by one unit.
func (b *Bar) Increment() {
	b.bar.Increment()
}

// SetCurrent sets the completed unit count directly.
func (b *Bar) SetCurrent(n int) {
	b.bar.SetCurrent(int64(n))
}

// Finish stops rendering and releases the line.
func (b *Bar) Finish() {
	b.bar.Finish()
}
