// Package console prints coloured status notices for interactive use. The
// log file keeps the full record; the console only carries what a user
// watching the run should see.
package console

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Console writes coloured notices to a terminal. The zero writer is
// os.Stdout; tests inject a buffer.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a console writing to stdout.
func New() *Console {
	return &Console{out: os.Stdout}
}

// NewWithWriter returns a console writing to w.
func NewWithWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Infof prints a cyan informational notice.
func (c *Console) Infof(format string, args ...any) {
	c.printf(color.New(color.FgCyan), format, args...)
}

// Successf prints a green notice.
func (c *Console) Successf(format string, args ...any) {
	c.printf(color.New(color.FgGreen), format, args...)
}

// Warnf prints a yellow notice.
func (c *Console) Warnf(format string, args ...any) {
	c.printf(color.New(color.FgYellow), format, args...)
}

// Errorf prints a red notice.
func (c *Console) Errorf(format string, args ...any) {
	c.printf(color.New(color.FgRed), format, args...)
}

// Writer returns the underlying writer, for wiring the console into the
// logger's warning echo.
func (c *Console) Writer() io.Writer {
	return c.out
}

func (c *Console) printf(col *color.Color, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	col.Fprintf(c.out, format+"\n", args...)
}
