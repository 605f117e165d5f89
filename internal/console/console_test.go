package console

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	t.Run("notices end with a newline", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewWithWriter(&buf)

		c.Infof("found %d repositories", 42)

		out := buf.String()
		assert.Contains(t, out, "found 42 repositories")
		assert.True(t, out[len(out)-1] == '\n')
	})

	t.Run("all levels reach the writer", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewWithWriter(&buf)

		c.Infof("info")
		c.Successf("success")
		c.Warnf("warn")
		c.Errorf("error")

		out := buf.String()
		for _, want := range []string{"info", "success", "warn", "error"} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("concurrent notices never interleave mid-line", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewWithWriter(&buf)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Infof("abcdefghij")
			}()
		}
		wg.Wait()

		for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			assert.Contains(t, string(line), "abcdefghij")
		}
	})
}
