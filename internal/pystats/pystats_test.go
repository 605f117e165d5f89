package pystats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	t.Run("empty file yields zero lines and zero ratio", func(t *testing.T) {
		st := Analyze("")

		assert.Equal(t, 0, st.TotalLines)
		assert.Equal(t, 0, st.CommentLines)
		assert.Equal(t, 0.0, st.CommentRatio)
	})

	t.Run("counts comments and derives percentage", func(t *testing.T) {
		content := strings.Join([]string{
			"# header",
			"#another",
			"   # indented",
			"x = 1",
			"y = 2",
			"z = 3",
			"a = 4",
			"b = 5",
			"c = 6",
			"d = 7",
		}, "\n")

		st := Analyze(content)

		assert.Equal(t, 10, st.TotalLines)
		assert.Equal(t, 3, st.CommentLines)
		assert.InDelta(t, 3.0/7.0*100, st.CommentRatio, 1e-9)
	})

	t.Run("trailing newline does not add a line", func(t *testing.T) {
		assert.Equal(t, 2, Analyze("a = 1\nb = 2\n").TotalLines)
		assert.Equal(t, 2, Analyze("a = 1\nb = 2").TotalLines)
	})

	t.Run("lone newline is one line", func(t *testing.T) {
		assert.Equal(t, 1, Analyze("\n").TotalLines)
	})

	t.Run("windows line endings", func(t *testing.T) {
		st := Analyze("# c\r\nx = 1\r\n")

		assert.Equal(t, 2, st.TotalLines)
		assert.Equal(t, 1, st.CommentLines)
	})

	t.Run("all-comment file reports zero ratio", func(t *testing.T) {
		st := Analyze("# one\n# two\n")

		assert.Equal(t, 2, st.TotalLines)
		assert.Equal(t, 2, st.CommentLines)
		assert.Equal(t, 0.0, st.CommentRatio)
	})

	t.Run("hash inside code is not a comment", func(t *testing.T) {
		st := Analyze("x = '#nope'\n# yes\n")

		assert.Equal(t, 1, st.CommentLines)
	})

	t.Run("ratio is never negative and lines always balance", func(t *testing.T) {
		inputs := []string{
			"",
			"\n",
			"# a",
			"x = 1",
			"# a\nx\n# b\ny",
			"\t# tabbed comment\ncode",
		}
		for _, in := range inputs {
			st := Analyze(in)
			assert.GreaterOrEqual(t, st.CommentRatio, 0.0)
			assert.LessOrEqual(t, st.CommentLines, st.TotalLines)
		}
	})
}
