// Package pystats computes line metrics for Python source text.
package pystats

import "strings"

// Stats holds the line metrics for one source file.
type Stats struct {
	TotalLines   int
	CommentLines int
	CommentRatio float64
}

// Analyze counts total lines and comment lines and derives the
// comment-to-code percentage. A line is a comment when its first
// non-whitespace character is '#'. An empty file yields zero lines and a
// 0.0 ratio. When the code-line count is zero the ratio is defined as 0.0,
// so an all-comment file reports 0 rather than a division by zero.
func Analyze(content string) Stats {
	lines := splitLines(content)
	total := len(lines)
	if total == 0 {
		return Stats{}
	}

	comments := 0
	for _, line := range lines {
		if isComment(line) {
			comments++
		}
	}

	code := total - comments
	ratio := 0.0
	if code > 0 {
		ratio = float64(comments) / float64(code) * 100
	}
	return Stats{
		TotalLines:   total,
		CommentLines: comments,
		CommentRatio: ratio,
	}
}

// splitLines splits on line terminators the way Python's splitlines does
// for the common cases: a trailing unterminated line still counts, and a
// trailing newline does not produce a phantom empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t\v\f"), "#")
}
