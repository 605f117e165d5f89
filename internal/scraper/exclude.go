package scraper

import "strings"

// excludedPrefixes reject virtualenv, test and documentation directories at
// the repository root, plus hidden top-level entries.
var excludedPrefixes = []string{
	"env/",
	"venv/",
	"tests/",
	"docs/",
	".",
}

// excludedSegments reject vendored package directories at any depth.
var excludedSegments = []string{
	"site-packages/",
	"dist-packages/",
}

// Excluded reports whether path lies in a directory that never holds
// first-party source. Matching is by path prefix or whole segment, never
// bare substring: tests/unit/test_x.py is excluded while app/tests_helper.py
// is not.
func Excluded(path string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, seg := range excludedSegments {
		if strings.HasPrefix(path, seg) || strings.Contains(path, "/"+seg) {
			return true
		}
	}
	return false
}
