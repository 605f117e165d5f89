// Package output defines the result artifact: the record shape, the
// parameterised output filename, the pretty-printed JSON writer and the
// loader that rebuilds the dedup key set from earlier runs.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Record is one emitted candidate file.
type Record struct {
	RepoURL      string  `json:"repo_url"`
	PythonFile   string  `json:"python_file"`
	NumLines     int     `json:"num_lines"`
	CommentRatio float64 `json:"comment_ratio"`
}

// Key identifies a record for deduplication.
type Key struct {
	RepoURL string
	Path    string
}

// Key returns the record's dedup key.
func (r Record) Key() Key {
	return Key{RepoURL: r.RepoURL, Path: r.PythonFile}
}

// Filename encodes the run parameters and a timestamp so no two runs
// collide and a result file is self-describing.
func Filename(now time.Time, maxRepos, minLines, maxLines int, quality float64, startDate, endDate string) string {
	return fmt.Sprintf("%s-%drepos-Min%d-Max%d-Quality%g-%s-%s.json",
		now.Format("20060102-150405"),
		maxRepos,
		minLines,
		maxLines,
		quality,
		strings.ReplaceAll(startDate, "-", ""),
		strings.ReplaceAll(endDate, "-", ""),
	)
}

// Write marshals records as a pretty-printed JSON array at path. An empty
// run writes an empty array, not null.
func Write(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// LoadExistingKeys scans dir for .json result files from earlier runs and
// collects their dedup keys. The returned set is a read-only snapshot:
// unreadable or malformed files are logged and skipped, never fatal.
func LoadExistingKeys(dir string, log *slog.Logger) map[Key]struct{} {
	keys := make(map[Key]struct{})

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("could not scan results directory", "dir", dir, "error", err)
		return keys
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("could not read prior results file", "file", path, "error", err)
			continue
		}
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			log.Warn("could not parse prior results file", "file", path, "error", err)
			continue
		}
		for _, r := range records {
			if r.RepoURL == "" || r.PythonFile == "" {
				continue
			}
			keys[r.Key()] = struct{}{}
		}
	}

	return keys
}
