// Package config holds the run parameters, their defaults, optional TOML
// defaults-file loading and the startup validation that gates any work.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DateLayout is the calendar-date format used on the CLI and in queries.
const DateLayout = "2006-01-02"

// Validation failures that abort the run before any work is dispatched.
var (
	ErrMissingToken = errors.New("config: GitHub token is required, set GITHUB_TOKEN")
	ErrDateOrder    = errors.New("config: start date is after end date")
	ErrLineBounds   = errors.New("config: min lines is greater than max lines")
)

// Params is the configuration surface the pipeline consumes.
type Params struct {
	MaxRepos         int     `toml:"max_repos"`
	MinLines         int     `toml:"min_lines"`
	MaxLines         int     `toml:"max_lines"`
	QualityThreshold float64 `toml:"quality_threshold"`
	MaxWorkers       int     `toml:"max_workers"`
	StartDate        string  `toml:"start_date"`
	EndDate          string  `toml:"end_date"`
	Language         string  `toml:"language"`
	OutputDir        string  `toml:"output_dir"`
	LogFile          string  `toml:"log_file"`

	// Token is supplied via environment, never via file or flag.
	Token string `toml:"-"`
}

// Defaults returns the parameter set used when nothing is overridden: the
// search window covers the year up to now.
func Defaults(now time.Time) Params {
	return Params{
		MaxRepos:         10,
		MinLines:         1,
		MaxLines:         100,
		QualityThreshold: 0,
		MaxWorkers:       5,
		StartDate:        now.AddDate(-1, 0, 0).Format(DateLayout),
		EndDate:          now.Format(DateLayout),
		Language:         "python",
		OutputDir:        ".",
		LogFile:          "pyharvest.log",
	}
}

// LoadFile merges values from a TOML defaults file into p. Fields absent
// from the file keep their current values.
func LoadFile(path string, p *Params) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the startup-fatal conditions.
func (p Params) Validate() error {
	if p.Token == "" {
		return ErrMissingToken
	}
	if p.MaxRepos < 1 {
		return fmt.Errorf("config: max repos must be positive, got %d", p.MaxRepos)
	}
	if p.MaxWorkers < 1 {
		return fmt.Errorf("config: max workers must be positive, got %d", p.MaxWorkers)
	}
	if p.MinLines > p.MaxLines {
		return ErrLineBounds
	}
	if p.QualityThreshold < 0 {
		return fmt.Errorf("config: quality threshold must be >= 0, got %g", p.QualityThreshold)
	}

	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return fmt.Errorf("config: invalid start date %q, want YYYY-MM-DD", p.StartDate)
	}
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return fmt.Errorf("config: invalid end date %q, want YYYY-MM-DD", p.EndDate)
	}
	if start.After(end) {
		return ErrDateOrder
	}
	return nil
}

// Dates returns the parsed date range. Call only after Validate passes.
func (p Params) Dates() (start, end time.Time) {
	start, _ = time.Parse(DateLayout, p.StartDate)
	end, _ = time.Parse(DateLayout, p.EndDate)
	return start, end
}
