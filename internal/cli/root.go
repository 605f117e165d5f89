// Package cli wires the command line to the pipeline: flag parsing and
// validation, token loading, logging setup, the startup rate-limit
// pre-flight, and the final write of the result artifact.
package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/veldt-labs/pyharvest-cli/internal/config"
	"github.com/veldt-labs/pyharvest-cli/internal/console"
	"github.com/veldt-labs/pyharvest-cli/internal/github"
	"github.com/veldt-labs/pyharvest-cli/internal/logger"
	"github.com/veldt-labs/pyharvest-cli/internal/output"
	"github.com/veldt-labs/pyharvest-cli/internal/progress"
	"github.com/veldt-labs/pyharvest-cli/internal/scraper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "pyharvest",
	Short: "Harvest small, well-commented Python files from public GitHub repositories",
	Long: `pyharvest searches GitHub for public Python repositories pushed within a
date range, walks their file trees, and collects .py files that fall inside
a line-count window and meet a minimum comment-to-code ratio. Results are
written as a JSON array; files already present in earlier result files in
the output directory are skipped.

A GitHub token is required via the GITHUB_TOKEN environment variable (a
.env file in the working directory is honoured).`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaults := config.Defaults(time.Now())

	rootCmd.Flags().StringVar(&configFile, "config", "", "TOML file with default parameters")
	rootCmd.Flags().Int("max-repos", defaults.MaxRepos, "number of repositories to process")
	rootCmd.Flags().Int("min-lines", defaults.MinLines, "minimum number of lines per file")
	rootCmd.Flags().Int("max-lines", defaults.MaxLines, "maximum number of lines per file")
	rootCmd.Flags().Float64("quality-threshold", defaults.QualityThreshold, "minimum comment-to-code ratio (percentage)")
	rootCmd.Flags().Int("max-workers", defaults.MaxWorkers, "number of concurrent repository workers")
	rootCmd.Flags().String("start-date", defaults.StartDate, "start of the push-date range (YYYY-MM-DD)")
	rootCmd.Flags().String("end-date", defaults.EndDate, "end of the push-date range (YYYY-MM-DD)")
	rootCmd.Flags().String("output-dir", defaults.OutputDir, "directory for result files and the dedup scan")
	rootCmd.Flags().String("log-file", defaults.LogFile, "log file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, _ []string) error {
	cons := console.New()

	params, err := buildParams(cmd)
	if err != nil {
		cons.Errorf("Error: %v", err)
		return err
	}
	if err := params.Validate(); err != nil {
		cons.Errorf("Error: %v", err)
		return err
	}

	log, closer, err := logger.New(params.LogFile, cons.Writer())
	if err != nil {
		cons.Errorf("Error: %v", err)
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	client := github.NewClient(ctx, params.Token, log)
	monitor := github.NewMonitor(client, log)

	// Startup pre-flight: an unreachable rate-limit endpoint is fatal
	// before any work is dispatched.
	snap, err := monitor.Status(ctx)
	if err != nil {
		cons.Errorf("Failed to retrieve initial rate limit status: %v", err)
		return err
	}
	cons.Successf("Initial rate limit status: core remaining %d, search remaining %d",
		snap.Core.Remaining, snap.Search.Remaining)

	if snap.Core.Remaining == 0 {
		cons.Warnf("Core rate limit exhausted, waiting until %s",
			snap.Core.Reset.Format(time.RFC1123))
		if err := monitor.Throttle(ctx, github.CategoryCore, snap); err != nil {
			return err
		}
		snap, err = monitor.Status(ctx)
		if err != nil {
			cons.Errorf("Failed to re-check rate limit status: %v", err)
			return err
		}
		cons.Successf("Rate limit status after waiting: core remaining %d, search remaining %d",
			snap.Core.Remaining, snap.Search.Remaining)
	}

	existing := output.LoadExistingKeys(params.OutputDir, log)
	log.Info("loaded existing result keys", "count", len(existing), "dir", params.OutputDir)

	start, end := params.Dates()
	query := github.BuildQuery(params.Language, start, end)
	searcher := github.NewSearcher(client, monitor, log)

	searchBar := progress.NewBar(params.MaxRepos, "Searching repositories")
	repos := searcher.Search(ctx, query, params.MaxRepos, searchBar)
	searchBar.SetCurrent(len(repos))
	searchBar.Finish()

	if len(repos) == 0 {
		cons.Warnf("No public repositories found matching the criteria.")
		return nil
	}
	log.Info("repository search complete", "found", len(repos), "query", query)

	walker := scraper.NewWalker(client, log)
	dedup := scraper.NewDeduper(existing)
	orch := scraper.NewOrchestrator(walker, dedup, params.MaxWorkers, log)
	filters := scraper.Filters{
		MinLines:         params.MinLines,
		MaxLines:         params.MaxLines,
		QualityThreshold: params.QualityThreshold,
	}

	processBar := progress.NewBar(len(repos), "Processing repositories")
	records, skipped := orch.Run(ctx, repos, filters, processBar)
	processBar.Finish()

	name := output.Filename(time.Now(), params.MaxRepos, params.MinLines, params.MaxLines,
		params.QualityThreshold, params.StartDate, params.EndDate)
	path := filepath.Join(params.OutputDir, name)
	if err := output.Write(path, records); err != nil {
		cons.Errorf("Error: %v", err)
		return err
	}

	cons.Infof("%d records added", len(records))
	cons.Warnf("%d records skipped (already present)", skipped)
	cons.Successf("Results saved to %s", path)
	return nil
}

// buildParams layers the configuration sources: compiled defaults, then an
// optional TOML file, then any flags the user actually set, and finally the
// token from the environment.
func buildParams(cmd *cobra.Command) (config.Params, error) {
	_ = godotenv.Load()

	params := config.Defaults(time.Now())
	if configFile != "" {
		if err := config.LoadFile(configFile, &params); err != nil {
			return params, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("max-repos") {
		params.MaxRepos, _ = flags.GetInt("max-repos")
	}
	if flags.Changed("min-lines") {
		params.MinLines, _ = flags.GetInt("min-lines")
	}
	if flags.Changed("max-lines") {
		params.MaxLines, _ = flags.GetInt("max-lines")
	}
	if flags.Changed("quality-threshold") {
		params.QualityThreshold, _ = flags.GetFloat64("quality-threshold")
	}
	if flags.Changed("max-workers") {
		params.MaxWorkers, _ = flags.GetInt("max-workers")
	}
	if flags.Changed("start-date") {
		params.StartDate, _ = flags.GetString("start-date")
	}
	if flags.Changed("end-date") {
		params.EndDate, _ = flags.GetString("end-date")
	}
	if flags.Changed("output-dir") {
		params.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("log-file") {
		params.LogFile, _ = flags.GetString("log-file")
	}

	params.Token = tokenFromEnv()
	return params, nil
}
