package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clutchscan/clutchscan/internal/config"
	"github.com/clutchscan/clutchscan/internal/crawler"
	"github.com/clutchscan/clutchscan/internal/export"
	"github.com/clutchscan/clutchscan/internal/fetch"
	applog "github.com/clutchscan/clutchscan/internal/log"
	"github.com/clutchscan/clutchscan/internal/model"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl directory categories and export the results",
		Long: `Scrape crawls the configured Development subcategories, expands every
listed company into a full record with profile details and client
reviews, deduplicates companies found through more than one category,
and exports the result set.

Examples:
  # Crawl every Development subcategory with default limits
  clutchscan scrape

  # Crawl two categories, three pages each
  clutchscan scrape --categories "Web Developers,Mobile Apps" --max-pages 3

  # Skip a category and write output elsewhere
  clutchscan scrape --skip-categories "Drupal" --output ./data

  # Only the flat formats
  clutchscan scrape --formats csv,sqlite

Configuration file (.clutchscan) example:
  min_delay: 2s
  max_delay: 5s
  max_pages_per_category: 3
  targets:
    include:
      - Web Developers
      - Mobile Apps`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	// Politeness and transport flags
	cmd.Flags().Duration("min-delay", config.DefaultMinDelay,
		"Minimum delay between requests")
	cmd.Flags().Duration("max-delay", config.DefaultMaxDelay,
		"Maximum delay between requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().Int("max-retries", config.DefaultMaxRetries,
		"Attempt budget for retryable failures")

	// Crawl limit flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPagesPerCategory,
		"Maximum listing pages per category")
	cmd.Flags().Int("max-companies", config.DefaultMaxCompaniesPerPage,
		"Maximum companies per listing page")
	cmd.Flags().Int("max-reviews", config.DefaultMaxReviewsPerCompany,
		"Maximum reviews per company")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of categories crawled concurrently")

	// Category selection flags
	cmd.Flags().String("categories", "",
		"Comma-separated category names to crawl (default: all)")
	cmd.Flags().String("skip-categories", "",
		"Comma-separated category names to skip")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .clutchscan in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Output directory for export files (default: XDG data directory)")
	cmd.Flags().String("formats", "",
		"Comma-separated export formats: json,csv,sqlite,markdown,summary (default: all)")
	cmd.Flags().String("base-name", "",
		"Base file name for exports (default: clutch_data_<timestamp>)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	baseName, err := cmd.Flags().GetString("base-name")
	if err != nil {
		return err
	}
	formats, err := parseFormats(cmd)
	if err != nil {
		return err
	}

	return runScrape(ctx, cmd, cfg, baseName, formats, logger)
}

// buildConfig layers the configuration: defaults, then the config file,
// then environment variables, then explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPathFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath := config.FindConfigFile(configPathFlag)
	if configPath != "" {
		if err := config.LoadConfigFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	} else if configPathFlag != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPathFlag)
	}

	config.ApplyEnv(cfg)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlags copies explicitly set flag values over the configuration so
// flags always win over the file and the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("min-delay") {
		if cfg.MinDelay, err = flags.GetDuration("min-delay"); err != nil {
			return err
		}
	}
	if flags.Changed("max-delay") {
		if cfg.MaxDelay, err = flags.GetDuration("max-delay"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("max-retries") {
		if cfg.MaxRetries, err = flags.GetInt("max-retries"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPagesPerCategory, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("max-companies") {
		if cfg.MaxCompaniesPerPage, err = flags.GetInt("max-companies"); err != nil {
			return err
		}
	}
	if flags.Changed("max-reviews") {
		if cfg.MaxReviewsPerCompany, err = flags.GetInt("max-reviews"); err != nil {
			return err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("categories") {
		s, err := flags.GetString("categories")
		if err != nil {
			return err
		}
		cfg.Targets.Include = splitCommaList(s)
	}
	if flags.Changed("skip-categories") {
		s, err := flags.GetString("skip-categories")
		if err != nil {
			return err
		}
		cfg.Targets.Skip = splitCommaList(s)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	return applog.New(os.Stderr, verbose)
}

// parseFormats reads the --formats flag into export formats.
func parseFormats(cmd *cobra.Command) ([]export.Format, error) {
	s, err := cmd.Flags().GetString("formats")
	if err != nil {
		return nil, err
	}
	if s == "" {
		return export.Formats(), nil
	}

	known := make(map[export.Format]bool, len(export.Formats()))
	for _, f := range export.Formats() {
		known[f] = true
	}

	var formats []export.Format
	for _, name := range splitCommaList(s) {
		f := export.Format(name)
		if !known[f] {
			return nil, fmt.Errorf("unknown export format %q", name)
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// runScrape executes the crawl and exports the results.
func runScrape(ctx context.Context, cmd *cobra.Command, cfg *config.Config, baseName string, formats []export.Format, logger *slog.Logger) error {
	categories := cfg.Targets.Filter(config.DevelopmentCategories)
	if len(categories) == 0 {
		return errors.New("no categories selected (check --categories against 'clutchscan categories')")
	}
	for _, name := range cfg.Targets.Unknown(config.DevelopmentCategories) {
		logger.Warn("unknown category name ignored", "name", name)
	}

	logger.Info("starting crawl",
		"categories", len(categories),
		"max_pages", cfg.MaxPagesPerCategory,
		"concurrency", cfg.Concurrency,
		"output", cfg.OutputDir,
	)

	limiter := fetch.NewRateLimiter(cfg.MinDelay, cfg.MaxDelay)
	client := fetch.NewClient(cfg.Timeout, limiter,
		fetch.WithUserAgents(cfg.UserAgents),
		fetch.WithLogger(logger),
	)
	c := crawler.New(client, cfg, crawler.WithLogger(logger))

	var records []*model.ScrapedData
	var crawlErr error
	if cfg.Concurrency > 1 {
		runner := crawler.NewBatchRunner(c, cfg.Concurrency, crawler.WithBatchLogger(logger))
		records, crawlErr = runner.Run(ctx, categories)
	} else {
		records, crawlErr = c.ScrapeCategories(ctx, categories)
	}

	if crawlErr != nil {
		// Partial results are still worth exporting; the error decides
		// the exit status after the export.
		logger.Error("crawl ended early", "error", crawlErr, "records", len(records))
	}

	failures := c.Tally()

	if len(records) == 0 {
		// Nothing to export, but the run still ends with the summary so
		// the error tally reaches the user.
		if err := export.WriteSummary(cmd.OutOrStdout(), nil, failures); err != nil {
			return err
		}
		if crawlErr != nil {
			return fmt.Errorf("crawl failed with no records: %w", crawlErr)
		}
		return errors.New("no records collected")
	}

	manager, err := export.NewManager(cfg.OutputDir,
		export.WithFormats(formats),
		export.WithFailures(failures),
		export.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	written, exportErr := manager.ExportAll(records, baseName)
	for format, path := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", format, path)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	if err := export.WriteSummary(cmd.OutOrStdout(), records, failures); err != nil {
		return err
	}

	return errors.Join(crawlErr, exportErr)
}

// splitCommaList splits a comma-separated flag value, trimming blanks.
func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
