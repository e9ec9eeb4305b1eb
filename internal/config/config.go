package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The crawl limits match the conservative
// defaults of the original scraper; the delay bounds are deliberately wide
// because directory sites rate-limit aggressively.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "clutchscan"

	// DefaultMinDelay and DefaultMaxDelay bound the random politeness
	// delay inserted before each request. The actual delay is drawn
	// uniformly from [min, max] per request.
	DefaultMinDelay = 1 * time.Second
	DefaultMaxDelay = 3 * time.Second

	// DefaultTimeout is the per-request timeout. Directory pages are
	// heavy and slow behind anti-bot layers, so this is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the attempt budget for one fetch-dependent
	// unit of work before it is skipped.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay for linear retry backoff;
	// attempt n sleeps n times this value.
	DefaultRetryDelay = 2 * time.Second

	// DefaultMaxPagesPerCategory bounds page-by-page traversal of one
	// category regardless of how many "next" links the site offers.
	DefaultMaxPagesPerCategory = 5

	// DefaultMaxCompaniesPerPage caps how many listing elements are
	// processed per page. Excess elements are ignored, not an error.
	DefaultMaxCompaniesPerPage = 20

	// DefaultMaxReviewsPerCompany caps review extraction per profile.
	DefaultMaxReviewsPerCompany = 10

	// DefaultMaxConsecutiveFailures abandons a category after this many
	// consecutive failed units. DefaultMaxTotalFailures abandons the
	// whole run. Both are circuit breakers, not crashes.
	DefaultMaxConsecutiveFailures = 5
	DefaultMaxTotalFailures       = 20

	// DefaultConcurrency is the number of categories crawled at once.
	// Request pacing stays global regardless of this value: the shared
	// rate limiter serializes dispatch across all workers.
	DefaultConcurrency = 1

	// DefaultBaseURL is the directory site root used to resolve
	// relative profile and pagination links.
	DefaultBaseURL = "https://clutch.co"
)

// DefaultUserAgents is the rotation pool for the User-Agent header.
// A small pool of current desktop browser strings; one is chosen per
// request.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0",
}

// Config holds all options for a scraping run.
//
// Design decision: We use a single flat struct instead of nested sub-configs
// for the same reason the option count stays manageable: every knob is
// documented here in one place, and Validate() gives one clear startup
// error instead of failures scattered through the crawl.
type Config struct {
	// BaseURL is the directory site root. Relative links discovered
	// during extraction are resolved against it.
	BaseURL string `yaml:"base_url"`

	// MinDelay and MaxDelay bound the random delay enforced between
	// consecutive requests by the shared rate limiter.
	MinDelay time.Duration `yaml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the attempt budget for retryable failures.
	// RetryDelay is the linear backoff base: attempt n waits n*RetryDelay.
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`

	// Crawl limits. See the Default* constants for semantics.
	MaxPagesPerCategory  int `yaml:"max_pages_per_category"`
	MaxCompaniesPerPage  int `yaml:"max_companies_per_page"`
	MaxReviewsPerCompany int `yaml:"max_reviews_per_company"`

	// Circuit breaker thresholds.
	MaxConsecutiveFailures int `yaml:"max_consecutive_failures"`
	MaxTotalFailures       int `yaml:"max_total_failures"`

	// Concurrency is the number of categories processed concurrently.
	// Values above 1 still share one rate limiter, so the per-host
	// pacing invariant holds across workers.
	Concurrency int `yaml:"concurrency"`

	// OutputDir is where export files are written.
	OutputDir string `yaml:"output_dir"`

	// UserAgents is the User-Agent rotation pool. Empty means the
	// built-in defaults.
	UserAgents []string `yaml:"user_agents"`

	// Verbose enables slog.LevelDebug output.
	Verbose bool `yaml:"-"`

	// Targets selects which categories to crawl.
	Targets Targets `yaml:"targets"`
}

// NewConfig returns a Config populated with defaults.
//
// Design decision: A constructor rather than zero values because most
// defaults are non-zero, and the constructor doubles as documentation of
// what the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:                DefaultBaseURL,
		MinDelay:               DefaultMinDelay,
		MaxDelay:               DefaultMaxDelay,
		Timeout:                DefaultTimeout,
		MaxRetries:             DefaultMaxRetries,
		RetryDelay:             DefaultRetryDelay,
		MaxPagesPerCategory:    DefaultMaxPagesPerCategory,
		MaxCompaniesPerPage:    DefaultMaxCompaniesPerPage,
		MaxReviewsPerCompany:   DefaultMaxReviewsPerCompany,
		MaxConsecutiveFailures: DefaultMaxConsecutiveFailures,
		MaxTotalFailures:       DefaultMaxTotalFailures,
		Concurrency:            DefaultConcurrency,
		OutputDir:              DefaultOutputDir(),
		UserAgents:             append([]string(nil), DefaultUserAgents...),
	}
}

// DefaultOutputDir returns the XDG data directory for export files.
// On Linux: ~/.local/share/clutchscan/output
func DefaultOutputDir() string {
	return filepath.Join(xdg.DataHome, AppName, "output")
}

// Validate checks the configuration and returns the first problem found as
// a sentinel error. It is called once after flag parsing, before any
// crawling begins; validation failures are the only fatal errors in the
// system.
func (c *Config) Validate() error {
	if c.MinDelay < 0 {
		return ErrInvalidMinDelay
	}
	if c.MaxDelay < c.MinDelay {
		return ErrInvalidMaxDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if c.MaxPagesPerCategory <= 0 {
		return ErrInvalidMaxPages
	}
	if c.MaxCompaniesPerPage <= 0 {
		return ErrInvalidMaxCompanies
	}
	if c.MaxReviewsPerCompany <= 0 {
		return ErrInvalidMaxReviews
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	return nil
}
