package crawler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/clutchscan/clutchscan/internal/config"
	"github.com/clutchscan/clutchscan/internal/extract"
	"github.com/clutchscan/clutchscan/internal/fetch"
	"github.com/clutchscan/clutchscan/internal/model"
)

// Crawler drives the crawl of one or more directory categories. All
// fetches go through a single Fetcher so the shared rate limiter paces
// the whole run, and all failures are charged to a single FailureTally
// so the circuit breakers see the run as one unit.
type Crawler struct {
	fetcher fetch.Fetcher
	retry   *fetch.RetryPolicy
	tally   *fetch.FailureTally
	logger  *slog.Logger

	baseURL      string
	maxPages     int
	maxCompanies int
	maxReviews   int
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithRetryPolicy replaces the retry policy built from the configuration.
func WithRetryPolicy(p *fetch.RetryPolicy) Option {
	return func(c *Crawler) {
		c.retry = p
	}
}

// New creates a Crawler. Crawl limits, retry budget, and circuit-breaker
// thresholds come from cfg; the fetcher carries its own pacing.
func New(fetcher fetch.Fetcher, cfg *config.Config, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:      fetcher,
		tally:        fetch.NewFailureTally(cfg.MaxConsecutiveFailures, cfg.MaxTotalFailures),
		baseURL:      cfg.BaseURL,
		maxPages:     cfg.MaxPagesPerCategory,
		maxCompanies: cfg.MaxCompaniesPerPage,
		maxReviews:   cfg.MaxReviewsPerCompany,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.retry == nil {
		c.retry = fetch.NewRetryPolicy(cfg.MaxRetries, cfg.RetryDelay,
			fetch.WithRetryLogger(c.logger))
	}

	return c
}

// Tally returns the run's failure counts by error type. The CLI folds
// them into the end-of-run summary.
func (c *Crawler) Tally() map[string]int {
	return c.tally.Summary()
}

// ScrapeCategories crawls the given categories in order and returns the
// deduplicated results. A category that fails is logged and skipped; the
// run only stops early when the run-level failure cap trips, in which
// case the records collected so far are returned alongside ErrRunAborted.
func (c *Crawler) ScrapeCategories(ctx context.Context, categories []config.Category) ([]*model.ScrapedData, error) {
	var all []*model.ScrapedData

	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return Dedupe(all), err
		}

		c.logger.Info("scraping category", "category", category.Name, "url", category.URL)

		records, err := c.ScrapeCategory(ctx, category)
		all = append(all, records...)

		if err != nil {
			if ctx.Err() != nil || c.tally.RunExhausted() {
				c.logger.Error("run aborted", "category", category.Name, "error", err)
				return Dedupe(all), err
			}
			c.logger.Error("category failed", "category", category.Name, "error", err)
			continue
		}

		c.logger.Info("category complete", "category", category.Name, "records", len(records))
	}

	deduped := Dedupe(all)
	c.logger.Info("crawl complete",
		"records", len(all),
		"unique_companies", len(deduped),
		"failures", c.tally.Summary(),
	)
	return deduped, nil
}

// ScrapeCategory walks one category's listing pages up to the page cap,
// following next links until the directory runs out. Each listing is
// expanded into a full record when it links to a profile, or kept as a
// minimal listing-only record when it does not.
func (c *Crawler) ScrapeCategory(ctx context.Context, category config.Category) ([]*model.ScrapedData, error) {
	c.tally.ResetConsecutive(category.Name)

	var records []*model.ScrapedData
	pageURL := category.URL

	for page := 1; page <= c.maxPages && pageURL != ""; page++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		c.logger.Info("scraping page", "category", category.Name, "page", page, "url", pageURL)

		doc, err := c.fetchDocument(ctx, pageURL)
		if err != nil {
			// A listing page that cannot be fetched ends the category;
			// later pages are unreachable without its next link.
			c.tally.RecordFailure(category.Name, err)
			return records, fmt.Errorf("fetch listing page %s: %w", pageURL, err)
		}
		c.tally.RecordSuccess(category.Name)

		listings := extract.Listings(doc, c.baseURL)
		if len(listings) > c.maxCompanies {
			listings = listings[:c.maxCompanies]
		}
		c.logger.Info("found listings", "category", category.Name, "page", page, "count", len(listings))

		for _, listing := range listings {
			if err := ctx.Err(); err != nil {
				return records, err
			}

			record, err := c.processListing(ctx, listing, category.Name, pageURL)
			if err != nil {
				c.tally.RecordFailure(category.Name, err)
				c.logger.Warn("company failed",
					"company", listing.Name,
					"url", listing.URL,
					"error", err,
				)
				if c.tally.RunExhausted() {
					return records, fetch.ErrRunAborted
				}
				if c.tally.CategoryExhausted(category.Name) {
					return records, fmt.Errorf("category %s: too many consecutive failures", category.Name)
				}
				continue
			}
			c.tally.RecordSuccess(category.Name)
			records = append(records, record)
		}

		pagination := extract.ParsePagination(doc, c.baseURL)
		if !pagination.HasNext {
			break
		}
		pageURL = pagination.NextURL
	}

	return records, nil
}

// processListing turns one listing into a record. Listings without a
// profile link produce a minimal record from the listing data alone.
func (c *Crawler) processListing(ctx context.Context, listing extract.Listing, subcategory, pageURL string) (*model.ScrapedData, error) {
	if listing.URL == "" {
		record := model.NewScrapedData(subcategory, pageURL, "")
		record.Competitor = model.CompetitorInfo{
			Name:      listing.Name,
			Locations: listing.Locations,
		}
		return record, nil
	}

	var record *model.ScrapedData
	err := c.retry.Do(ctx, "scrape company "+listing.Name, func() error {
		var err error
		record, err = c.scrapeCompany(ctx, listing, subcategory)
		return err
	})
	return record, err
}

// scrapeCompany fetches a company's profile and review pages and builds
// the full record. A failed review fetch degrades to a record without
// reviews rather than failing the company.
func (c *Crawler) scrapeCompany(ctx context.Context, listing extract.Listing, subcategory string) (*model.ScrapedData, error) {
	doc, err := c.fetchDocument(ctx, listing.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", listing.URL, err)
	}

	profile := extract.CompanyProfile(doc)
	if profile.Name == "" {
		profile.Name = listing.Name
	}
	if len(profile.Locations) == 0 {
		profile.Locations = listing.Locations
	}

	record := model.NewScrapedData(subcategory, listing.URL, "")
	record.Competitor = model.CompetitorInfo{
		Name:      profile.Name,
		Locations: profile.Locations,
	}

	reviewDoc, err := c.fetchDocument(ctx, record.SourceURLReview)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		c.logger.Warn("review fetch failed, keeping record without reviews",
			"company", profile.Name,
			"url", record.SourceURLReview,
			"error", err,
		)
		return record, nil
	}
	record.Reviewers = extract.Reviews(reviewDoc, c.maxReviews)

	return record, nil
}

// fetchDocument fetches url and parses the body as HTML.
func (c *Crawler) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	result, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := extract.NewDocument(result.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
