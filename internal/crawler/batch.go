package crawler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clutchscan/clutchscan/internal/config"
	"github.com/clutchscan/clutchscan/internal/fetch"
	"github.com/clutchscan/clutchscan/internal/model"
)

// BatchRunner crawls categories concurrently. It exists separately from
// Crawler so the sequential path stays simple; when the configured
// concurrency is 1 the runner degrades to the same behavior.
//
// Workers share one Crawler and therefore one Fetcher, so the site still
// sees at most one request per politeness interval no matter how many
// categories are in flight.
type BatchRunner struct {
	crawler     *Crawler
	concurrency int
	logger      *slog.Logger

	// results accumulate per category. Access is synchronized via mutex.
	results []*model.ScrapedData
	mu      sync.Mutex
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets a custom logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// NewBatchRunner creates a runner over an existing Crawler. Concurrency
// below 1 is treated as 1.
func NewBatchRunner(c *Crawler, concurrency int, opts ...BatchOption) *BatchRunner {
	if concurrency < 1 {
		concurrency = 1
	}

	b := &BatchRunner{
		crawler:     c,
		concurrency: concurrency,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Run crawls all categories with at most the configured number in flight
// and returns the deduplicated results. A failed category does not stop
// the others; only a tripped run-level breaker or context cancellation
// ends the batch early. Partial results are returned either way.
func (b *BatchRunner) Run(ctx context.Context, categories []config.Category) ([]*model.ScrapedData, error) {
	b.logger.Info("starting batch crawl",
		"categories", len(categories),
		"concurrency", b.concurrency,
	)

	start := time.Now()
	b.results = b.results[:0]

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, category := range categories {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			records, err := b.crawler.ScrapeCategory(ctx, category)

			b.mu.Lock()
			b.results = append(b.results, records...)
			b.mu.Unlock()

			if err != nil {
				if errors.Is(err, fetch.ErrRunAborted) || ctx.Err() != nil {
					return err
				}
				// Other category failures are recorded in the tally and
				// must not cancel the sibling workers.
				b.logger.Error("category failed", "category", category.Name, "error", err)
				return nil
			}

			b.logger.Info("category complete", "category", category.Name, "records", len(records))
			return nil
		})
	}

	err := g.Wait()

	deduped := Dedupe(b.results)
	b.logger.Info("batch crawl complete",
		"records", len(b.results),
		"unique_companies", len(deduped),
		"failures", b.crawler.Tally(),
		"elapsed", time.Since(start),
	)

	return deduped, err
}
