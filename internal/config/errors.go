package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: Package-level sentinel errors rather than fmt.Errorf at
// each check site, so callers can branch with errors.Is while users still
// get a readable message. None of these carry dynamic values, so errors.New
// is sufficient.
var (
	// ErrInvalidMinDelay is returned when the minimum request delay is negative.
	ErrInvalidMinDelay = errors.New("invalid min delay: must be non-negative")

	// ErrInvalidMaxDelay is returned when the maximum request delay is below the minimum.
	ErrInvalidMaxDelay = errors.New("invalid max delay: must be >= min delay")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxRetries is returned when the retry budget is negative.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be non-negative")

	// ErrInvalidMaxPages is returned when the per-category page limit is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages per category: must be positive")

	// ErrInvalidMaxCompanies is returned when the per-page company limit is not positive.
	ErrInvalidMaxCompanies = errors.New("invalid max companies per page: must be positive")

	// ErrInvalidMaxReviews is returned when the per-company review limit is not positive.
	ErrInvalidMaxReviews = errors.New("invalid max reviews per company: must be positive")

	// ErrInvalidConcurrency is returned when the category concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrNoOutputDir is returned when no output directory is configured.
	ErrNoOutputDir = errors.New("no output directory specified")
)
