package migrate

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidFallbackDate is returned when the configured fallback date is missing or not YYYY-MM-DD
	ErrInvalidFallbackDate = errors.New("fallback date must be YYYY-MM-DD")

	// ErrMissingLegacyPath is returned when no legacy store path is configured
	ErrMissingLegacyPath = errors.New("legacy store path is required")

	// ErrMissingDataDir is returned when no destination data directory is configured
	ErrMissingDataDir = errors.New("data directory is required")

	// ErrUnparseableTimestamp is returned when a timestamp matches none of the accepted encodings
	ErrUnparseableTimestamp = errors.New("unparseable timestamp")

	// ErrEmptyEmbedding is returned when the embedder produces no vector for a text
	ErrEmptyEmbedding = errors.New("embedder returned an empty vector")
)
