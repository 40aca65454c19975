package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate() so
// callers can use errors.Is() on them.
var (
	// ErrNoCategory is returned when no category is configured.
	ErrNoCategory = errors.New("no category specified")

	// ErrInvalidLimit is returned when the candidate limit is not positive.
	ErrInvalidLimit = errors.New("invalid limit: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrNoSnapshotFile is returned when the snapshot path is empty.
	ErrNoSnapshotFile = errors.New("no snapshot file specified")

	// ErrInvalidCacheTTL is returned when the cache TTL is negative.
	ErrInvalidCacheTTL = errors.New("invalid cache ttl: must be non-negative")

	// ErrNoCacheDir is returned when the cache is enabled without a directory.
	ErrNoCacheDir = errors.New("cache enabled but no cache directory specified")

	// ErrInvalidPattern is returned when an ignore pattern is not a valid glob.
	ErrInvalidPattern = errors.New("invalid ignore pattern")
)
