package transport

import "errors"

// Transport configuration errors.
var (
	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrNoUserAgent is returned when the User-Agent is empty. Wikimedia
	// rejects requests without one.
	ErrNoUserAgent = errors.New("user agent must not be empty")
)
