// Package log provides slog loggers that mask credentials.
//
// The collector may be given a Wikimedia API access token, which ends up in
// the Authorization header of every request. SecureHandler wraps any
// slog.Handler and replaces values whose key names a credential (token,
// authorization, cookie, ...) or whose value looks like one (bearer tokens,
// JWTs) with MaskValue.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
