// Package cache provides a SQLite-backed cache for the collector.
//
// EntityDB stores:
//   - raw Special:EntityData documents keyed by entity id
//   - page title to item id resolutions
//   - a log of finished collector runs
//
// Cached entities and titles expire after a TTL. The database lives in the
// XDG cache directory and is only used when caching is enabled, so a normal
// run always reads live data.
//
// The driver is modernc.org/sqlite, which needs no cgo.
package cache
