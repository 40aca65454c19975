// Package wikipedia resolves an English Wikipedia category to the titles of
// the pages it contains.
//
// The lookup is a single call to the MediaWiki search API using the
// incategory: keyword, or deepcat: when subcategories should be included.
// No pagination is performed; when the result fills the requested limit
// the Result is marked as truncated.
package wikipedia
