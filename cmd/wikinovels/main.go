// Package main provides the entry point for the wikinovels CLI.
//
// wikinovels harvests bibliographic metadata for the novels of an
// encyclopedia category from the structured-data store and renders a
// sortable MediaWiki table from it.
//
// Usage:
//
//	wikinovels collect
//	wikinovels render
//	wikinovels lookup "The Secret History"
//
// See --help for all available options.
package main

// main is the entry point for wikinovels.
func main() {
	Execute()
}
