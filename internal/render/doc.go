// Package render turns collected records into a sortable MediaWiki table.
//
// A Table is assembled from named columns and the static Tables loaded from
// the configuration file. It yields the markup line by line so that callers
// can stream it to a file. Writers wrap a Table for the wiki output, a
// markdown preview and a plain-text summary. Watcher re-renders when the
// snapshot file changes.
package render
