// Package wikidata resolves English Wikipedia page titles to Wikidata items
// and decodes item data into typed values.
//
// Client.ResolveTitle follows Special:ItemByTitle to the item identifier.
// Client.Entity fetches Special:EntityData and memoizes the result, so each
// item is downloaded at most once per Client. An optional Store persists
// entities and title resolutions across runs.
//
// Claim values decode into the closed Value union. Decoding reports
// ErrUnsupportedDatavalue for time values the decoder cannot represent
// (precisions other than year, day and second, or a non-Gregorian
// calendar) and ErrSchemaMismatch for shapes it does not know at all.
package wikidata
