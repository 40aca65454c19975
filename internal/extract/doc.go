// Package extract turns a Wikidata item into a model.Record.
//
// A PropertySet names which Wikidata property feeds which record field.
// The Extractor resolves a page title to its item, reads each property,
// and normalizes the values: text becomes a string, dates become a year and
// references to other items become the English label of that item.
//
// Dates Wikidata stores with month precision cannot be decoded as typed
// values. For those the Extractor reads the raw time strings of every claim
// and keeps the earliest year.
package extract
