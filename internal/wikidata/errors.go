package wikidata

import "errors"

var (
	// ErrNotFound is returned when no item exists for a page title.
	ErrNotFound = errors.New("no wikidata item for page")

	// ErrUnexpectedHost is returned when title resolution lands outside the
	// configured Wikidata site.
	ErrUnexpectedHost = errors.New("title resolution left the wikidata site")

	// ErrUnexpectedStatus is returned for non-200 HTTP responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status from wikidata")

	// ErrSchemaMismatch is returned when data has a shape the decoder does not know.
	ErrSchemaMismatch = errors.New("unexpected wikidata value shape")

	// ErrUnsupportedDatavalue is returned for values of a known type whose
	// content cannot be decoded, such as month-precision dates.
	ErrUnsupportedDatavalue = errors.New("unsupported wikidata datavalue")

	// ErrInvalidEntityID is returned for identifiers that are not item or property ids.
	ErrInvalidEntityID = errors.New("invalid wikidata entity id")
)
