package wikipedia

import "errors"

var (
	// ErrEmptyCategory is returned when the category name is empty.
	ErrEmptyCategory = errors.New("category name is empty")

	// ErrInvalidLimit is returned when the result limit is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrUnexpectedStatus is returned when the API answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status from search API")

	// ErrAPI is returned when the API reports an error in its response body.
	ErrAPI = errors.New("search API error")
)
