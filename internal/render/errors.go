package render

import "errors"

var (
	// ErrUnknownColumn is returned when a configured column name has no renderer.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNoColumns is returned when the table has no columns.
	ErrNoColumns = errors.New("table has no columns")
)
