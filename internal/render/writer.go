package render

import (
	"io"

	"github.com/nao1215/wikinovels/internal/model"
)

// Writer writes rendered records in one output format.
type Writer interface {
	// Write renders records to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(records []model.Record) (int, error)
}

// baseWriter provides common functionality for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
