package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/wikinovels/internal/model"
)

// WikiWriter writes the table as MediaWiki markup, one line per element.
type WikiWriter struct {
	baseWriter
	table *Table
}

// NewWikiWriter creates a WikiWriter that outputs to the given writer.
func NewWikiWriter(output io.Writer, table *Table) *WikiWriter {
	return &WikiWriter{
		baseWriter: newBaseWriter(output),
		table:      table,
	}
}

// Write implements Writer.
func (w *WikiWriter) Write(records []model.Record) (int, error) {
	var total int
	for line, err := range w.table.Lines(records) {
		if err != nil {
			return total, err
		}
		n, err := io.WriteString(w.output, line+"\n")
		total += n
		if err != nil {
			return total, fmt.Errorf("failed to write table: %w", err)
		}
	}
	return total, nil
}

// WriteFile renders records with newWriter into path. The output goes to a
// temporary file in the same directory which is renamed over path only when
// rendering succeeded, so a failed render leaves no partial file.
func WriteFile(path string, records []model.Record, newWriter func(io.Writer) Writer) (err error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := newWriter(tmp).Write(records); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
