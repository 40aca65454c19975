package render

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/nao1215/wikinovels/internal/model"
)

// Table markup.
const (
	tableOpen      = "{| class=\"wikitable sortable\""
	tableClose     = "|}"
	rowSeparator   = "|-"
	headerDivider  = " !! "
	cellDivider    = " || "
	headerPrefix   = "! "
	cellLinePrefix = "| "
)

// Table assembles the wiki table from its columns.
type Table struct {
	// columns in display order. The last one holds the row note.
	columns []Column

	// tables are the static lookup tables.
	tables *Tables

	// logger for structured logging.
	logger *slog.Logger
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithLogger sets a custom logger for the table.
func WithLogger(logger *slog.Logger) TableOption {
	return func(t *Table) {
		t.logger = logger
	}
}

// NewTable creates a table with the columns configured in tables.
func NewTable(tables *Tables, opts ...TableOption) (*Table, error) {
	columns, err := NewColumns(tables.Columns(), tables)
	if err != nil {
		return nil, err
	}

	t := &Table{
		columns: columns,
		tables:  tables,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Tables returns the lookup tables of the table.
func (t *Table) Tables() *Tables {
	return t.tables
}

// Labels returns the column header texts.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.columns))
	for i, col := range t.columns {
		labels[i] = col.Label()
	}
	return labels
}

// Header returns the opening markup with the header row.
func (t *Table) Header() string {
	return tableOpen + "\n" + rowSeparator + "\n" + headerPrefix + strings.Join(t.Labels(), headerDivider)
}

// Cells renders the cells of rec. Every column but the last is rendered;
// the last cell is the note configured for the record's page title.
func (t *Table) Cells(rec model.Record) ([]string, error) {
	cells := make([]string, len(t.columns))
	last := len(t.columns) - 1
	for i, col := range t.columns[:last] {
		cell, err := col.Render(rec)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Label(), err)
		}
		cells[i] = cell
	}
	cells[last] = t.tables.Note(rec.WikiTitle)
	return cells, nil
}

// Row returns the markup of one row.
func (t *Table) Row(rec model.Record) (string, error) {
	cells, err := t.Cells(rec)
	if err != nil {
		return "", err
	}
	last := len(cells) - 1
	return rowSeparator + "\n" +
		cellLinePrefix + strings.Join(cells[:last], cellDivider) + "\n" +
		cellLinePrefix + cells[last], nil
}

// Lines yields the header, one row per eligible record and the closing
// markup. A record that fails to render is logged and its error yielded,
// after which the sequence stops.
func (t *Table) Lines(records []model.Record) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !yield(t.Header(), nil) {
			return
		}
		for _, rec := range records {
			if !t.tables.Eligible(rec) {
				continue
			}
			row, err := t.Row(rec)
			if err != nil {
				t.logger.Error("error handling novel", "label", rec.DisplayLabel(), "error", err)
				yield("", fmt.Errorf("failed to render %q: %w", rec.DisplayLabel(), err))
				return
			}
			if !yield(row, nil) {
				return
			}
		}
		yield(tableClose, nil)
	}
}

// Eligible returns the records that are rendered, in order.
func (t *Table) Eligible(records []model.Record) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if t.tables.Eligible(rec) {
			out = append(out, rec)
		}
	}
	return out
}
