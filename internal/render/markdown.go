package render

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/wikinovels/internal/model"
)

var (
	// refMarker matches <ref .../> markers and inline <ref>...</ref> citations.
	refMarker = regexp.MustCompile(`<ref[^>]*/>|<ref[^>]*>.*?</ref>`)

	// pipedLink matches [[target|text]].
	pipedLink = regexp.MustCompile(`\[\[[^\]|]*\|([^\]]*)\]\]`)

	// plainLink matches [[target]].
	plainLink = regexp.MustCompile(`\[\[([^\]]*)\]\]`)
)

// plainText reduces a wiki markup cell to readable text for the preview.
func plainText(cell string) string {
	cell = refMarker.ReplaceAllString(cell, "")
	cell = pipedLink.ReplaceAllString(cell, "$1")
	cell = plainLink.ReplaceAllString(cell, "$1")
	cell = strings.ReplaceAll(cell, "''", "")
	return strings.ReplaceAll(cell, "|", `\|`)
}

// MarkdownWriter outputs a GitHub-flavored markdown preview of the table.
type MarkdownWriter struct {
	baseWriter
	table *Table
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, table *Table) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		table:      table,
	}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(records []model.Record) (int, error) {
	rows := make([][]string, 0, len(records))
	for _, rec := range w.table.Eligible(records) {
		cells, err := w.table.Cells(rec)
		if err != nil {
			return 0, err
		}
		for i, cell := range cells {
			cells[i] = plainText(cell)
		}
		rows = append(rows, cells)
	}

	summary := Summarize(w.table.Tables(), records)
	md := markdown.NewMarkdown(w.output)

	md.H1("Novels")
	md.PlainText("")
	w.writeSummary(md, summary)

	md.H2("Table")
	md.PlainText("")
	if len(rows) == 0 {
		md.Note("No record is eligible for the table.")
		md.PlainText("")
	} else {
		md.Table(markdown.TableSet{
			Header: w.table.Labels(),
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(summary.Countries) > 0 {
		w.writeCountryChart(md, summary)
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Preview only. Links and citations are simplified; publish table.wiki instead.*")

	return len(md.String()), md.Build()
}

// writeSummary writes the record counts.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s Summary) {
	md.Table(markdown.TableSet{
		Header: []string{"Records", "Count"},
		Rows: [][]string{
			{"Total", strconv.Itoa(s.Total)},
			{"Rendered", strconv.Itoa(s.Rendered)},
			{"No year", strconv.Itoa(s.NoYear)},
			{"After cutoff", strconv.Itoa(s.AfterCutoff)},
			{"Blacklisted", strconv.Itoa(s.Blacklisted)},
		},
	})
	md.PlainText("")
}

// writeCountryChart writes a mermaid pie chart of rendered works per country.
func (w *MarkdownWriter) writeCountryChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Works by Country"),
		piechart.WithShowData(true),
	)
	for _, c := range s.Countries {
		chart.LabelAndIntValue(c.Country, uint64(c.Count)) //nolint:gosec // counts are never negative
	}

	md.H2("Countries")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
