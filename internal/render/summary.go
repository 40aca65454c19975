package render

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/nao1215/wikinovels/internal/model"
)

// unknownCountry labels records without a country of origin.
const unknownCountry = "Unknown"

// CountryCount is the number of rendered works from one country.
type CountryCount struct {
	Country string
	Count   int
}

// Summary counts what happened to the records of a snapshot.
type Summary struct {
	// Total is the number of records in the snapshot.
	Total int

	// Rendered is the number of records that become table rows.
	Rendered int

	// NoYear, AfterCutoff and Blacklisted count the excluded records.
	NoYear      int
	AfterCutoff int
	Blacklisted int

	// Countries counts rendered records per displayed country, most
	// frequent first.
	Countries []CountryCount

	// Excluded lists the display labels of excluded records, with the reason.
	Excluded map[string]Exclusion
}

// Summarize counts the records by exclusion and by country.
func Summarize(tables *Tables, records []model.Record) Summary {
	s := Summary{
		Total:    len(records),
		Excluded: make(map[string]Exclusion),
	}
	countries := make(map[string]int)

	for _, rec := range records {
		reason := tables.Exclusion(rec)
		switch reason {
		case Included:
			s.Rendered++
			country := unknownCountry
			if rec.Country != nil && *rec.Country != "" {
				country = tables.CountryName(*rec.Country)
			}
			countries[country]++
			continue
		case NoYear:
			s.NoYear++
		case AfterCutoff:
			s.AfterCutoff++
		case Blacklisted:
			s.Blacklisted++
		}
		s.Excluded[rec.DisplayLabel()] = reason
	}

	for country, n := range countries {
		s.Countries = append(s.Countries, CountryCount{Country: country, Count: n})
	}
	slices.SortFunc(s.Countries, func(a, b CountryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Country, b.Country)
	})
	return s
}

// SimpleWriter outputs a human-readable summary of a render for terminal
// display.
type SimpleWriter struct {
	baseWriter

	// tables decide which records are rendered.
	tables *Tables

	// verbose lists every excluded record.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists the excluded records by name.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, tables *Tables, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		tables:     tables,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *SimpleWriter) Write(records []model.Record) (int, error) {
	s := Summarize(w.tables, records)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Records:      %d\n", s.Total)
	fmt.Fprintf(&sb, "Rendered:     %d\n", s.Rendered)
	fmt.Fprintf(&sb, "No year:      %d\n", s.NoYear)
	fmt.Fprintf(&sb, "After cutoff: %d\n", s.AfterCutoff)
	fmt.Fprintf(&sb, "Blacklisted:  %d\n", s.Blacklisted)

	if len(s.Countries) > 0 {
		sb.WriteString("\nCountries:\n")
		for _, c := range s.Countries {
			fmt.Fprintf(&sb, "  %-20s %d\n", c.Country, c.Count)
		}
	}

	if w.verbose && len(s.Excluded) > 0 {
		sb.WriteString("\nExcluded:\n")
		for _, label := range slices.Sorted(maps.Keys(s.Excluded)) {
			fmt.Fprintf(&sb, "  [%s] %s\n", s.Excluded[label], label)
		}
	}

	return io.WriteString(w.output, sb.String())
}
