package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/wikinovels/internal/model"
)

// Column renders one cell of a table row.
type Column interface {
	// Label is the header text of the column.
	Label() string

	// Render returns the wiki markup of the cell for rec.
	Render(rec model.Record) (string, error)
}

// Column names accepted by NewColumn.
const (
	ColumnYear     = "year"
	ColumnTitle    = "title"
	ColumnAuthor   = "author"
	ColumnGenre    = "genre"
	ColumnCountry  = "country"
	ColumnLanguage = "language"
	ColumnNotes    = "notes"
)

// ColumnNames lists every known column name.
func ColumnNames() []string {
	return []string{
		ColumnYear,
		ColumnTitle,
		ColumnAuthor,
		ColumnGenre,
		ColumnCountry,
		ColumnLanguage,
		ColumnNotes,
	}
}

// NewColumn returns the column registered under name.
func NewColumn(name string, tables *Tables) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ColumnYear:
		return YearColumn{}, nil
	case ColumnTitle:
		return TitleColumn{tables: tables}, nil
	case ColumnAuthor:
		return AuthorColumn{tables: tables}, nil
	case ColumnGenre:
		return GenreColumn{tables: tables}, nil
	case ColumnCountry:
		return CountryColumn{tables: tables}, nil
	case ColumnLanguage:
		return LanguageColumn{}, nil
	case ColumnNotes:
		return NotesColumn{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
}

// NewColumns returns the columns registered under names, in order.
func NewColumns(names []string, tables *Tables) ([]Column, error) {
	if len(names) == 0 {
		return nil, ErrNoColumns
	}
	columns := make([]Column, 0, len(names))
	for _, name := range names {
		col, err := NewColumn(name, tables)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// YearColumn shows the publication year.
type YearColumn struct{}

// Label implements Column.
func (YearColumn) Label() string { return "Year" }

// Render implements Column.
func (YearColumn) Render(rec model.Record) (string, error) {
	year, ok := rec.Year()
	if !ok {
		return "", nil
	}
	return strconv.Itoa(year), nil
}

// TitleColumn shows the italicized page link followed by citation markers.
type TitleColumn struct {
	tables *Tables
}

// Label implements Column.
func (TitleColumn) Label() string { return "Title" }

// Render implements Column. The link is piped when the display label
// differs from the page title.
func (c TitleColumn) Render(rec model.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	label := rec.DisplayLabel()
	var sb strings.Builder
	if label == rec.WikiTitle {
		fmt.Fprintf(&sb, "''[[%s]]''", label)
	} else {
		fmt.Fprintf(&sb, "''[[%s|%s]]''", rec.WikiTitle, label)
	}
	for _, ref := range c.tables.Citations(label) {
		sb.WriteString(`<ref name="` + ref + `"/>`)
	}
	return sb.String(), nil
}

// AuthorColumn links the author page.
type AuthorColumn struct {
	tables *Tables
}

// Label implements Column.
func (AuthorColumn) Label() string { return "Author" }

// Render implements Column.
func (c AuthorColumn) Render(rec model.Record) (string, error) {
	if rec.Author == nil {
		return c.tables.AnonymousAuthor(), nil
	}
	name := *rec.Author
	if target, ok := c.tables.AuthorLink(name); ok {
		return "[[" + target + "|" + name + "]]", nil
	}
	return "[[" + name + "]]", nil
}

// GenreColumn lists the genres that are not blacklisted.
type GenreColumn struct {
	tables *Tables
}

// Label implements Column.
func (GenreColumn) Label() string { return "Genre" }

// Render implements Column.
func (c GenreColumn) Render(rec model.Record) (string, error) {
	genres := make([]string, 0, len(rec.Genre))
	for _, g := range rec.GenreNames() {
		if g == "" || c.tables.GenreBlacklisted(g) {
			continue
		}
		genres = append(genres, g)
	}
	return strings.Join(genres, ", "), nil
}

// CountryColumn shows the abbreviated country of origin.
type CountryColumn struct {
	tables *Tables
}

// Label implements Column.
func (CountryColumn) Label() string { return "Country" }

// Render implements Column.
func (c CountryColumn) Render(rec model.Record) (string, error) {
	if rec.Country == nil {
		return "", nil
	}
	return c.tables.CountryName(*rec.Country), nil
}

// LanguageColumn shows the language of the work.
type LanguageColumn struct{}

// Label implements Column.
func (LanguageColumn) Label() string { return "Language" }

// Render implements Column.
func (LanguageColumn) Render(rec model.Record) (string, error) {
	if rec.Language == nil {
		return "", nil
	}
	return *rec.Language, nil
}

// NotesColumn is the last column of a row. Its cell is filled with the
// configured note by Table, so Render always returns "".
type NotesColumn struct{}

// Label implements Column.
func (NotesColumn) Label() string { return "Notes" }

// Render implements Column.
func (NotesColumn) Render(model.Record) (string, error) {
	return "", nil
}
