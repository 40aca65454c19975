package render

import (
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/wikinovels/internal/config"
	"github.com/nao1215/wikinovels/internal/model"
)

// Exclusion tells why a record is left out of the table.
type Exclusion int

const (
	// Included records are rendered.
	Included Exclusion = iota
	// NoYear records have no publication year.
	NoYear
	// AfterCutoff records were published in or after the cutoff year.
	AfterCutoff
	// Blacklisted records have a blacklisted display label.
	Blacklisted
)

// String returns the exclusion name.
func (e Exclusion) String() string {
	switch e {
	case Included:
		return "included"
	case NoYear:
		return "no year"
	case AfterCutoff:
		return "after cutoff"
	case Blacklisted:
		return "blacklisted"
	default:
		return "unknown"
	}
}

// Tables is the static data the columns look things up in. Keys are
// NFC-normalized so that titles typed in the configuration file match
// labels returned by the remote store.
type Tables struct {
	columns         []string
	cutoffYear      int
	exceptions      map[string]bool
	anonymousAuthor string
	authorLinks     map[string]string
	titleBlacklist  map[string]bool
	genreBlacklist  map[string]bool
	countryNames    map[string]string
	notes           map[string]string
	citations       map[string][]string
}

// key normalizes a lookup key.
func key(s string) string {
	return norm.NFC.String(s)
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[key(v)] = true
	}
	return set
}

func stringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[key(k)] = v
	}
	return out
}

// NewTables builds the lookup tables from the table settings.
func NewTables(s config.TableSettings) *Tables {
	t := &Tables{
		columns:         append([]string(nil), s.Columns...),
		cutoffYear:      s.CutoffYear,
		exceptions:      stringSet(s.CutoffExceptions),
		anonymousAuthor: s.AnonymousAuthor,
		authorLinks:     stringMap(s.AuthorLinks),
		titleBlacklist:  stringSet(s.TitleBlacklist),
		genreBlacklist:  stringSet(s.GenreBlacklist),
		countryNames:    stringMap(s.CountryNames),
		notes:           stringMap(s.Notes),
		citations:       make(map[string][]string),
	}
	for _, ref := range s.References {
		for _, title := range ref.Titles {
			k := key(title)
			t.citations[k] = append(t.citations[k], ref.Name)
		}
	}
	return t
}

// DefaultTables returns the tables of the built-in configuration.
func DefaultTables() *Tables {
	return NewTables(config.DefaultFile().Table)
}

// Columns returns the configured column names.
func (t *Tables) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Exclusion reports whether rec is rendered and, if not, why.
func (t *Tables) Exclusion(rec model.Record) Exclusion {
	year, ok := rec.Year()
	if !ok {
		return NoYear
	}
	if year >= t.cutoffYear && !t.exceptions[key(rec.WikiTitle)] {
		return AfterCutoff
	}
	if t.titleBlacklist[key(rec.DisplayLabel())] {
		return Blacklisted
	}
	return Included
}

// Eligible reports whether rec is rendered.
func (t *Tables) Eligible(rec model.Record) bool {
	return t.Exclusion(rec) == Included
}

// Note returns the annotation of a page title, or "".
func (t *Tables) Note(wikiTitle string) string {
	return t.notes[key(wikiTitle)]
}

// Citations returns the reference names citing a display label, in
// collection order.
func (t *Tables) Citations(label string) []string {
	return t.citations[key(label)]
}

// AuthorLink returns the page an author name should link to.
func (t *Tables) AuthorLink(name string) (string, bool) {
	target, ok := t.authorLinks[key(name)]
	return target, ok
}

// AnonymousAuthor returns the attribution of works without an author.
func (t *Tables) AnonymousAuthor() string {
	return t.anonymousAuthor
}

// GenreBlacklisted reports whether a genre is noise.
func (t *Tables) GenreBlacklisted(genre string) bool {
	return t.genreBlacklist[key(genre)]
}

// CountryName returns the abbreviation of a country, or the name itself.
func (t *Tables) CountryName(country string) string {
	if short, ok := t.countryNames[key(country)]; ok {
		return short
	}
	return country
}
