package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// File represents the structure of the .wikinovels configuration file.
type File struct {
	// Collector holds the settings of the collector.
	Collector CollectorSettings `yaml:"collector"`

	// Table holds the static tables used by the renderer.
	Table TableSettings `yaml:"table"`
}

// CollectorSettings configures which pages the collector harvests.
// Zero values leave the built-in defaults in place.
type CollectorSettings struct {
	// Category overrides the harvested category.
	Category string `yaml:"category,omitempty"`

	// Limit overrides the candidate limit.
	Limit int `yaml:"limit,omitempty"`

	// Deep overrides whether subcategories are searched.
	Deep *bool `yaml:"deep,omitempty"`

	// IgnoreTitles are glob patterns (doublestar syntax) matched against
	// candidate page titles. Matching candidates are not fetched.
	IgnoreTitles []string `yaml:"ignore_titles,omitempty"`

	// RegionalEnglish lets labels fall back to regional English variants
	// (en-gb, en-ca, ...) when an item has no plain "en" label.
	RegionalEnglish bool `yaml:"regional_english,omitempty"`
}

// ReferenceCollection is a named list of titles sharing a citation.
type ReferenceCollection struct {
	// Name is the reference name used in <ref name="..."/> markers.
	Name string `yaml:"name"`

	// Titles are display labels of works cited by this reference.
	Titles []string `yaml:"titles"`
}

// TableSettings holds the static data the renderer needs. It is loaded once
// at startup and never modified afterwards.
type TableSettings struct {
	// Columns lists the table columns by name, in order. The last column
	// receives the free-text note of each row.
	Columns []string `yaml:"columns"`

	// CutoffYear excludes works published in or after this year.
	CutoffYear int `yaml:"cutoff_year"`

	// CutoffExceptions are page titles kept regardless of CutoffYear.
	CutoffExceptions []string `yaml:"cutoff_exceptions"`

	// AnonymousAuthor is rendered when a work has no author.
	AnonymousAuthor string `yaml:"anonymous_author"`

	// AuthorLinks maps author names to the page they should link to.
	AuthorLinks map[string]string `yaml:"author_links"`

	// TitleBlacklist lists display labels that are never rendered.
	TitleBlacklist []string `yaml:"title_blacklist"`

	// GenreBlacklist lists genres considered noise.
	GenreBlacklist []string `yaml:"genre_blacklist"`

	// CountryNames maps country names to the abbreviation shown in the table.
	CountryNames map[string]string `yaml:"country_names"`

	// Notes maps page titles to the annotation shown in the last column.
	Notes map[string]string `yaml:"notes"`

	// References lists the citation collections, in marker order.
	References []ReferenceCollection `yaml:"references"`
}

// Validate checks the file for values that cannot be used.
func (f *File) Validate() error {
	for _, pattern := range f.Collector.IgnoreTitles {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}
	if f.Collector.Limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// ApplyFile copies the collector settings of f onto c. Values left at
// their zero value in the file keep the current configuration.
func (c *Config) ApplyFile(f *File) {
	c.File = f
	if f == nil {
		return
	}
	if f.Collector.Category != "" {
		c.Category = f.Collector.Category
	}
	if f.Collector.Limit > 0 {
		c.Limit = f.Collector.Limit
	}
	if f.Collector.Deep != nil {
		c.Deep = *f.Collector.Deep
	}
	if f.Collector.RegionalEnglish {
		c.RegionalEnglish = true
	}
}
