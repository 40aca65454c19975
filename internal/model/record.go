package model

import (
	"cmp"
	"errors"
	"slices"
)

// Field names of a Record. They double as the JSON keys of the snapshot
// and as the names of the extracted properties.
const (
	FieldAuthor          = "author"
	FieldPublisher       = "publisher"
	FieldCountry         = "country of origin"
	FieldLanguage        = "language"
	FieldPublicationDate = "publication date"
	FieldTitle           = "title"
	FieldGenre           = "genre"
	FieldWikiTitle       = "wiki_title"
	FieldEnglishLabel    = "en_label"
)

// ErrMissingWikiTitle is returned by Validate when a record has no source page title.
var ErrMissingWikiTitle = errors.New("record has no wiki_title")

// Record is the bibliographic metadata of one novel.
// Every field except WikiTitle may be absent; absent values are nil and
// serialize as JSON null so that a snapshot survives a round trip unchanged.
type Record struct {
	// Author is the English label of the author entity.
	Author *string `json:"author"`

	// Publisher is the English label of the publisher entity.
	Publisher *string `json:"publisher"`

	// Country is the English label of the country of origin.
	Country *string `json:"country of origin"`

	// Language is the English label of the language of the work.
	Language *string `json:"language"`

	// PublicationDate is the publication year.
	PublicationDate *int `json:"publication date"`

	// Title is the title of the work as recorded on the entity.
	Title *string `json:"title"`

	// Genre holds one entry per genre claim, in claim order.
	// Entries are nil when the genre entity has no English label.
	Genre []*string `json:"genre"`

	// WikiTitle is the encyclopedia page title the record was built from.
	// It is the join key used by the renderer.
	WikiTitle string `json:"wiki_title"`

	// EnglishLabel is the English display label of the entity.
	EnglishLabel *string `json:"en_label"`
}

// String returns a pointer to s. It is a convenience for building records.
func String(s string) *string {
	return &s
}

// Int returns a pointer to n. It is a convenience for building records.
func Int(n int) *int {
	return &n
}

// Validate checks the invariants that hold for every record.
func (r Record) Validate() error {
	if r.WikiTitle == "" {
		return ErrMissingWikiTitle
	}
	return nil
}

// Year returns the publication year and whether it is known.
func (r Record) Year() (int, bool) {
	if r.PublicationDate == nil {
		return 0, false
	}
	return *r.PublicationDate, true
}

// DisplayLabel returns the English label, falling back to the page title
// when the entity has no English label.
func (r Record) DisplayLabel() string {
	if r.EnglishLabel == nil || *r.EnglishLabel == "" {
		return r.WikiTitle
	}
	return *r.EnglishLabel
}

// GenreNames returns the genres that carry a label, in claim order.
func (r Record) GenreNames() []string {
	names := make([]string, 0, len(r.Genre))
	for _, g := range r.Genre {
		if g != nil {
			names = append(names, *g)
		}
	}
	return names
}

// sortYear is the sort key of a record: absent years sort as 0.
func (r Record) sortYear() int {
	year, _ := r.Year()
	return year
}

// SortByPublicationYear sorts records ascending by publication year.
// Records without a year sort first. The sort is stable, so records sharing
// a year keep their collection order.
func SortByPublicationYear(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(a.sortYear(), b.sortYear())
	})
}
