package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nao1215/wikinovels/internal/model"
	"github.com/nao1215/wikinovels/internal/wikidata"
)

// maxReferenceDepth is how many item references are followed to reach a label.
const maxReferenceDepth = 1

// Source resolves page titles and fetches entities.
// *wikidata.Client implements it.
type Source interface {
	ResolveTitle(ctx context.Context, title string) (string, error)
	Entity(ctx context.Context, id string) (*wikidata.Entity, error)
}

// Extractor builds records from Wikidata items.
type Extractor struct {
	source          Source
	props           *PropertySet
	logger          *slog.Logger
	regionalEnglish bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Extractor) {
		x.logger = logger
	}
}

// WithRegionalEnglish makes labels fall back to regional English variants
// (en-gb, en-ca, ...) when an item has no plain "en" text.
func WithRegionalEnglish(enabled bool) Option {
	return func(x *Extractor) {
		x.regionalEnglish = enabled
	}
}

// NewExtractor creates an Extractor that reads props from source.
func NewExtractor(source Source, props *PropertySet, opts ...Option) *Extractor {
	x := &Extractor{
		source: source,
		props:  props,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract builds the record for an English Wikipedia page title.
// Missing properties leave the field absent. Any value that cannot be
// normalized fails the whole record.
func (x *Extractor) Extract(ctx context.Context, title string) (model.Record, error) {
	id, err := x.source.ResolveTitle(ctx, title)
	if err != nil {
		return model.Record{}, err
	}
	entity, err := x.source.Entity(ctx, id)
	if err != nil {
		return model.Record{}, err
	}

	rec := model.Record{WikiTitle: title, Genre: []*string{}}
	for _, def := range x.props.defs {
		if def.Multi {
			err = x.extractAll(ctx, entity, def, &rec)
		} else {
			err = x.extractFirst(ctx, entity, def, &rec)
		}
		if err != nil {
			return model.Record{}, fmt.Errorf("%s (%s) of %s: %w", def.Field, def.ID, entity.ID, err)
		}
	}

	if label, ok := x.english(entity.Labels); ok {
		rec.EnglishLabel = model.String(label)
	}
	return rec, nil
}

// extractFirst fills a single-valued field from the first claim value.
func (x *Extractor) extractFirst(ctx context.Context, entity *wikidata.Entity, def PropertyDef, rec *model.Record) error {
	value, ok, err := entity.First(def.ID)
	if errors.Is(err, wikidata.ErrUnsupportedDatavalue) {
		year, err := earliestYear(entity, def.ID)
		if err != nil {
			return err
		}
		x.logger.Debug("decoded year from raw time", "entity", entity.ID, "property", def.ID, "year", year)
		return assign(rec, def.Field, year)
	}
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	normalized, present, err := x.normalize(ctx, value, 0)
	if err != nil || !present {
		return err
	}
	return assign(rec, def.Field, normalized)
}

// extractAll fills a multi-valued field with every claim value in order.
// Values without an English form are kept as nil entries.
func (x *Extractor) extractAll(ctx context.Context, entity *wikidata.Entity, def PropertyDef, rec *model.Record) error {
	values, err := entity.Values(def.ID)
	if err != nil {
		return err
	}

	out := make([]*string, 0, len(values))
	for _, value := range values {
		normalized, present, err := x.normalize(ctx, value, 0)
		if err != nil {
			return err
		}
		if !present {
			out = append(out, nil)
			continue
		}
		s, ok := normalized.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects text, got %T", wikidata.ErrSchemaMismatch, def.Field, normalized)
		}
		out = append(out, model.String(s))
	}

	// genre is the only multi-valued field.
	rec.Genre = out
	return nil
}

// normalize reduces a value to a string or an int. The boolean is false
// when the value has no English form.
func (x *Extractor) normalize(ctx context.Context, value wikidata.Value, depth int) (any, bool, error) {
	switch v := value.(type) {
	case wikidata.MonolingualText:
		return v.Text, true, nil
	case wikidata.MultilingualText:
		text, ok := x.english(v)
		return text, ok, nil
	case wikidata.String:
		return string(v), true, nil
	case wikidata.Integer:
		return int(v), true, nil
	case wikidata.Year:
		return int(v), true, nil
	case wikidata.Date:
		return v.Year(), true, nil
	case wikidata.EntityRef:
		if depth >= maxReferenceDepth {
			return nil, false, fmt.Errorf("%w: nested reference to %s", wikidata.ErrSchemaMismatch, v.ID)
		}
		ref, err := x.source.Entity(ctx, v.ID)
		if err != nil {
			return nil, false, err
		}
		return x.normalize(ctx, ref.Labels, depth+1)
	default:
		return nil, false, fmt.Errorf("%w: value %T", wikidata.ErrSchemaMismatch, value)
	}
}

// english selects the English text of m.
func (x *Extractor) english(m wikidata.MultilingualText) (string, bool) {
	if x.regionalEnglish {
		return m.AnyEnglish()
	}
	return m.English()
}

// assign stores a normalized value in a single-valued field after checking
// that its type matches the field.
func assign(rec *model.Record, field string, value any) error {
	switch kindOf(field) {
	case KindYear:
		year, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: %s expects a year, got %T", wikidata.ErrSchemaMismatch, field, value)
		}
		rec.PublicationDate = model.Int(year)
		return nil
	default:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects text, got %T", wikidata.ErrSchemaMismatch, field, value)
		}
		switch field {
		case model.FieldAuthor:
			rec.Author = model.String(s)
		case model.FieldPublisher:
			rec.Publisher = model.String(s)
		case model.FieldCountry:
			rec.Country = model.String(s)
		case model.FieldLanguage:
			rec.Language = model.String(s)
		case model.FieldTitle:
			rec.Title = model.String(s)
		}
		return nil
	}
}

// earliestYear reads the raw time strings of a property and returns the
// smallest year. Times look like "+1920-06-00T00:00:00Z"; the year is the
// four digits after the sign.
func earliestYear(entity *wikidata.Entity, property string) (int, error) {
	times, err := entity.RawTimes(property)
	if err != nil {
		return 0, err
	}
	if len(times) == 0 {
		return 0, fmt.Errorf("%w: no time values", wikidata.ErrSchemaMismatch)
	}

	earliest := 0
	for i, t := range times {
		if !strings.HasPrefix(t, "+") || len(t) < 5 {
			return 0, fmt.Errorf("%w: time %q", wikidata.ErrSchemaMismatch, t)
		}
		year, err := strconv.Atoi(t[1:5])
		if err != nil {
			return 0, fmt.Errorf("%w: time %q: %w", wikidata.ErrSchemaMismatch, t, err)
		}
		if i == 0 || year < earliest {
			earliest = year
		}
	}
	return earliest, nil
}
