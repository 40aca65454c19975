package extract

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/nao1215/wikinovels/internal/model"
)

// propertyIDPattern matches Wikidata property identifiers.
var propertyIDPattern = regexp.MustCompile(`^P[1-9][0-9]*$`)

// FieldKind is the type of value a record field holds.
type FieldKind int

const (
	// KindText fields hold strings.
	KindText FieldKind = iota
	// KindYear fields hold integer years.
	KindYear
)

// String returns the name of the kind.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindYear:
		return "year"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// fieldSpec describes a record field that a property can fill.
type fieldSpec struct {
	kind  FieldKind
	multi bool
}

// fields lists the record fields that properties can fill.
var fields = map[string]fieldSpec{
	model.FieldAuthor:          {kind: KindText},
	model.FieldPublisher:       {kind: KindText},
	model.FieldCountry:         {kind: KindText},
	model.FieldLanguage:        {kind: KindText},
	model.FieldPublicationDate: {kind: KindYear},
	model.FieldTitle:           {kind: KindText},
	model.FieldGenre:           {kind: KindText, multi: true},
}

// PropertyDef binds a Wikidata property to a record field.
type PropertyDef struct {
	// Field is the record field name, e.g. "publication date".
	Field string

	// ID is the Wikidata property id, e.g. "P577".
	ID string

	// Multi collects every value instead of the first one.
	Multi bool
}

// PropertySet is a validated, read-only list of property definitions.
type PropertySet struct {
	defs []PropertyDef
}

// NewPropertySet validates the definitions and returns a PropertySet.
func NewPropertySet(defs ...PropertyDef) (*PropertySet, error) {
	if len(defs) == 0 {
		return nil, ErrNoProperties
	}

	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		spec, ok := fields[def.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, def.Field)
		}
		if seen[def.Field] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, def.Field)
		}
		seen[def.Field] = true
		if !propertyIDPattern.MatchString(def.ID) {
			return nil, fmt.Errorf("%w: %q for field %q", ErrInvalidPropertyID, def.ID, def.Field)
		}
		if def.Multi != spec.multi {
			return nil, fmt.Errorf("%w: %q", ErrMultiValued, def.Field)
		}
	}

	return &PropertySet{defs: slices.Clone(defs)}, nil
}

// DefaultProperties returns the properties collected for novels.
func DefaultProperties() *PropertySet {
	ps, err := NewPropertySet(
		PropertyDef{Field: model.FieldAuthor, ID: "P50"},
		PropertyDef{Field: model.FieldPublisher, ID: "P123"},
		PropertyDef{Field: model.FieldCountry, ID: "P495"},
		PropertyDef{Field: model.FieldLanguage, ID: "P407"},
		PropertyDef{Field: model.FieldPublicationDate, ID: "P577"},
		PropertyDef{Field: model.FieldTitle, ID: "P1476"},
		PropertyDef{Field: model.FieldGenre, ID: "P136", Multi: true},
	)
	if err != nil {
		panic(fmt.Sprintf("extract: default properties are invalid: %v", err))
	}
	return ps
}

// Defs returns a copy of the definitions in order.
func (ps *PropertySet) Defs() []PropertyDef {
	return slices.Clone(ps.defs)
}

// Len returns the number of definitions.
func (ps *PropertySet) Len() int {
	return len(ps.defs)
}

// kindOf returns the kind of a validated field.
func kindOf(field string) FieldKind {
	return fields[field].kind
}
