package extract

import "errors"

var (
	// ErrNoProperties is returned when a PropertySet is built from nothing.
	ErrNoProperties = errors.New("property set is empty")

	// ErrDuplicateField is returned when two properties feed the same field.
	ErrDuplicateField = errors.New("duplicate record field in property set")

	// ErrUnknownField is returned for a field name the record does not have.
	ErrUnknownField = errors.New("unknown record field")

	// ErrInvalidPropertyID is returned for ids that are not of the form P<digits>.
	ErrInvalidPropertyID = errors.New("invalid property id")

	// ErrMultiValued is returned when the Multi flag does not match the field.
	ErrMultiValued = errors.New("multi-valued flag does not match record field")
)
