package wikidata

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// entityIDPattern matches item and property identifiers.
var entityIDPattern = regexp.MustCompile(`^[QP][1-9][0-9]*$`)

// IsEntityID reports whether id is an item (Q42) or property (P50) identifier.
func IsEntityID(id string) bool {
	return entityIDPattern.MatchString(id)
}

// Snak types.
const (
	SnakValue     = "value"
	SnakSomeValue = "somevalue"
	SnakNoValue   = "novalue"
)

// Snak is the main statement of a claim.
type Snak struct {
	SnakType  string          `json:"snaktype"`
	Property  string          `json:"property"`
	DataType  string          `json:"datatype,omitempty"`
	DataValue json.RawMessage `json:"datavalue,omitempty"`
}

// Claim is a single statement about an entity.
type Claim struct {
	MainSnak Snak   `json:"mainsnak"`
	Rank     string `json:"rank,omitempty"`
}

// Entity is a Wikidata item with its labels and claims.
type Entity struct {
	ID     string
	Labels MultilingualText
	Claims map[string][]Claim
}

type labelWire struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type entityWire struct {
	ID     string               `json:"id"`
	Labels map[string]labelWire `json:"labels"`
	Claims map[string][]Claim   `json:"claims"`
}

// entityDataWire is the document served by Special:EntityData.
type entityDataWire struct {
	Entities map[string]entityWire `json:"entities"`
}

// decodeEntityData decodes a Special:EntityData document. The document
// holds exactly one entity; for a redirected id it is keyed by the target.
func decodeEntityData(data []byte) (*Entity, error) {
	var doc entityDataWire
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: entity data: %w", ErrSchemaMismatch, err)
	}
	if len(doc.Entities) != 1 {
		return nil, fmt.Errorf("%w: expected one entity, got %d", ErrSchemaMismatch, len(doc.Entities))
	}

	var (
		key string
		w   entityWire
	)
	for k, v := range doc.Entities {
		key, w = k, v
	}

	id := w.ID
	if id == "" {
		id = key
	}
	labels := make(MultilingualText, len(w.Labels))
	for lang, label := range w.Labels {
		labels[lang] = label.Value
	}
	claims := w.Claims
	if claims == nil {
		claims = map[string][]Claim{}
	}
	return &Entity{ID: id, Labels: labels, Claims: claims}, nil
}

// Label returns the English label.
func (e *Entity) Label() (string, bool) {
	return e.Labels.English()
}

// Values decodes every value snak of the property's claims, in claim order.
// Claims with no value or an unknown value are skipped. A missing property
// yields an empty slice.
func (e *Entity) Values(property string) ([]Value, error) {
	claims := e.Claims[property]
	values := make([]Value, 0, len(claims))
	for _, claim := range claims {
		if claim.MainSnak.SnakType != SnakValue {
			continue
		}
		v, err := decodeDatavalue(claim.MainSnak.DataValue)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", property, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// First returns the first value of the property. The boolean is false when
// the property has no value. All values are decoded, so an undecodable
// later value is still reported as an error.
func (e *Entity) First(property string) (Value, bool, error) {
	values, err := e.Values(property)
	if err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	return values[0], true, nil
}

// RawTimes returns the undecoded time strings of the property's value
// snaks, in claim order. A value snak that is not a time is a schema
// mismatch.
func (e *Entity) RawTimes(property string) ([]string, error) {
	claims := e.Claims[property]
	times := make([]string, 0, len(claims))
	for _, claim := range claims {
		if claim.MainSnak.SnakType != SnakValue {
			continue
		}
		var dv struct {
			Type  string   `json:"type"`
			Value timeWire `json:"value"`
		}
		if err := json.Unmarshal(claim.MainSnak.DataValue, &dv); err != nil {
			return nil, fmt.Errorf("%w: property %s: %w", ErrSchemaMismatch, property, err)
		}
		if dv.Type != "time" || dv.Value.Time == "" {
			return nil, fmt.Errorf("%w: property %s holds %q, not a time", ErrSchemaMismatch, property, dv.Type)
		}
		times = append(times, dv.Value.Time)
	}
	return times, nil
}
