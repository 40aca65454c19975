package wikidata

import (
	"encoding/json"
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// GregorianCalendar is the calendar model of dates the decoder accepts.
const GregorianCalendar = "http://www.wikidata.org/entity/Q1985727"

// Time precisions defined by the Wikibase data model.
const (
	PrecisionYear   = 9
	PrecisionMonth  = 10
	PrecisionDay    = 11
	PrecisionSecond = 14
)

// Value is a decoded claim value. The set of implementations is closed.
type Value interface {
	isValue()
}

// MonolingualText is text in a single language.
type MonolingualText struct {
	Text     string
	Language string
}

// MultilingualText maps language codes to text. Entity labels are
// multilingual.
type MultilingualText map[string]string

// String is a plain string value, such as an external identifier.
type String string

// Integer is a unitless quantity with an integral amount.
type Integer int64

// Year is a time value with year precision.
type Year int

// Date is a time value with day or second precision.
type Date struct {
	Time      time.Time
	Precision int
}

// EntityRef refers to another item. Its label must be fetched separately.
type EntityRef struct {
	ID string
}

func (MonolingualText) isValue()  {}
func (MultilingualText) isValue() {}
func (String) isValue()           {}
func (Integer) isValue()          {}
func (Year) isValue()             {}
func (Date) isValue()             {}
func (EntityRef) isValue()        {}

// String returns the text.
func (m MonolingualText) String() string {
	return m.Text
}

// Get returns the text for an exact language code.
func (m MultilingualText) Get(lang string) (string, bool) {
	text, ok := m[lang]
	return text, ok
}

// English returns the text of the exact "en" entry.
func (m MultilingualText) English() (string, bool) {
	return m.Get("en")
}

// AnyEnglish is like English but falls back to the first regional English
// variant in code order (en-gb, en-ca, ...).
func (m MultilingualText) AnyEnglish() (string, bool) {
	if text, ok := m.English(); ok {
		return text, true
	}
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		if base, _ := tag.Base(); base == englishBase {
			return m[code], true
		}
	}
	return "", false
}

var englishBase, _ = language.English.Base()

// Year returns the calendar year of the date.
func (d Date) Year() int {
	return d.Time.Year()
}

// datavalue is the wire form of a snak's datavalue.
type datavalue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type monolingualWire struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type quantityWire struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type timeWire struct {
	Time          string `json:"time"`
	Precision     int    `json:"precision"`
	CalendarModel string `json:"calendarmodel"`
}

type entityIDWire struct {
	ID         string `json:"id"`
	EntityType string `json:"entity-type"`
	NumericID  int64  `json:"numeric-id"`
}

// decodeDatavalue converts the wire form of a datavalue into a Value.
func decodeDatavalue(raw json.RawMessage) (Value, error) {
	var dv datavalue
	if err := json.Unmarshal(raw, &dv); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	switch dv.Type {
	case "string":
		var s string
		if err := json.Unmarshal(dv.Value, &s); err != nil {
			return nil, fmt.Errorf("%w: string: %w", ErrSchemaMismatch, err)
		}
		return String(s), nil

	case "monolingualtext":
		var m monolingualWire
		if err := json.Unmarshal(dv.Value, &m); err != nil {
			return nil, fmt.Errorf("%w: monolingualtext: %w", ErrSchemaMismatch, err)
		}
		return MonolingualText(m), nil

	case "quantity":
		var q quantityWire
		if err := json.Unmarshal(dv.Value, &q); err != nil {
			return nil, fmt.Errorf("%w: quantity: %w", ErrSchemaMismatch, err)
		}
		return decodeQuantity(q)

	case "time":
		var tw timeWire
		if err := json.Unmarshal(dv.Value, &tw); err != nil {
			return nil, fmt.Errorf("%w: time: %w", ErrSchemaMismatch, err)
		}
		return decodeTime(tw)

	case "wikibase-entityid":
		var e entityIDWire
		if err := json.Unmarshal(dv.Value, &e); err != nil {
			return nil, fmt.Errorf("%w: wikibase-entityid: %w", ErrSchemaMismatch, err)
		}
		id := e.ID
		if id == "" && e.EntityType == "item" && e.NumericID > 0 {
			id = "Q" + strconv.FormatInt(e.NumericID, 10)
		}
		if !IsEntityID(id) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEntityID, id)
		}
		return EntityRef{ID: id}, nil

	default:
		return nil, fmt.Errorf("%w: datavalue type %q", ErrSchemaMismatch, dv.Type)
	}
}

// decodeQuantity accepts unitless quantities with an integral amount.
func decodeQuantity(q quantityWire) (Value, error) {
	if strings.TrimSpace(q.Unit) != "1" {
		return nil, fmt.Errorf("%w: quantity with unit %q", ErrUnsupportedDatavalue, q.Unit)
	}
	amount, ok := new(big.Rat).SetString(strings.TrimPrefix(q.Amount, "+"))
	if !ok {
		return nil, fmt.Errorf("%w: quantity amount %q", ErrSchemaMismatch, q.Amount)
	}
	if !amount.IsInt() || !amount.Num().IsInt64() {
		return nil, fmt.Errorf("%w: non-integral quantity %q", ErrUnsupportedDatavalue, q.Amount)
	}
	return Integer(amount.Num().Int64()), nil
}

// decodeTime decodes year, day and second precision Gregorian times.
func decodeTime(tw timeWire) (Value, error) {
	if tw.CalendarModel != GregorianCalendar {
		return nil, fmt.Errorf("%w: calendar model %q", ErrUnsupportedDatavalue, tw.CalendarModel)
	}
	if !strings.HasPrefix(tw.Time, "+") {
		return nil, fmt.Errorf("%w: time %q is not in the common era", ErrUnsupportedDatavalue, tw.Time)
	}
	body := tw.Time[1:]

	switch tw.Precision {
	case PrecisionYear:
		yearPart, _, _ := strings.Cut(body, "-")
		year, err := strconv.Atoi(yearPart)
		if err != nil {
			return nil, fmt.Errorf("%w: time %q: %w", ErrSchemaMismatch, tw.Time, err)
		}
		return Year(year), nil

	case PrecisionDay:
		datePart, _, _ := strings.Cut(body, "T")
		t, err := time.Parse(time.DateOnly, datePart)
		if err != nil {
			return nil, fmt.Errorf("%w: time %q: %w", ErrUnsupportedDatavalue, tw.Time, err)
		}
		return Date{Time: t, Precision: tw.Precision}, nil

	case PrecisionSecond:
		t, err := time.Parse(time.RFC3339, body)
		if err != nil {
			return nil, fmt.Errorf("%w: time %q: %w", ErrUnsupportedDatavalue, tw.Time, err)
		}
		return Date{Time: t, Precision: tw.Precision}, nil

	default:
		return nil, fmt.Errorf("%w: time precision %d", ErrUnsupportedDatavalue, tw.Precision)
	}
}
