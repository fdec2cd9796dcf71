package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finances/internal/core"
)

// Kind is the value type of a writable field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	// KindRef is an id pointing at a row in Field.Ref that the caller must own.
	KindRef
)

// Field describes one writable column of a resource.
type Field struct {
	Name     string // JSON key
	Column   string
	Kind     Kind
	Required bool
	Ref      string // parent table, KindRef only
	// WriteOnly columns are accepted on input but never selected.
	WriteOnly bool
}

// Values holds decoded field values keyed by Field.Name. Only fields that
// were present in the request appear.
type Values map[string]any

// Descriptor tells the generic repository how to store one resource.
//
// Ownership is direct when OwnerColumn is set: the row belongs to the user
// whose id is in that column. Otherwise every KindRef field is a parent and
// the row belongs to the caller only if all parents do.
type Descriptor[T any] struct {
	Resource    string
	Table       string
	OwnerColumn string
	Fields      []Field
	// Scan reads one row in the order given by Columns.
	Scan func(RowScanner) (T, error)
}

// Columns lists the selected columns: id, the owner column (unless it is id
// itself), readable fields, created_at, updated_at.
func (d Descriptor[T]) Columns() []string {
	cols := []string{"id"}
	if d.OwnerColumn != "" && d.OwnerColumn != "id" {
		cols = append(cols, d.OwnerColumn)
	}
	for _, f := range d.Fields {
		if !f.WriteOnly {
			cols = append(cols, f.Column)
		}
	}
	return append(cols, "created_at", "updated_at")
}

// Direct reports whether the row carries its owner's id.
func (d Descriptor[T]) Direct() bool {
	return d.OwnerColumn != ""
}

// Parents returns the reference fields that establish transitive ownership.
func (d Descriptor[T]) Parents() []Field {
	if d.Direct() {
		return nil
	}
	return d.refs()
}

func (d Descriptor[T]) refs() []Field {
	var out []Field
	for _, f := range d.Fields {
		if f.Kind == KindRef {
			out = append(out, f)
		}
	}
	return out
}

func (d Descriptor[T]) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Decode converts a JSON object into Values. Keys that are absent or null
// are left out; unknown keys are ignored. Present zero values are kept.
func (d Descriptor[T]) Decode(body map[string]json.RawMessage) (Values, error) {
	values := make(Values)
	for _, f := range d.Fields {
		raw, ok := body[f.Name]
		if !ok || isNull(raw) {
			continue
		}
		v, err := decodeValue(f, raw)
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return values, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func decodeValue(f Field, raw json.RawMessage) (any, error) {
	switch f.Kind {
	case KindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, core.NewValidationError(f.Name, "must be a string")
		}
		return s, nil
	case KindInt:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, core.NewValidationError(f.Name, "must be an integer")
		}
		return n, nil
	case KindRef:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil || n <= 0 {
			return nil, core.NewValidationError(f.Name, "must be a positive id")
		}
		return n, nil
	case KindDecimal:
		var dec decimal.Decimal
		if err := dec.UnmarshalJSON(raw); err != nil {
			return nil, core.NewValidationError(f.Name, "must be a number")
		}
		if err := checkDecimal(f.Name, dec); err != nil {
			return nil, err
		}
		return dec, nil
	default:
		return nil, core.NewValidationError(f.Name, "unsupported field")
	}
}

// Decimal bounds accepted on input.
const (
	MaxDecimalIntDigits = 15
	MaxDecimalScale     = 4
)

var decimalLimit = decimal.New(1, MaxDecimalIntDigits)

// checkDecimal keeps amounts within a fixed range and scale. The exponent
// and digit count are checked first so that inputs like 1e400000 are
// refused before any arithmetic on them.
func checkDecimal(field string, dec decimal.Decimal) error {
	if dec.IsZero() {
		return nil
	}
	tooLarge := core.NewValidationError(field, fmt.Sprintf("must have at most %d integer digits", MaxDecimalIntDigits))
	tooPrecise := core.NewValidationError(field, fmt.Sprintf("must have at most %d decimal places", MaxDecimalScale))

	if dec.Exponent() > MaxDecimalIntDigits {
		return tooLarge
	}
	if dec.NumDigits() > MaxDecimalIntDigits+MaxDecimalScale+16 || dec.Exponent() < -(MaxDecimalScale+16) {
		return tooPrecise
	}
	if !dec.Round(MaxDecimalScale).Equal(dec) {
		return tooPrecise
	}
	if dec.Abs().GreaterThanOrEqual(decimalLimit) {
		return tooLarge
	}
	return nil
}

// CheckRequired fails on the first required field that is missing or holds
// its zero value.
func (d Descriptor[T]) CheckRequired(values Values) error {
	for _, f := range d.Fields {
		if !f.Required {
			continue
		}
		v, ok := values[f.Name]
		if !ok || isZero(v) {
			return core.NewValidationError(f.Name, "is required")
		}
	}
	return nil
}

// CheckNotBlank rejects present-but-blank values for required fields, so an
// update cannot empty a column that create insists on.
func (d Descriptor[T]) CheckNotBlank(values Values) error {
	for _, f := range d.Fields {
		if !f.Required {
			continue
		}
		if v, ok := values[f.Name]; ok && isZero(v) {
			return core.NewValidationError(f.Name, "must not be empty")
		}
	}
	return nil
}

// WithDefaults fills every absent field with its zero value.
func (d Descriptor[T]) WithDefaults(values Values) Values {
	out := make(Values, len(d.Fields))
	for _, f := range d.Fields {
		if v, ok := values[f.Name]; ok {
			out[f.Name] = v
			continue
		}
		switch f.Kind {
		case KindString:
			out[f.Name] = ""
		case KindDecimal:
			out[f.Name] = decimal.Zero
		default:
			out[f.Name] = int64(0)
		}
	}
	return out
}

func isZero(v any) bool {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x) == ""
	case int64:
		return x == 0
	case decimal.Decimal:
		return x.IsZero()
	case nil:
		return true
	default:
		return false
	}
}
