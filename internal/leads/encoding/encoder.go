// Package encoding maps categorical lead values to the integer codes the
// model was trained on.
package encoding

import (
	"fmt"
	"sort"

	"leadscore_backend/internal/leads/domain"
	"leadscore_backend/platform/apperr"
)

// Unknown is substituted for missing categorical values before lookup.
// A field can only absorb missing values if its table registers this class.
const Unknown = "unknown"

const opEncode = "encoding.Encode"

type fieldCodes struct {
	classes []string
	codes   map[string]int64
}

// Table is the per-field category → code mapping built at training time.
// It is immutable after NewTable and safe for concurrent use.
type Table struct {
	fields map[string]fieldCodes
}

// NewTable builds a table from ordered class lists keyed by trained column
// label. The code of a class is its index, which is how scikit-learn's
// LabelEncoder assigns codes from classes_.
func NewTable(classes map[string][]string) (*Table, error) {
	t := &Table{fields: make(map[string]fieldCodes, len(classes))}
	for field, list := range classes {
		if len(list) == 0 {
			return nil, fmt.Errorf("encoder for %q has no classes", field)
		}
		fc := fieldCodes{
			classes: append([]string(nil), list...),
			codes:   make(map[string]int64, len(list)),
		}
		for i, class := range list {
			if _, dup := fc.codes[class]; dup {
				return nil, fmt.Errorf("encoder for %q lists class %q twice", field, class)
			}
			fc.codes[class] = int64(i)
		}
		t.fields[field] = fc
	}
	return t, nil
}

// Fields returns the encoded column labels in sorted order.
func (t *Table) Fields() []string {
	out := make([]string, 0, len(t.fields))
	for field := range t.fields {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Has reports whether field is encoded by the table.
func (t *Table) Has(field string) bool {
	_, ok := t.fields[field]
	return ok
}

// HasUnknown reports whether field registers the Unknown class.
func (t *Table) HasUnknown(field string) bool {
	fc, ok := t.fields[field]
	if !ok {
		return false
	}
	_, ok = fc.codes[Unknown]
	return ok
}

// Classes returns a copy of the ordered classes for field.
func (t *Table) Classes(field string) []string {
	return append([]string(nil), t.fields[field].classes...)
}

// Encode returns a copy of raw in which every field covered by the table is
// replaced by its integer code. Missing values (nil, empty, or an absent
// column) become Unknown first. Fields outside the table pass through.
// A value the table cannot map fails the whole row.
func (t *Table) Encode(raw domain.Row) (domain.Row, error) {
	out := make(domain.Row, len(raw)+len(t.fields))
	for field, value := range raw {
		out[field] = value
	}

	for _, field := range t.Fields() {
		fc := t.fields[field]

		var category string
		switch v := raw[field].(type) {
		case nil:
			category = Unknown
		case string:
			category = v
			if category == "" {
				category = Unknown
			}
		default:
			return nil, apperr.Encoding(fmt.Sprintf("field %q expects a categorical value, got %T", field, v)).
				WithOp(opEncode).
				WithDetails(map[string]string{"field": field})
		}

		code, ok := fc.codes[category]
		if !ok {
			return nil, apperr.Encoding(fmt.Sprintf("field %q: value %q was not seen during training", field, category)).
				WithOp(opEncode).
				WithDetails(map[string]string{"field": field, "value": category})
		}
		out[field] = code
	}

	return out, nil
}
