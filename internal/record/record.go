// Package record models schemaless dataset records as ordered field maps
// over a tagged value union. Field order follows the source document, so
// a decoded record re-encodes byte-comparably.
package record

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Field is a single named value within a record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered mapping from field name to value.
type Record struct {
	fields []Field
	index  map[string]int
}

// New returns an empty record.
func New() *Record {
	return &Record{index: make(map[string]int)}
}

// Set appends the field, or replaces it in place when the name exists.
func (r *Record) Set(name string, v Value) *Record {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return r
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
	return r
}

// Get returns the value for name and whether the field exists.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil || r.index == nil {
		return Value{}, false
	}
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value, true
}

// Has reports whether the field exists.
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Fields returns the fields in insertion order. The slice is shared;
// callers must not mutate it.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	return r.fields
}

// Equal compares two records deeply, including field order.
func (r *Record) Equal(o *Record) bool {
	if r.Len() != o.Len() {
		return false
	}
	for i, f := range r.Fields() {
		of := o.Fields()[i]
		if f.Name != of.Name || !f.Value.Equal(of.Value) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, f := range r.Fields() {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, eris.Wrap(err, "record: marshal field name")
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, eris.Wrapf(err, "record: marshal field %s", f.Name)
		}
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON decodes a JSON object, preserving field order.
func (r *Record) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// Parse decodes a single JSON object into a record.
func Parse(data []byte) (*Record, error) {
	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return nil, eris.Wrap(err, "record: read opening token")
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, eris.Errorf("record: expected object, got %v", tok)
	}
	rec, err := decodeObject(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, eris.New("record: trailing data after object")
	}
	return rec, nil
}

func newDecoder(data []byte) *json.Decoder {
	return json.NewDecoder(bytes.NewReader(data))
}

// decodeObject consumes fields up to and including the closing brace.
// The opening brace must already have been read.
func decodeObject(dec *json.Decoder) (*Record, error) {
	rec := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, eris.Wrap(err, "record: read field name")
		}
		name, ok := tok.(string)
		if !ok {
			return nil, eris.Errorf("record: expected field name, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, eris.Wrapf(err, "record: field %s", name)
		}
		rec.Set(name, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, eris.Wrap(err, "record: read closing brace")
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, eris.Wrap(err, "record: read value token")
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return Object(obj), nil
		case '[':
			var els []Value
			for dec.More() {
				el, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				els = append(els, el)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, eris.Wrap(err, "record: read closing bracket")
			}
			return Array(els...), nil
		default:
			return Value{}, eris.Errorf("record: unexpected delimiter %v", t)
		}
	case string:
		return String(t), nil
	case float64:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, eris.Errorf("record: unexpected token %v", tok)
	}
}
