package record

import (
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
)

// Kind discriminates the value union.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// String returns a human-readable kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the JSON value types. Source records carry
// arbitrary field sets, so nothing beyond the union shape is assumed.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	obj  *Record
	arr  []Value
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// String wraps a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int wraps an integer value as a number.
func Int(i int) Value { return Value{kind: KindNumber, num: float64(i)} }

// Bool wraps a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Object wraps a nested record.
func Object(r *Record) Value { return Value{kind: KindObject, obj: r} }

// Array wraps a sequence of values.
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Kind reports which member of the union is set.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string member; zero unless Kind is KindString.
func (v Value) Str() string { return v.str }

// Num returns the numeric member; zero unless Kind is KindNumber.
func (v Value) Num() float64 { return v.num }

// B returns the boolean member; false unless Kind is KindBool.
func (v Value) B() bool { return v.b }

// Obj returns the nested record; nil unless Kind is KindObject.
func (v Value) Obj() *Record { return v.obj }

// Arr returns the element slice; nil unless Kind is KindArray.
func (v Value) Arr() []Value { return v.arr }

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Scalar reports whether the value is a string, number, bool, or null.
func (v Value) Scalar() bool {
	return v.kind != KindObject && v.kind != KindArray
}

// Equal compares two values deeply.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindObject:
		return v.obj.Equal(o.obj)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes the value in its natural JSON form. Object fields
// are emitted in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindObject:
		return v.obj.MarshalJSON()
	case KindArray:
		buf := []byte{'['}
		for i, el := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := el.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		return append(buf, ']'), nil
	}
	return nil, eris.Errorf("record: marshal unknown kind %d", v.kind)
}

// UnmarshalJSON decodes any JSON value into the union.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := newDecoder(data)
	parsed, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
