// Package record models the open, caller-defined documents stored in the
// relief-goods and recent-works collections.
//
// A document is a bag of named values. Values are a small tagged union
// (null, bool, number, string, array, object) rather than `interface{}`, so
// the rest of the application can accept any JSON object a client sends while
// still handling the contents with ordinary type switches on Kind.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind identifies which member of the Value union is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single field value. The zero Value is null.
type Value struct {
	kind   Kind
	flag   bool
	number float64
	text   string
	items  []Value
	fields Fields
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Number wraps a number. JSON has a single numeric type, so all numbers are float64.
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Array wraps a list of values.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object wraps a nested field bag.
func Object(f Fields) Value {
	if f == nil {
		f = Fields{}
	}
	return Value{kind: KindObject, fields: f}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }
func (v Value) AsNumber() (float64, bool) { return v.number, v.kind == KindNumber }
func (v Value) AsString() (string, bool) { return v.text, v.kind == KindString }
func (v Value) AsArray() ([]Value, bool) { return v.items, v.kind == KindArray }
func (v Value) AsObject() (Fields, bool) { return v.fields, v.kind == KindObject }

// Equal reports whether two values have the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.flag == o.flag
	case KindNumber:
		return v.number == o.number
	case KindString:
		return v.text == o.text
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.fields.Equal(o.fields)
	}
	return false
}

// Interface converts the value to plain Go types (nil, bool, float64, string,
// []any, map[string]any). Both encoding/json and the mongo driver encode the
// result natively.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindNumber:
		return v.number
	case KindString:
		return v.text
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		return v.fields.Map()
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.flag)
	case KindNumber:
		return json.Marshal(v.number)
	case KindString:
		return json.Marshal(v.text)
	case KindArray:
		return json.Marshal(v.items)
	case KindObject:
		return json.Marshal(v.fields)
	}
	return nil, fmt.Errorf("record: cannot marshal value of %s", v.kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSON(data)
	if err != nil {
		return err
	}
	parsed, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ErrUnsupportedType is returned by FromInterface for Go values that have no
// field-bag representation (channels, functions, arbitrary structs, ...).
var ErrUnsupportedType = errors.New("record: unsupported value type")

// FromInterface converts decoded JSON or BSON into a Value. ObjectIDs become
// their hex string and BSON datetimes become RFC 3339 strings, which is how
// they are rendered in API responses.
func FromInterface(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return number(x)
	case float32:
		return number(float64(x))
	case int:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("record: invalid number %q: %w", x.String(), err)
		}
		return number(f)
	case primitive.ObjectID:
		return String(x.Hex()), nil
	case primitive.DateTime:
		return String(x.Time().UTC().Format(time.RFC3339Nano)), nil
	case time.Time:
		return String(x.UTC().Format(time.RFC3339Nano)), nil
	case []any:
		return arrayFrom(x)
	case primitive.A:
		return arrayFrom([]any(x))
	case []Value:
		return Array(x...), nil
	case map[string]any:
		f, err := FieldsFromMap(x)
		if err != nil {
			return Value{}, err
		}
		return Object(f), nil
	case primitive.M:
		f, err := FieldsFromMap(map[string]any(x))
		if err != nil {
			return Value{}, err
		}
		return Object(f), nil
	case primitive.D:
		f, err := FieldsFromMap(x.Map())
		if err != nil {
			return Value{}, err
		}
		return Object(f), nil
	case Fields:
		return Object(x), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, in)
}

func number(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("record: number %v is not representable in JSON", f)
	}
	return Number(f), nil
}

func arrayFrom(in []any) (Value, error) {
	items := make([]Value, len(in))
	for i, raw := range in {
		item, err := FromInterface(raw)
		if err != nil {
			return Value{}, fmt.Errorf("index %d: %w", i, err)
		}
		items[i] = item
	}
	return Array(items...), nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
