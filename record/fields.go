package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the key under which a document's identifier is rendered.
const IDField = "_id"

// ErrNotObject is returned when a body that should be a JSON object is
// something else (an array, a scalar, or null).
var ErrNotObject = errors.New("record: expected a JSON object")

// Fields is an open set of named values.
type Fields map[string]Value

// FieldsFromMap converts a decoded JSON/BSON object.
func FieldsFromMap(in map[string]any) (Fields, error) {
	out := make(Fields, len(in))
	for k, raw := range in {
		v, err := FromInterface(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Map converts the fields to a map of plain Go values.
func (f Fields) Map() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v.Interface()
	}
	return out
}

// Clone returns a shallow copy. Values are immutable once built, so sharing
// nested items between copies is fine.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Pick returns exactly the given keys. Keys missing from f are present in the
// result as null.
func (f Fields) Pick(keys ...string) Fields {
	out := make(Fields, len(keys))
	for _, k := range keys {
		out[k] = f[k]
	}
	return out
}

// Without returns a copy of f with the given keys removed.
func (f Fields) Without(keys ...string) Fields {
	out := f.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Merge returns a copy of f with every key of set written over it.
func (f Fields) Merge(set Fields) Fields {
	out := f.Clone()
	for k, v := range set {
		out[k] = v
	}
	return out
}

// Equal reports whether both bags hold the same keys with equal values.
func (f Fields) Equal(o Fields) bool {
	if len(f) != len(o) {
		return false
	}
	for k, v := range f {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the field names in lexical order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalJSON accepts only a JSON object.
func (f *Fields) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSON(data)
	if err != nil {
		return err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return ErrNotObject
	}
	parsed, err := FieldsFromMap(obj)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Document is one stored record: its identifier plus the caller's fields.
type Document struct {
	ID     primitive.ObjectID
	Fields Fields
}

// MarshalJSON renders the document as a flat object with the id under "_id".
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	out[IDField] = String(d.ID.Hex())
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat form written by MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	var f Fields
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	var id primitive.ObjectID
	if raw, ok := f[IDField]; ok {
		hex, _ := raw.AsString()
		parsed, err := ParseID(hex)
		if err != nil {
			return err
		}
		id = parsed
		delete(f, IDField)
	}
	d.ID = id
	d.Fields = f
	return nil
}
