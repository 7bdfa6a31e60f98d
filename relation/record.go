package relation

import (
	"bytes"
	"encoding/json"
	"math"
)

// Field is a single named value inside a Record.
type Field struct {
	Name  string
	Value interface{}
}

// Record is an ordered field-name to scalar mapping.
//
// Values are nil, int64, float64 or string. Field order is significant: it
// drives output headers, DISTINCT keys and JSON encoding.
type Record []Field

// NewRecord builds a record from alternating name/value arguments.
//
//	rec := NewRecord("name", "Alice", "age", int64(24))
func NewRecord(pairs ...interface{}) Record {
	rec := make(Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rec = rec.With(pairs[i].(string), pairs[i+1])
	}
	return rec
}

// Get returns the value for name and whether the field exists.
func (r Record) Get(name string) (interface{}, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether the record carries a field called name.
func (r Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// With returns a record with name set to value. An existing field keeps its
// position; a new field is appended. The receiver is never modified.
func (r Record) With(name string, value interface{}) Record {
	out := make(Record, len(r), len(r)+1)
	copy(out, r)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Name: name, Value: value})
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Values returns the field values in order.
func (r Record) Values() []interface{} {
	values := make([]interface{}, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// MarshalJSON encodes the record as a JSON object preserving field order.
// Non-finite floats have no JSON form and are written as the strings
// "Infinity", "-Infinity" and "NaN".
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(jsonValue(f.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonValue(v interface{}) interface{} {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return f
}
