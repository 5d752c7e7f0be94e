// Package record is the order-preserving generic value representation that
// sits between caller records and collection schemas.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

// Value kinds. Only String, Bool, Uint, Int, Float and Bytes are flat.
const (
	KindNull Kind = iota
	KindString
	KindBool
	KindUint
	KindInt
	KindFloat
	KindBytes
	KindMap
	KindSeq
	KindOptional
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindUint:
		return "unsigned integer"
	case KindInt:
		return "signed integer"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindMap:
		return "map"
	case KindSeq:
		return "sequence"
	case KindOptional:
		return "optional"
	default:
		return "unsupported"
	}
}

// IsFlat reports whether the kind can be stored in a single field.
func (k Kind) IsFlat() bool {
	switch k {
	case KindString, KindBool, KindUint, KindInt, KindFloat, KindBytes:
		return true
	}
	return false
}

// Value is a tagged variant over the flat value kinds.
type Value struct {
	kind Kind
	s    string
	b    bool
	u    uint64
	i    int64
	f    float64
	raw  []byte
}

// String creates a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bool creates a bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Uint creates an unsigned integer value.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Int creates a signed integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float creates a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bytes creates a byte sequence value. The slice is copied.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, raw: append([]byte{}, b...)}
}

// Null is the absent value.
func Null() Value { return Value{kind: KindNull} }

func opaque(k Kind) Value { return Value{kind: k} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// BoolValue returns the bool payload.
func (v Value) BoolValue() bool { return v.b }

// UintValue returns the unsigned payload.
func (v Value) UintValue() uint64 { return v.u }

// IntValue returns the signed payload.
func (v Value) IntValue() int64 { return v.i }

// FloatValue returns the float payload.
func (v Value) FloatValue() float64 { return v.f }

// BytesValue returns the byte payload.
func (v Value) BytesValue() []byte { return v.raw }

func (v Value) appendJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindString:
		return appendMarshal(buf, v.s)
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindUint:
		buf.WriteString(strconv.FormatUint(v.u, 10))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return fmt.Errorf("unsupported float value %v", v.f)
		}
		buf.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindBytes:
		return appendMarshal(buf, v.raw)
	default:
		return fmt.Errorf("cannot encode %s value", v.kind)
	}
	return nil
}

func appendMarshal(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err //nolint:wrapcheck // caller adds context
	}
	buf.Write(b)
	return nil
}

// Entry is one key-value pair of a Record.
type Entry struct {
	Key   string
	Value Value
}

// Record is a flat key-value structure that keeps keys in insertion order.
type Record struct {
	entries []Entry
	index   map[string]int
}

// New creates a record from entries. Later duplicates of a key are ignored.
func New(entries ...Entry) Record {
	var r Record
	for _, e := range entries {
		r.Set(e.Key, e.Value)
	}
	return r
}

// Set appends key, or replaces its value if the key is already present.
func (r *Record) Set(key string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.entries[i].Value = v
		return
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, Entry{Key: key, Value: v})
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Get returns the value stored under key.
func (r Record) Get(key string) (Value, bool) {
	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.entries[i].Value, true
}

// Len returns the number of keys.
func (r Record) Len() int { return len(r.entries) }

// Entries returns the pairs in order. The slice must not be modified.
func (r Record) Entries() []Entry { return r.entries }

// Keys returns the keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON encodes the record as a JSON object in key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendMarshal(&buf, e.Key); err != nil {
			return nil, fmt.Errorf("encode key %q: %w", e.Key, err)
		}
		buf.WriteByte(':')
		if err := e.Value.appendJSON(&buf); err != nil {
			return nil, fmt.Errorf("encode field %q: %w", e.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
