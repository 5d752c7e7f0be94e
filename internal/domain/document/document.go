// Package document bridges records and the index's native documents.
//
// The index keeps one value per field and hands stored values back as plain
// strings and float64s, so the bridge encodes every field type into one of
// those two shapes and reverses the encoding using the schema.
package document

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
	"github.com/sgrust01/json-surf/internal/domain/record"
)

// Native is the index-facing form of a record: field name to string or float64.
type Native map[string]any

// ToNative checks rec against the schema and encodes it. Integers become
// exact decimal strings, floats float64, bools "true"/"false" and bytes
// base64 strings. Keys missing from the record are left out.
func ToNative(rec record.Record, s *collection.Schema) (Native, error) {
	out := make(Native, rec.Len())
	for _, e := range rec.Entries() {
		f, ok := s.FieldByName(e.Key)
		if !ok {
			return nil, domain.NewSerializationError("unable to convert record",
				fmt.Sprintf("field %q is not in the schema", e.Key), nil)
		}
		v, err := encode(f, e.Value)
		if err != nil {
			return nil, domain.NewSerializationError("unable to convert record",
				fmt.Sprintf("field %q: %s", e.Key, err), nil)
		}
		out[e.Key] = v
	}
	return out, nil
}

func encode(f field.Field, v record.Value) (any, error) {
	switch f.FieldType() {
	case field.Text:
		switch v.Kind() {
		case record.KindString:
			return v.Str(), nil
		case record.KindBool:
			return strconv.FormatBool(v.BoolValue()), nil
		}
	case field.UnsignedInt:
		if v.Kind() == record.KindUint {
			return strconv.FormatUint(v.UintValue(), 10), nil
		}
	case field.SignedInt:
		switch v.Kind() {
		case record.KindInt:
			return strconv.FormatInt(v.IntValue(), 10), nil
		case record.KindUint:
			if v.UintValue() <= math.MaxInt64 {
				return strconv.FormatUint(v.UintValue(), 10), nil
			}
			return nil, fmt.Errorf("value %d overflows a signed integer", v.UintValue())
		}
	case field.Float:
		var f64 float64
		switch v.Kind() {
		case record.KindFloat:
			f64 = v.FloatValue()
		case record.KindInt:
			f64 = float64(v.IntValue())
		case record.KindUint:
			f64 = float64(v.UintValue())
		default:
			return nil, mismatch(f, v)
		}
		if math.IsNaN(f64) || math.IsInf(f64, 0) {
			return nil, fmt.Errorf("unsupported float value %v", f64)
		}
		return f64, nil
	case field.Bytes:
		if v.Kind() == record.KindBytes {
			return base64.StdEncoding.EncodeToString(v.BytesValue()), nil
		}
	}
	return nil, mismatch(f, v)
}

func mismatch(f field.Field, v record.Value) error {
	return fmt.Errorf("expected %s, got %s", f.FieldType(), v.Kind())
}

// FromNative rebuilds a record from stored values, in schema order, and
// returns it as JSON. Fields that are not stored are skipped. A stored numeric
// or boolean field without a value is a serialization error.
func FromNative(stored map[string]any, s *collection.Schema) ([]byte, error) {
	var rec record.Record
	for _, f := range s.Fields() {
		if !f.Stored() {
			continue
		}
		raw, ok := first(stored[f.Name()])
		if !ok {
			// empty strings leave no stored value behind
			if !emptyAllowed(f) {
				return nil, domain.NewSerializationError("unable to read document",
					fmt.Sprintf("missing value for field %q", f.Name()), nil)
			}
			raw = ""
		}
		v, err := decode(f, raw)
		if err != nil {
			return nil, domain.NewSerializationError("unable to read document",
				fmt.Sprintf("field %q: %s", f.Name(), err), nil)
		}
		rec.Set(f.Name(), v)
	}

	body, err := rec.MarshalJSON()
	if err != nil {
		return nil, domain.NewSerializationError("unable to encode document", "", err)
	}
	return body, nil
}

func emptyAllowed(f field.Field) bool {
	return (f.FieldType() == field.Text && !f.IsBool()) || f.FieldType() == field.Bytes
}

// first returns the first value of a possibly multi-valued stored field.
func first(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		if len(t) == 0 {
			return nil, false
		}
		return t[0], true
	default:
		return v, true
	}
}

func decode(f field.Field, raw any) (record.Value, error) {
	if f.FieldType() == field.Float {
		n, ok := raw.(float64)
		if !ok {
			return record.Value{}, fmt.Errorf("expected a number, got %T", raw)
		}
		return record.Float(n), nil
	}

	s, ok := raw.(string)
	if !ok {
		return record.Value{}, fmt.Errorf("expected a string, got %T", raw)
	}
	switch f.FieldType() {
	case field.Text:
		if f.IsBool() {
			if b, err := strconv.ParseBool(s); err == nil {
				return record.Bool(b), nil
			}
		}
		return record.String(s), nil
	case field.UnsignedInt:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return record.Value{}, fmt.Errorf("parse unsigned: %w", err)
		}
		return record.Uint(u), nil
	case field.SignedInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return record.Value{}, fmt.Errorf("parse signed: %w", err)
		}
		return record.Int(i), nil
	case field.Bytes:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return record.Value{}, fmt.Errorf("decode bytes: %w", err)
		}
		return record.Bytes(b), nil
	default:
		return record.Value{}, fmt.Errorf("unknown field type %q", f.FieldType())
	}
}
