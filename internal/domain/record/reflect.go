package record

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/sgrust01/json-surf/internal/domain"
)

var (
	numberType = reflect.TypeOf(json.Number(""))
	recordType = reflect.TypeOf(Record{})
)

// FromValue converts v into a Record.
//
// Structs keep their declaration order and follow encoding/json naming
// (json tag names, "-" skips, untagged anonymous structs are flattened).
// Maps with string keys are ordered by key, which is the order encoding/json
// writes them. A Record is returned unchanged. Anything else is not flat.
//
// Values are not validated here; a nested map, pointer or slice shows up as a
// non-flat Kind and is rejected by whoever consumes the record.
func FromValue(v any) (Record, error) {
	switch r := v.(type) {
	case Record:
		return r, nil
	case *Record:
		if r == nil {
			return Record{}, fmt.Errorf("%w: nil record", domain.ErrNotFlat)
		}
		return *r, nil
	}

	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return Record{}, fmt.Errorf("%w: nil value", domain.ErrNotFlat)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Record{}, fmt.Errorf("%w: nil value", domain.ErrNotFlat)
	}

	var rec Record
	switch rv.Kind() {
	case reflect.Struct:
		if rv.Type() == recordType {
			return rv.Interface().(Record), nil //nolint:forcetypeassert // checked above
		}
		structEntries(rv, &rec)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Record{}, fmt.Errorf("%w: map keys must be strings, got %s", domain.ErrNotFlat, rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			rec.Set(k, valueOf(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))))
		}
	default:
		return Record{}, fmt.Errorf("%w: got %s", domain.ErrNotFlat, rv.Type())
	}
	return rec, nil
}

func structEntries(rv reflect.Value, rec *Record) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if sf.Anonymous && name == "" {
			fv := rv.Field(i)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				structEntries(fv, rec)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if rec.Has(name) {
			continue
		}
		rec.Set(name, valueOf(rv.Field(i)))
	}
}

func valueOf(fv reflect.Value) Value {
	if !fv.IsValid() {
		return Null()
	}
	if fv.Type() == numberType {
		return ParseNumber(fv.String())
	}
	switch fv.Kind() {
	case reflect.Interface:
		if fv.IsNil() {
			return Null()
		}
		return valueOf(fv.Elem())
	case reflect.Pointer:
		return opaque(KindOptional)
	case reflect.String:
		return String(fv.String())
	case reflect.Bool:
		return Bool(fv.Bool())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(fv.Uint())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(fv.Int())
	case reflect.Float32:
		// Shortest float32 form, as encoding/json writes it.
		f, _ := strconv.ParseFloat(strconv.FormatFloat(fv.Float(), 'g', -1, 32), 64)
		return Float(f)
	case reflect.Float64:
		return Float(fv.Float())
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(fv.Bytes())
		}
		return opaque(KindSeq)
	case reflect.Array:
		return opaque(KindSeq)
	case reflect.Map, reflect.Struct:
		return opaque(KindMap)
	default:
		return opaque(KindOther)
	}
}

// ParseNumber classifies a JSON number literal: non-negative integers are
// Uint, negative integers Int, everything else Float.
func ParseNumber(s string) Value {
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Uint(u)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return String(s)
}
