package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sgrust01/json-surf/internal/domain"
)

// ParseJSON decodes a single JSON object, keeping its keys in document order.
// Nested objects and arrays are kept as opaque KindMap/KindSeq values.
func ParseJSON(data []byte) (Record, error) {
	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return Record{}, fmt.Errorf("read json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Record{}, fmt.Errorf("%w: expected a JSON object", domain.ErrNotFlat)
	}
	rec, err := decodeObject(dec)
	if err != nil {
		return Record{}, err
	}
	if err := expectEOF(dec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ParseJSONList decodes either one JSON object or an array of objects.
func ParseJSONList(data []byte) ([]Record, error) {
	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object or array", domain.ErrNotFlat)
	}

	var out []Record
	switch d {
	case '{':
		rec, err := decodeObject(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	case '[':
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("read json: %w", err)
			}
			if d, ok := tok.(json.Delim); !ok || d != '{' {
				return nil, fmt.Errorf("%w: array elements must be JSON objects", domain.ErrNotFlat)
			}
			rec, err := decodeObject(dec)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: expected a JSON object or array", domain.ErrNotFlat)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return out, nil
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("read json: unexpected data after top-level value")
	}
	return nil
}

// decodeObject reads key/value pairs up to and including the closing brace.
func decodeObject(dec *json.Decoder) (Record, error) {
	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Record{}, fmt.Errorf("read json key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Record{}, fmt.Errorf("read json: object key is not a string")
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Record{}, fmt.Errorf("read json field %q: %w", key, err)
		}
		if !rec.Has(key) {
			rec.Set(key, v)
		}
	}
	if _, err := dec.Token(); err != nil {
		return Record{}, fmt.Errorf("read json: %w", err)
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err //nolint:wrapcheck // wrapped by decodeObject
	}
	switch t := tok.(type) {
	case json.Delim:
		kind := KindMap
		if t == '[' {
			kind = KindSeq
		}
		if err := skipNested(dec); err != nil {
			return Value{}, err
		}
		return opaque(kind), nil
	case string:
		return String(t), nil
	case json.Number:
		return ParseNumber(t.String()), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return opaque(KindOther), nil
	}
}

// skipNested consumes tokens until the structure opened by the previous
// delimiter is closed.
func skipNested(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err //nolint:wrapcheck // wrapped by decodeObject
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
