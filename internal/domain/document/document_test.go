package document

import (
	"errors"
	"math"
	"testing"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
	"github.com/sgrust01/json-surf/internal/domain/record"
)

func testSchema(t *testing.T) *collection.Schema {
	t.Helper()
	s, err := collection.InferRecord(record.New(
		record.Entry{Key: "name", Value: record.String("x")},
		record.Entry{Key: "active", Value: record.Bool(true)},
		record.Entry{Key: "count", Value: record.Uint(1)},
		record.Entry{Key: "delta", Value: record.Int(-1)},
		record.Entry{Key: "ratio", Value: record.Float(0.5)},
		record.Entry{Key: "blob", Value: record.Bytes([]byte{0})},
	), nil)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	return s
}

func TestToNative_Encodes(t *testing.T) {
	s := testSchema(t)
	rec := record.New(
		record.Entry{Key: "name", Value: record.String("Ada")},
		record.Entry{Key: "active", Value: record.Bool(false)},
		record.Entry{Key: "count", Value: record.Uint(math.MaxUint64)},
		record.Entry{Key: "delta", Value: record.Uint(7)},
		record.Entry{Key: "ratio", Value: record.Int(-2)},
		record.Entry{Key: "blob", Value: record.Bytes([]byte("hi"))},
	)

	got, err := ToNative(rec, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Native{
		"name":   "Ada",
		"active": "false",
		"count":  "18446744073709551615",
		"delta":  "7",
		"ratio":  float64(-2),
		"blob":   "aGk=",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("native[%q] = %#v, want %#v", k, got[k], v)
		}
	}
}

func TestToNative_Errors(t *testing.T) {
	s := testSchema(t)
	tests := []struct {
		name  string
		entry record.Entry
	}{
		{"unknown field", record.Entry{Key: "extra", Value: record.String("x")}},
		{"text from number", record.Entry{Key: "name", Value: record.Uint(1)}},
		{"unsigned from signed", record.Entry{Key: "count", Value: record.Int(-1)}},
		{"signed overflow", record.Entry{Key: "delta", Value: record.Uint(math.MaxUint64)}},
		{"float from string", record.Entry{Key: "ratio", Value: record.String("1.0")}},
		{"float NaN", record.Entry{Key: "ratio", Value: record.Float(math.NaN())}},
		{"bytes from string", record.Entry{Key: "blob", Value: record.String("x")}},
		{"null", record.Entry{Key: "name", Value: record.Null()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToNative(record.New(tt.entry), s)
			if !errors.Is(err, domain.ErrSerialization) {
				t.Fatalf("error = %v, want ErrSerialization", err)
			}
		})
	}
}

func TestFromNative_RoundTrip(t *testing.T) {
	s := testSchema(t)
	rec := record.New(
		record.Entry{Key: "blob", Value: record.Bytes([]byte("hi"))},
		record.Entry{Key: "ratio", Value: record.Float(2.25)},
		record.Entry{Key: "delta", Value: record.Int(math.MinInt64)},
		record.Entry{Key: "count", Value: record.Uint(math.MaxUint64)},
		record.Entry{Key: "active", Value: record.Bool(true)},
		record.Entry{Key: "name", Value: record.String("Ada")},
	)
	native, err := ToNative(rec, s)
	if err != nil {
		t.Fatalf("to native: %v", err)
	}

	stored := make(map[string]any, len(native))
	for k, v := range native {
		stored[k] = v
	}
	body, err := FromNative(stored, s)
	if err != nil {
		t.Fatalf("from native: %v", err)
	}

	// schema order, not record order
	want := `{"name":"Ada","active":true,"count":18446744073709551615,"delta":-9223372036854775808,"ratio":2.25,"blob":"aGk="}`
	if string(body) != want {
		t.Errorf("FromNative() =\n%s\nwant\n%s", body, want)
	}
}

func TestFromNative_MultiValuedTakesFirst(t *testing.T) {
	f, _ := field.NewText("name", field.DefaultTextOptions(), false)
	s := collection.Reconstruct([]field.Field{f})

	body, err := FromNative(map[string]any{"name": []any{"a", "b"}}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"name":"a"}` {
		t.Errorf("body = %s", body)
	}
}

func TestFromNative_MissingValue(t *testing.T) {
	s := testSchema(t)
	_, err := FromNative(map[string]any{"name": "x"}, s)
	if !errors.Is(err, domain.ErrSerialization) {
		t.Fatalf("error = %v, want ErrSerialization", err)
	}
}

func TestFromNative_SkipsUnstored(t *testing.T) {
	stored, _ := field.NewText("title", field.DefaultTextOptions(), false)
	hidden, _ := field.NewNumeric("rank", field.UnsignedInt, field.NumericOptions{Stored: false, Indexed: true})
	s := collection.Reconstruct([]field.Field{stored, hidden})

	body, err := FromNative(map[string]any{"title": "t"}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"title":"t"}` {
		t.Errorf("body = %s", body)
	}
}

func TestFromNative_WrongStoredShape(t *testing.T) {
	f, _ := field.NewNumeric("n", field.Float, field.DefaultNumericOptions())
	s := collection.Reconstruct([]field.Field{f})
	if _, err := FromNative(map[string]any{"n": "1.0"}, s); !errors.Is(err, domain.ErrSerialization) {
		t.Errorf("error = %v, want ErrSerialization", err)
	}
}

func TestFromNative_MissingTextIsEmpty(t *testing.T) {
	text, _ := field.NewText("title", field.DefaultTextOptions(), false)
	blob, _ := field.NewBytes("blob")
	s := collection.Reconstruct([]field.Field{text, blob})

	body, err := FromNative(map[string]any{}, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"title":"","blob":""}` {
		t.Errorf("body = %s", body)
	}
}
