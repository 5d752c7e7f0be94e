package document

import (
	"errors"
	"testing"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
)

func TestNewTerm(t *testing.T) {
	s := testSchema(t)
	tests := []struct {
		name    string
		field   string
		raw     string
		text    string
		number  float64
		numeric bool
	}{
		{"tokenized text lowercased", "name", "Doe", "doe", 0, false},
		{"bool text", "active", "true", "true", 0, false},
		{"unsigned canonical", "count", "007", "7", 0, false},
		{"signed", "delta", "-12", "-12", 0, false},
		{"float", "ratio", "2.5", "", 2.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, err := NewTerm(s, tt.field, tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if term.Field != tt.field {
				t.Errorf("Field = %q", term.Field)
			}
			if term.IsNumeric() != tt.numeric {
				t.Errorf("IsNumeric() = %v, want %v", term.IsNumeric(), tt.numeric)
			}
			if term.Text != tt.text {
				t.Errorf("Text = %q, want %q", term.Text, tt.text)
			}
			if term.Number != tt.number {
				t.Errorf("Number = %v, want %v", term.Number, tt.number)
			}
		})
	}
}

func TestNewTerm_Errors(t *testing.T) {
	s := testSchema(t)
	tests := []struct {
		name  string
		field string
		raw   string
	}{
		{"unknown field", "missing", "x"},
		{"bytes field", "blob", "aGk="},
		{"unsigned parse", "count", "-1"},
		{"signed parse", "delta", "abc"},
		{"float parse", "ratio", "one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTerm(s, tt.field, tt.raw)
			if !errors.Is(err, domain.ErrQuery) {
				t.Fatalf("error = %v, want ErrQuery", err)
			}
		})
	}
}

func TestParseTerm_Untokenized(t *testing.T) {
	f, _ := field.NewText("code", field.TextOptions{Stored: true, Indexed: true, Tokenized: false}, false)
	term, err := ParseTerm(f, "AbC-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if term.Text != "AbC-1" {
		t.Errorf("Text = %q, want exact value", term.Text)
	}
}

func TestParseTerm_NotIndexed(t *testing.T) {
	f, _ := field.NewNumeric("n", field.UnsignedInt, field.NumericOptions{Stored: true})
	s := collection.Reconstruct([]field.Field{f})
	if _, err := NewTerm(s, "n", "1"); !errors.Is(err, domain.ErrQuery) {
		t.Errorf("error = %v, want ErrQuery", err)
	}
}
