package field

import (
	"strings"
	"testing"
)

func TestType_Predicates(t *testing.T) {
	tests := []struct {
		ft         Type
		valid      bool
		numeric    bool
		searchable bool
	}{
		{UnsignedInt, true, true, true},
		{SignedInt, true, true, true},
		{Float, true, true, true},
		{Text, true, false, true},
		{Bytes, true, false, false},
		{"vector", false, false, false},
		{"", false, false, false},
	}

	for _, tt := range tests {
		if got := tt.ft.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.ft, got, tt.valid)
		}
		if got := tt.ft.IsNumeric(); got != tt.numeric {
			t.Errorf("%q.IsNumeric() = %v, want %v", tt.ft, got, tt.numeric)
		}
		if got := tt.ft.Searchable(); got != tt.searchable {
			t.Errorf("%q.Searchable() = %v, want %v", tt.ft, got, tt.searchable)
		}
	}
}

func TestNewText(t *testing.T) {
	f, err := NewText("title", TextOptions{Stored: true, Indexed: false, Tokenized: true}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name() != "title" || f.FieldType() != Text {
		t.Errorf("got (%q, %q)", f.Name(), f.FieldType())
	}
	if !f.Stored() || f.Indexed() || !f.Tokenized() || f.IsBool() {
		t.Errorf("options not applied: %+v", f)
	}
}

func TestNewNumeric_RejectsNonNumeric(t *testing.T) {
	if _, err := NewNumeric("x", Text, DefaultNumericOptions()); err == nil {
		t.Fatal("expected error for text type")
	}
	if _, err := NewNumeric("x", Bytes, DefaultNumericOptions()); err == nil {
		t.Fatal("expected error for bytes type")
	}
}

func TestNewBytes_StoredOnly(t *testing.T) {
	f, err := NewBytes("blob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Stored() || f.Indexed() {
		t.Errorf("stored=%v indexed=%v, want stored only", f.Stored(), f.Indexed())
	}
}

func TestNew_InvalidNames(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "required"},
		{"a.b", "must not contain"},
	}
	for _, tt := range tests {
		_, err := NewText(tt.name, DefaultTextOptions(), false)
		if err == nil {
			t.Errorf("NewText(%q) expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("error = %q, want %q", err, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	overrides := map[string]Options{
		"title": TextOptions{Stored: false, Indexed: true, Tokenized: false},
		"year":  NumericOptions{Stored: false, Indexed: true},
	}

	if got := ResolveText("title", overrides); got.Stored || got.Tokenized {
		t.Errorf("ResolveText(title) = %+v, want override", got)
	}
	if got := ResolveText("missing", overrides); got != DefaultTextOptions() {
		t.Errorf("ResolveText(missing) = %+v, want defaults", got)
	}
	// numeric options for a text field are ignored
	if got := ResolveText("year", overrides); got != DefaultTextOptions() {
		t.Errorf("ResolveText(year) = %+v, want defaults", got)
	}
	if got := ResolveNumeric("year", overrides); got.Stored {
		t.Errorf("ResolveNumeric(year) = %+v, want override", got)
	}
	if got := ResolveNumeric("title", overrides); got != DefaultNumericOptions() {
		t.Errorf("ResolveNumeric(title) = %+v, want defaults", got)
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	f := Reconstruct("a.b", Float, true, true, false, false)
	if f.Name() != "a.b" {
		t.Errorf("Reconstruct should skip validation, got Name() = %q", f.Name())
	}
	if f.FieldType() != Float {
		t.Errorf("FieldType() = %q", f.FieldType())
	}
}
