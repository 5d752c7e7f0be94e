package field

import (
	"fmt"
	"strings"
)

// Type is the semantic kind of a field.
type Type string

// Field type constants.
const (
	UnsignedInt Type = "u64"
	SignedInt   Type = "i64"
	Float       Type = "f64"
	Text        Type = "text"
	// Bytes fields are stored but never searchable.
	Bytes Type = "bytes"
)

// IsValid checks if the type is one of the known field types.
func (t Type) IsValid() bool {
	switch t {
	case UnsignedInt, SignedInt, Float, Text, Bytes:
		return true
	}
	return false
}

// IsNumeric reports whether values of this type are numbers.
func (t Type) IsNumeric() bool {
	return t == UnsignedInt || t == SignedInt || t == Float
}

// Searchable reports whether the type may be the target of a term or condition.
func (t Type) Searchable() bool {
	return t.IsValid() && t != Bytes
}

// Options configures how a field is stored and indexed.
// It is implemented by TextOptions and NumericOptions only.
type Options interface {
	isOptions()
}

// TextOptions configures a text field.
type TextOptions struct {
	Stored    bool
	Indexed   bool
	Tokenized bool // false indexes the whole value as a single term
}

func (TextOptions) isOptions() {}

// NumericOptions configures an integer or float field.
type NumericOptions struct {
	Stored  bool
	Indexed bool
}

func (NumericOptions) isOptions() {}

// DefaultTextOptions stores, indexes and tokenizes.
func DefaultTextOptions() TextOptions {
	return TextOptions{Stored: true, Indexed: true, Tokenized: true}
}

// DefaultNumericOptions stores and indexes.
func DefaultNumericOptions() NumericOptions {
	return NumericOptions{Stored: true, Indexed: true}
}

// ResolveText returns the override for name when it is a TextOptions,
// otherwise the defaults.
func ResolveText(name string, overrides map[string]Options) TextOptions {
	if o, ok := overrides[name].(TextOptions); ok {
		return o
	}
	return DefaultTextOptions()
}

// ResolveNumeric returns the override for name when it is a NumericOptions,
// otherwise the defaults.
func ResolveNumeric(name string, overrides map[string]Options) NumericOptions {
	if o, ok := overrides[name].(NumericOptions); ok {
		return o
	}
	return DefaultNumericOptions()
}

// Field is an immutable value object describing one schema field.
type Field struct {
	name      string
	fieldType Type
	stored    bool
	indexed   bool
	tokenized bool
	boolean   bool
}

// NewText creates a text field. boolean marks a field inferred from a bool
// value, so it can be reconstructed as a JSON boolean.
func NewText(name string, opts TextOptions, boolean bool) (Field, error) {
	if err := validateName(name); err != nil {
		return Field{}, err
	}
	return Field{
		name: name, fieldType: Text,
		stored: opts.Stored, indexed: opts.Indexed, tokenized: opts.Tokenized,
		boolean: boolean,
	}, nil
}

// NewNumeric creates an UnsignedInt, SignedInt or Float field.
func NewNumeric(name string, ft Type, opts NumericOptions) (Field, error) {
	if err := validateName(name); err != nil {
		return Field{}, err
	}
	if !ft.IsNumeric() {
		return Field{}, fmt.Errorf("invalid numeric field type %q for %q", ft, name)
	}
	return Field{name: name, fieldType: ft, stored: opts.Stored, indexed: opts.Indexed}, nil
}

// NewBytes creates a stored-only bytes field.
func NewBytes(name string) (Field, error) {
	if err := validateName(name); err != nil {
		return Field{}, err
	}
	return Field{name: name, fieldType: Bytes, stored: true}, nil
}

// Reconstruct creates a Field without validation (storage hydration).
func Reconstruct(name string, ft Type, stored, indexed, tokenized, boolean bool) Field {
	return Field{
		name: name, fieldType: ft,
		stored: stored, indexed: indexed, tokenized: tokenized, boolean: boolean,
	}
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("field name is required")
	}
	// The index treats dots as path separators.
	if strings.Contains(name, ".") {
		return fmt.Errorf("field name %q must not contain '.'", name)
	}
	return nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's semantic type.
func (f Field) FieldType() Type { return f.fieldType }

// Stored reports whether the value is kept for retrieval.
func (f Field) Stored() bool { return f.stored }

// Indexed reports whether the value can be searched.
func (f Field) Indexed() bool { return f.indexed }

// Tokenized reports whether a text value is split into terms.
func (f Field) Tokenized() bool { return f.tokenized }

// IsBool reports whether a text field was inferred from a bool value.
func (f Field) IsBool() bool { return f.boolean }
