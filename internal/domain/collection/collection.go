package collection

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sgrust01/json-surf/internal/domain/collection/field"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxFields bounds the number of fields a schema may declare.
const MaxFields = 256

// ValidateName checks a collection name. The name becomes a directory under
// the home, so it is restricted to ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

func validateFields(fields []field.Field) error {
	if len(fields) > MaxFields {
		return fmt.Errorf("too many fields (max %d)", MaxFields)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		if !f.FieldType().IsValid() {
			return fmt.Errorf("invalid field type %q for %s", f.FieldType(), f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// Schema is the ordered, immutable field list of a collection.
// It is shared by pointer between the manager and the query engine.
type Schema struct {
	fields []field.Field
	types  map[string]field.Type
	index  map[string]int
}

// New validates fields and creates a Schema. Field order is kept.
func New(fields []field.Field) (*Schema, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}
	return Reconstruct(fields), nil
}

// Reconstruct creates a Schema without validation (storage hydration).
func Reconstruct(fields []field.Field) *Schema {
	s := &Schema{
		fields: append([]field.Field(nil), fields...),
		types:  make(map[string]field.Type, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range s.fields {
		s.types[f.Name()] = f.FieldType()
		s.index[f.Name()] = i
	}
	return s
}

// Fields returns the fields in declaration order. The slice must not be modified.
func (s *Schema) Fields() []field.Field { return s.fields }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// IsEmpty reports whether the schema declares no fields.
func (s *Schema) IsEmpty() bool { return len(s.fields) == 0 }

// FieldByName looks up a field by name.
func (s *Schema) FieldByName(name string) (field.Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return field.Field{}, false
	}
	return s.fields[i], true
}

// TypeOf returns the type of the named field.
func (s *Schema) TypeOf(name string) (field.Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Types returns a copy of the name to type mapping.
func (s *Schema) Types() map[string]field.Type {
	out := make(map[string]field.Type, len(s.types))
	for k, v := range s.types {
		out[k] = v
	}
	return out
}

// TextFields returns the names of the text fields, in order.
func (s *Schema) TextFields() []string {
	var out []string
	for _, f := range s.fields {
		if f.FieldType() == field.Text {
			out = append(out, f.Name())
		}
	}
	return out
}

// Equal reports whether two schemas declare the same fields in the same order.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	var b strings.Builder
	for _, f := range s.fields {
		fmt.Fprintf(&b, "Name: %s Type: %s\n", f.Name(), f.FieldType())
	}
	return b.String()
}
