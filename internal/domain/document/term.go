package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
)

// Term is a single-field equality lookup in native form.
// Float terms match on Number, all others on Text.
type Term struct {
	Field  string
	Type   field.Type
	Text   string
	Number float64
}

// IsNumeric reports whether the term matches on Number.
func (t Term) IsNumeric() bool { return t.Type == field.Float }

// NewTerm resolves name in the schema and parses raw for its type.
func NewTerm(s *collection.Schema, name, raw string) (Term, error) {
	f, ok := s.FieldByName(name)
	if !ok {
		return Term{}, domain.NewQueryError("invalid condition",
			fmt.Sprintf("unknown field %q", name))
	}
	return ParseTerm(f, raw)
}

// ParseTerm parses raw according to the field type. Integers are normalized
// to their canonical decimal form and tokenized text is lowercased to match
// the analyzer.
func ParseTerm(f field.Field, raw string) (Term, error) {
	t := Term{Field: f.Name(), Type: f.FieldType()}
	switch f.FieldType() {
	case field.Bytes:
		return Term{}, domain.NewQueryError("invalid condition",
			fmt.Sprintf("cannot search on bytes field %q", f.Name()))
	case field.Text:
		t.Text = raw
		if f.Tokenized() {
			t.Text = strings.ToLower(raw)
		}
	case field.UnsignedInt:
		u, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Term{}, parseError(f, raw)
		}
		t.Text = strconv.FormatUint(u, 10)
	case field.SignedInt:
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Term{}, parseError(f, raw)
		}
		t.Text = strconv.FormatInt(i, 10)
	case field.Float:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Term{}, parseError(f, raw)
		}
		t.Number = n
	default:
		return Term{}, domain.NewQueryError("invalid condition",
			fmt.Sprintf("unknown field type %q for %q", f.FieldType(), f.Name()))
	}
	if !f.Indexed() {
		return Term{}, domain.NewQueryError("invalid condition",
			fmt.Sprintf("field %q is not indexed", f.Name()))
	}
	return t, nil
}

func parseError(f field.Field, raw string) error {
	return domain.NewQueryError("invalid condition",
		fmt.Sprintf("unable to parse %q as %s for field %q", raw, f.FieldType(), f.Name()))
}
