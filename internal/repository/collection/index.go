package collection

import (
	"fmt"

	"github.com/sgrust01/json-surf/internal/db"
	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
	"github.com/sgrust01/json-surf/internal/domain/document"
)

// buildIndex creates an IndexDefinition from the schema fields.
// Integers are indexed as exact decimal keywords so 64-bit values keep
// full precision; floats use the numeric index.
func buildIndex(path string, s *domcol.Schema) (*db.IndexDefinition, error) {
	b := db.NewIndex(path)
	for _, f := range s.Fields() {
		var fieldType db.IndexFieldType
		switch f.FieldType() {
		case field.Text:
			fieldType = db.IndexFieldKeyword
			if f.Tokenized() {
				fieldType = db.IndexFieldText
			}
		case field.UnsignedInt, field.SignedInt:
			fieldType = db.IndexFieldKeyword
		case field.Float:
			fieldType = db.IndexFieldNumeric
		case field.Bytes:
			fieldType = db.IndexFieldStored
		default:
			return nil, fmt.Errorf("unknown field type: %s", f.FieldType())
		}
		b.Field(f.Name(), fieldType, f.Stored(), f.Indexed())
	}
	return b.Build()
}

// toQuery converts a parsed term into a storage query.
func toQuery(t document.Term) *db.TermQuery {
	return &db.TermQuery{
		Field:   t.Field,
		Text:    t.Text,
		Number:  t.Number,
		Numeric: t.IsNumeric(),
	}
}
