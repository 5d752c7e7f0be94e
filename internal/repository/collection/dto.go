package collection

import (
	"encoding/json"
	"errors"
	"fmt"

	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
)

// schemaKey stores the collection schema inside the index.
const schemaKey = "jsonsurf.schema"

// fieldRow is the JSON-serializable representation of a schema field.
type fieldRow struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Stored    bool   `json:"stored"`
	Indexed   bool   `json:"indexed"`
	Tokenized bool   `json:"tokenized,omitempty"`
	Bool      bool   `json:"bool,omitempty"`
}

// schemaToJSON encodes the schema in field order.
func schemaToJSON(s *domcol.Schema) ([]byte, error) {
	rows := make([]fieldRow, s.Len())
	for i, f := range s.Fields() {
		rows[i] = fieldRow{
			Name:      f.Name(),
			Type:      string(f.FieldType()),
			Stored:    f.Stored(),
			Indexed:   f.Indexed(),
			Tokenized: f.Tokenized(),
			Bool:      f.IsBool(),
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return data, nil
}

// schemaFromJSON hydrates a schema stored by schemaToJSON.
func schemaFromJSON(data []byte) (*domcol.Schema, error) {
	if len(data) == 0 {
		return nil, errors.New("no stored schema")
	}
	var rows []fieldRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("stored schema has no fields")
	}

	fields := make([]field.Field, len(rows))
	for i, r := range rows {
		ft := field.Type(r.Type)
		if !ft.IsValid() {
			return nil, fmt.Errorf("stored field %q has unknown type %q", r.Name, r.Type)
		}
		fields[i] = field.Reconstruct(r.Name, ft, r.Stored, r.Indexed, r.Tokenized, r.Bool)
	}
	return domcol.Reconstruct(fields), nil
}
