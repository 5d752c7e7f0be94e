package db

import (
	"errors"
	"strconv"
	"strings"
)

// IndexFieldType enumerates how a field is analyzed.
type IndexFieldType int

const (
	// IndexFieldText is split into lowercase terms.
	IndexFieldText IndexFieldType = iota
	// IndexFieldKeyword is indexed as one exact term.
	IndexFieldKeyword
	// IndexFieldNumeric is a float64 value.
	IndexFieldNumeric
	// IndexFieldStored is kept for retrieval and never indexed.
	IndexFieldStored
)

func (t IndexFieldType) String() string {
	switch t {
	case IndexFieldText:
		return "TEXT"
	case IndexFieldKeyword:
		return "KEYWORD"
	case IndexFieldNumeric:
		return "NUMERIC"
	case IndexFieldStored:
		return "STORED"
	default:
		return "UNKNOWN"
	}
}

// IndexField describes a single field in an index mapping.
type IndexField struct {
	Name  string
	Type  IndexFieldType
	Store bool
	Index bool
}

// IndexDefinition is a complete index definition used on creation.
type IndexDefinition struct {
	Path   string
	Fields []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Path == "" {
		return errors.New("index path is required")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if strings.Contains(f.Name, ".") {
			return errors.New("field name must not contain '.': " + f.Name)
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Type == IndexFieldStored && f.Index {
			return errors.New("stored-only field cannot be indexed: " + f.Name)
		}
		if !f.Store && !f.Index {
			return errors.New("field is neither stored nor indexed: " + f.Name)
		}
	}

	return nil
}

// String returns a debug representation of the definition.
func (idx *IndexDefinition) String() string {
	parts := []string{"INDEX", idx.Path, "FIELDS"}
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, f.Name, f.Type.String())
		if f.Store {
			parts = append(parts, "STORE")
		}
		if f.Index {
			parts = append(parts, "INDEX")
		}
	}
	return strings.Join(parts, " ")
}
