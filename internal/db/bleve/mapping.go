package bleve

import (
	"fmt"

	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/sgrust01/json-surf/internal/db"
)

// TextAnalyzer splits on unicode word boundaries and lowercases.
// No stop words are removed, so every token stays searchable.
const TextAnalyzer = "jsonsurf_text"

func buildMapping(def *db.IndexDefinition) (*mapping.IndexMappingImpl, error) {
	im := blevesearch.NewIndexMapping()
	err := im.AddCustomAnalyzer(TextAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}
	im.DefaultAnalyzer = TextAnalyzer
	im.StoreDynamic = false
	im.IndexDynamic = false
	im.DocValuesDynamic = false

	dm := blevesearch.NewDocumentStaticMapping()
	for i := range def.Fields {
		f := &def.Fields[i]
		fm, err := fieldMapping(f)
		if err != nil {
			return nil, err
		}
		dm.AddFieldMappingsAt(f.Name, fm)
	}
	im.DefaultMapping = dm

	if err := im.Validate(); err != nil {
		return nil, fmt.Errorf("validate mapping: %w", err)
	}
	return im, nil
}

func fieldMapping(f *db.IndexField) (*mapping.FieldMapping, error) {
	var fm *mapping.FieldMapping
	switch f.Type {
	case db.IndexFieldText:
		fm = blevesearch.NewTextFieldMapping()
		fm.Analyzer = TextAnalyzer
	case db.IndexFieldKeyword:
		fm = blevesearch.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
	case db.IndexFieldNumeric:
		fm = blevesearch.NewNumericFieldMapping()
	case db.IndexFieldStored:
		fm = blevesearch.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
	default:
		return nil, fmt.Errorf("unknown field type %s for %q", f.Type, f.Name)
	}
	fm.Name = f.Name
	fm.Store = f.Store
	fm.Index = f.Index
	fm.IncludeInAll = false
	fm.IncludeTermVectors = false
	fm.DocValues = false
	return fm, nil
}
