package db

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building a definition for the index at path.
func NewIndex(path string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Path: path}}
}

// Text adds a stored and indexed analyzed field.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.Field(name, IndexFieldText, true, true)
}

// Keyword adds a stored and indexed exact-term field.
func (b *IndexBuilder) Keyword(name string) *IndexBuilder {
	return b.Field(name, IndexFieldKeyword, true, true)
}

// Numeric adds a stored and indexed float64 field.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	return b.Field(name, IndexFieldNumeric, true, true)
}

// Stored adds a field kept for retrieval only.
func (b *IndexBuilder) Stored(name string) *IndexBuilder {
	return b.Field(name, IndexFieldStored, true, false)
}

// Field adds a field with explicit store and index flags.
func (b *IndexBuilder) Field(name string, typ IndexFieldType, store, index bool) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:  name,
		Type:  typ,
		Store: store,
		Index: index,
	})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
