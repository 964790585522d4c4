package db

import (
	"fmt"
	"strings"
)

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition with one shard and no replicas.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{
		def: IndexDefinition{
			Name:     name,
			Settings: IndexSettings{Shards: 1},
		},
	}
}

// Shards sets the primary shard count.
func (b *IndexBuilder) Shards(n int) *IndexBuilder {
	b.def.Settings.Shards = n
	return b
}

// Replicas sets the replica count.
func (b *IndexBuilder) Replicas(n int) *IndexBuilder {
	b.def.Settings.Replicas = n
	return b
}

// MaxResultWindow sets the from+size ceiling.
func (b *IndexBuilder) MaxResultWindow(n int) *IndexBuilder {
	b.def.Settings.MaxResultWindow = n
	return b
}

// Text adds a text field with a keyword projection.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:        name,
		Type:        FieldText,
		Keyword:     true,
		IgnoreAbove: DefaultIgnoreAbove,
	})
	return b
}

// Keyword adds a keyword-only field.
func (b *IndexBuilder) Keyword(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: FieldKeyword})
	return b
}

// Integer adds an integer field.
func (b *IndexBuilder) Integer(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: FieldInteger})
	return b
}

// Double adds a double field.
func (b *IndexBuilder) Double(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: FieldDouble})
	return b
}

// Date adds a date field.
func (b *IndexBuilder) Date(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: FieldDate})
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

// String returns a compact debug representation.
func (idx *IndexDefinition) String() string {
	parts := []string{
		"PUT", idx.Name,
		fmt.Sprintf("shards=%d", idx.Settings.Shards),
		fmt.Sprintf("replicas=%d", idx.Settings.Replicas),
	}
	if idx.Settings.MaxResultWindow > 0 {
		parts = append(parts, fmt.Sprintf("max_result_window=%d", idx.Settings.MaxResultWindow))
	}
	for i := range idx.Fields {
		f := &idx.Fields[i]
		p := f.Name + ":" + string(f.Type)
		if f.Keyword {
			p += "+keyword"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}
