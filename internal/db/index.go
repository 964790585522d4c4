package db

import (
	"errors"
	"strconv"
	"strings"
)

// FieldType enumerates supported engine mapping types.
type FieldType string

// Mapping types.
const (
	FieldText    FieldType = "text"
	FieldKeyword FieldType = "keyword"
	FieldInteger FieldType = "integer"
	FieldLong    FieldType = "long"
	FieldDouble  FieldType = "double"
	FieldDate    FieldType = "date"
)

// DefaultIgnoreAbove bounds the keyword projection length.
const DefaultIgnoreAbove = 256

// IndexField describes a single field mapping.
type IndexField struct {
	Name string
	Type FieldType

	// Keyword adds a "keyword" sub-field to a text field.
	Keyword     bool
	IgnoreAbove int
}

// IndexSettings holds the index-level settings block.
type IndexSettings struct {
	Shards          int
	Replicas        int
	MaxResultWindow int
}

// IndexDefinition is a complete index definition used at creation.
type IndexDefinition struct {
	Name     string
	Settings IndexSettings
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIndexName(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if idx.Settings.Shards <= 0 {
		return errors.New("shard count must be positive")
	}
	if idx.Settings.Replicas < 0 {
		return errors.New("replica count must be >= 0")
	}
	if idx.Settings.MaxResultWindow < 0 {
		return errors.New("max result window must be >= 0")
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
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true
		if f.Keyword && f.Type != FieldText {
			return errors.New("keyword projection requires a text field: " + f.Name)
		}
	}

	return nil
}

// Body renders the create-index request body.
func (idx *IndexDefinition) Body() map[string]any {
	settings := map[string]any{
		"number_of_shards":   idx.Settings.Shards,
		"number_of_replicas": idx.Settings.Replicas,
	}
	if idx.Settings.MaxResultWindow > 0 {
		settings["max_result_window"] = idx.Settings.MaxResultWindow
	}

	props := make(map[string]any, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		m := map[string]any{"type": string(f.Type)}
		if f.Keyword {
			ignore := f.IgnoreAbove
			if ignore <= 0 {
				ignore = DefaultIgnoreAbove
			}
			m["fields"] = map[string]any{
				"keyword": map[string]any{"type": string(FieldKeyword), "ignore_above": ignore},
			}
		}
		props[f.Name] = m
	}

	return map[string]any{
		"settings": settings,
		"mappings": map[string]any{"properties": props},
	}
}

// IsValidIndexName reports whether s is a legal lowercase index name.
func IsValidIndexName(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "_") || strings.HasPrefix(s, "+") {
		return false
	}
	for _, r := range s {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == '-' || r == '.'
		if !isLower && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
