// Package catalog maps logical grid field names to engine fields and their classification.
package catalog

import (
	"fmt"
	"strings"
)

// Catalog is a read-only field catalog. Build it once and share it.
type Catalog struct {
	fields   []Field
	byName   map[string]int
	identity int
}

// New validates fields and builds a catalog. The first field is the identity field
// and must be numeric.
func New(fields ...Field) (*Catalog, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("catalog requires at least one field")
	}
	if fields[0].Class() != Numeric {
		return nil, fmt.Errorf("identity field %q must be numeric", fields[0].LogicalName())
	}

	c := &Catalog{
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]int, len(fields)*2),
	}
	for _, f := range fields {
		if f.LogicalName() == "" {
			return nil, fmt.Errorf("field name is required")
		}
		switch f.Class() {
		case Text, Numeric, Date:
		default:
			return nil, fmt.Errorf("invalid class %q for %q", f.Class(), f.LogicalName())
		}
		key := strings.ToLower(f.LogicalName())
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.LogicalName())
		}
		c.byName[key] = len(c.fields)
		c.fields = append(c.fields, f)
	}
	return c, nil
}

// MustNew is New that panics on error. Use for static catalogs only.
func MustNew(fields ...Field) *Catalog {
	c, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup resolves a logical name case-insensitively.
func (c *Catalog) Lookup(name string) (Field, bool) {
	i, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return Field{}, false
	}
	return c.fields[i], true
}

// Classify returns the classification of a field.
func (c *Catalog) Classify(name string) (Class, bool) {
	f, ok := c.Lookup(name)
	if !ok {
		return "", false
	}
	return f.Class(), true
}

// EngineField returns the engine field for a logical name. Text fields resolve to
// their keyword projection when forExactMatch is set; other classes always resolve
// to the raw name.
func (c *Catalog) EngineField(name string, forExactMatch bool) (string, bool) {
	f, ok := c.Lookup(name)
	if !ok {
		return "", false
	}
	if forExactMatch {
		return f.ExactName(), true
	}
	return f.EngineName(), true
}

// Identity returns the primary identity field.
func (c *Catalog) Identity() Field { return c.fields[c.identity] }

// Fields returns the fields in declaration order.
func (c *Catalog) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}
