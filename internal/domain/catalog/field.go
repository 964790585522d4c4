package catalog

import "fmt"

// Class is the value classification of a field.
type Class string

// Field classes.
const (
	// Text fields are tokenized and carry a keyword projection for exact operations.
	Text    Class = "text"
	Numeric Class = "numeric"
	Date    Class = "date"
)

// NumericKind selects the engine mapping type of a numeric field.
type NumericKind string

// Numeric kinds.
const (
	Integer NumericKind = "integer"
	Double  NumericKind = "double"
)

// KeywordSuffix is appended to a text field to reach its exact projection.
const KeywordSuffix = ".keyword"

// Field is an immutable descriptor mapping a logical field to its engine field.
type Field struct {
	logicalName string
	engineName  string
	class       Class
	numericKind NumericKind
}

// NewText creates a text field with a keyword projection.
func NewText(logical, engine string) (Field, error) {
	return newField(logical, engine, Text, "")
}

// NewNumeric creates a numeric field of the given kind.
func NewNumeric(logical, engine string, kind NumericKind) (Field, error) {
	if kind != Integer && kind != Double {
		return Field{}, fmt.Errorf("invalid numeric kind %q for %q", kind, logical)
	}
	return newField(logical, engine, Numeric, kind)
}

// NewDate creates a date field.
func NewDate(logical, engine string) (Field, error) {
	return newField(logical, engine, Date, "")
}

func newField(logical, engine string, class Class, kind NumericKind) (Field, error) {
	if logical == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if engine == "" {
		engine = logical
	}
	if len(engine) > 128 {
		return Field{}, fmt.Errorf("engine field name %q too long (max 128)", engine)
	}
	return Field{logicalName: logical, engineName: engine, class: class, numericKind: kind}, nil
}

// LogicalName returns the name callers use in requests.
func (f Field) LogicalName() string { return f.logicalName }

// EngineName returns the raw engine field name.
func (f Field) EngineName() string { return f.engineName }

// Class returns the value classification.
func (f Field) Class() Class { return f.class }

// NumericKind returns the numeric mapping kind (empty for non-numeric fields).
func (f Field) NumericKind() NumericKind { return f.numericKind }

// ExactName returns the engine field used for equality, sort and pattern matching.
func (f Field) ExactName() string {
	if f.class == Text {
		return f.engineName + KeywordSuffix
	}
	return f.engineName
}
