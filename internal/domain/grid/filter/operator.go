package filter

import "strings"

// Operator is a leaf predicate operator.
type Operator string

// Supported operators.
const (
	Equal              Operator = "equal"
	NotEqual           Operator = "notEqual"
	Contains           Operator = "contains"
	StartsWith         Operator = "startsWith"
	EndsWith           Operator = "endsWith"
	GreaterThan        Operator = "greaterThan"
	GreaterThanOrEqual Operator = "greaterThanOrEqual"
	LessThan           Operator = "lessThan"
	LessThanOrEqual    Operator = "lessThanOrEqual"
	In                 Operator = "in"
)

var operatorAliases = map[string]Operator{
	"equal":              Equal,
	"eq":                 Equal,
	"notequal":           NotEqual,
	"ne":                 NotEqual,
	"contains":           Contains,
	"startswith":         StartsWith,
	"endswith":           EndsWith,
	"greaterthan":        GreaterThan,
	"gt":                 GreaterThan,
	"greaterthanorequal": GreaterThanOrEqual,
	"ge":                 GreaterThanOrEqual,
	"gte":                GreaterThanOrEqual,
	"lessthan":           LessThan,
	"lt":                 LessThan,
	"lessthanorequal":    LessThanOrEqual,
	"le":                 LessThanOrEqual,
	"lte":                LessThanOrEqual,
	"in":                 In,
}

// ParseOperator resolves an operator name case-insensitively. An empty name means
// Equal. Unknown names are returned verbatim with ok=false so the compiler can
// apply its fallback.
func ParseOperator(s string) (Operator, bool) {
	if s == "" {
		return Equal, true
	}
	if op, ok := operatorAliases[strings.ToLower(s)]; ok {
		return op, true
	}
	return Operator(s), false
}

// IsValid reports whether the operator is one of the supported values.
func (o Operator) IsValid() bool {
	switch o {
	case Equal, NotEqual, Contains, StartsWith, EndsWith,
		GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual, In:
		return true
	}
	return false
}

// IsRange reports whether the operator compiles to a range primitive.
func (o Operator) IsRange() bool {
	return o == GreaterThan || o == GreaterThanOrEqual || o == LessThan || o == LessThanOrEqual
}

// Condition joins the children of a group.
type Condition string

// Group conditions.
const (
	And Condition = "and"
	Or  Condition = "or"
)

// ParseCondition resolves a group condition. Anything but "or" means And.
func ParseCondition(s string) Condition {
	if strings.EqualFold(s, string(Or)) {
		return Or
	}
	return And
}
