// Package filter models the grid filter tree: leaves and recursive groups.
package filter

import "fmt"

// Kind tags the Node variant.
type Kind uint8

// Node kinds.
const (
	KindLeaf Kind = iota + 1
	KindGroup
)

// Node is a filter tree node: either a Leaf or a Group.
type Node struct {
	kind Kind
	leaf Leaf
	grp  Group
}

// Leaf is a single (field, operator, value) predicate.
type Leaf struct {
	field           string
	operator        Operator
	value           any
	caseInsensitive bool
}

// Group combines child nodes under one condition.
type Group struct {
	condition Condition
	children  []Node
}

// NewLeaf creates a leaf node. The operator is taken as-is; unsupported operators
// are resolved by the compiler.
func NewLeaf(field string, op Operator, value any, caseInsensitive bool) Node {
	if op == "" {
		op = Equal
	}
	if op == In {
		value = asList(value)
	}
	return Node{
		kind: KindLeaf,
		leaf: Leaf{field: field, operator: op, value: value, caseInsensitive: caseInsensitive},
	}
}

// NewGroup creates a group node. An empty children list is allowed and compiles to nothing.
func NewGroup(cond Condition, children ...Node) Node {
	if cond != Or {
		cond = And
	}
	cp := make([]Node, len(children))
	copy(cp, children)
	return Node{kind: KindGroup, grp: Group{condition: cond, children: cp}}
}

// Kind returns the node variant.
func (n Node) Kind() Kind { return n.kind }

// Leaf returns the leaf payload. Valid only when Kind is KindLeaf.
func (n Node) Leaf() Leaf { return n.leaf }

// Group returns the group payload. Valid only when Kind is KindGroup.
func (n Node) Group() Group { return n.grp }

// String renders the node for logs.
func (n Node) String() string {
	switch n.kind {
	case KindLeaf:
		return fmt.Sprintf("%s %s %v", n.leaf.field, n.leaf.operator, n.leaf.value)
	case KindGroup:
		return fmt.Sprintf("%s(%d)", n.grp.condition, len(n.grp.children))
	}
	return "<empty>"
}

// Field returns the logical field name.
func (l Leaf) Field() string { return l.field }

// Operator returns the predicate operator.
func (l Leaf) Operator() Operator { return l.operator }

// Value returns the operand. For In it is always a []any.
func (l Leaf) Value() any { return l.value }

// CaseInsensitive reports whether the caller asked for case-insensitive matching.
func (l Leaf) CaseInsensitive() bool { return l.caseInsensitive }

// Condition returns the join condition.
func (g Group) Condition() Condition { return g.condition }

// Children returns the child nodes.
func (g Group) Children() []Node { return g.children }

func asList(v any) []any {
	switch vv := v.(type) {
	case nil:
		return nil
	case []any:
		return vv
	case []string:
		out := make([]any, len(vv))
		for i, s := range vv {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(vv))
		for i, x := range vv {
			out[i] = x
		}
		return out
	case []float64:
		out := make([]any, len(vv))
		for i, x := range vv {
			out[i] = x
		}
		return out
	default:
		return []any{v}
	}
}
