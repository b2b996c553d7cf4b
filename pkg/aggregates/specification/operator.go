package specification

import (
	"slices"

	"github.com/rpattn/dddkit/pkg/valueobject"
)

// Operator is a comparison applied by a Filter.
type Operator string

const (
	Equals             Operator = "equals"
	NotEquals          Operator = "notEquals"
	GreaterThan        Operator = "greaterThan"
	GreaterThanOrEqual Operator = "greaterThanOrEqual"
	LessThan           Operator = "lessThan"
	LessThanOrEqual    Operator = "lessThanOrEqual"
	Between            Operator = "between"
	In                 Operator = "in"
	NotIn              Operator = "notIn"
	// Contains is a substring match on strings and an "all of" match on
	// collections.
	Contains    Operator = "contains"
	ContainsAny Operator = "containsAny"
	StartsWith  Operator = "startsWith"
	EndsWith    Operator = "endsWith"
)

// Operators returns the full operator vocabulary.
func Operators() []Operator {
	return []Operator{
		Equals, NotEquals,
		GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual, Between,
		In, NotIn,
		Contains, ContainsAny, StartsWith, EndsWith,
	}
}

// Valid reports whether op belongs to the vocabulary.
func (op Operator) Valid() bool {
	return slices.Contains(Operators(), op)
}

// LogicalOperator combines the children of a Criteria node.
type LogicalOperator string

const (
	And LogicalOperator = "AND"
	Or  LogicalOperator = "OR"
)

func (op LogicalOperator) Valid() bool {
	return op == And || op == Or
}

// Shape is the form of value an operator expects.
type Shape string

const (
	// ShapeScalar is a single value of the field's kind.
	ShapeScalar Shape = "scalar"
	// ShapeSequence is a non-empty sequence of the field's element kind.
	ShapeSequence Shape = "sequence"
	// ShapePair is exactly two values of the field's kind, low then high.
	ShapePair Shape = "pair"
)

var (
	equality = []Operator{Equals, NotEquals}
	ordering = []Operator{GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual, Between}
	listing  = []Operator{In, NotIn}
)

// legalOperators is total over valueobject.Kinds().
var legalOperators = map[valueobject.Kind][]Operator{
	valueobject.KindString:      concat(equality, listing, []Operator{Contains, StartsWith, EndsWith}),
	valueobject.KindInteger:     concat(equality, ordering, listing),
	valueobject.KindFloat:       concat(equality, ordering, listing),
	valueobject.KindTimestamp:   concat(equality, ordering),
	valueobject.KindBoolean:     concat(equality),
	valueobject.KindUUID:        concat(equality, listing),
	valueobject.KindStringList:  {Contains, ContainsAny},
	valueobject.KindIntegerList: {Contains, ContainsAny},
}

func concat(groups ...[]Operator) []Operator {
	var out []Operator
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// LegalOperators returns the operators allowed on fields of kind.
func LegalOperators(kind valueobject.Kind) []Operator {
	return slices.Clone(legalOperators[kind])
}

// IsLegal reports whether op may be applied to fields of kind.
func IsLegal(kind valueobject.Kind, op Operator) bool {
	return slices.Contains(legalOperators[kind], op)
}

// RequiredShape returns the value shape op expects on fields of kind. The
// boolean is false when op is not legal for kind.
func RequiredShape(kind valueobject.Kind, op Operator) (Shape, bool) {
	if !IsLegal(kind, op) {
		return "", false
	}
	switch op {
	case Between:
		return ShapePair, true
	case In, NotIn, ContainsAny:
		return ShapeSequence, true
	case Contains:
		if kind.IsCollection() {
			return ShapeSequence, true
		}
		return ShapeScalar, true
	default:
		return ShapeScalar, true
	}
}
