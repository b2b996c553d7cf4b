package specification

import (
	"fmt"

	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/entity"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

// Filter is a validated (field, operator, value) predicate. The value is held
// in canonical form: a primitive for ShapeScalar, a []any of primitives for
// ShapeSequence and ShapePair.
type Filter struct {
	field    entity.Field
	operator Operator
	shape    Shape
	value    any
}

// NewFilter validates op and value against the declared kind of field in
// schema and returns the filter.
func NewFilter(schema *entity.Schema, field string, op Operator, value any) (Filter, error) {
	if schema == nil {
		return Filter{}, domainerror.New(domainerror.CodeInvalidSchema, "criteria has no schema")
	}
	f, ok := schema.FilterableField(field)
	if !ok {
		return Filter{}, domainerror.Newf(domainerror.CodeUnknownField, "%s has no filterable field %q", schema.Name(), field).
			WithParam("entity", schema.Name()).
			WithParam("field", field)
	}

	shape, ok := RequiredShape(f.Kind, op)
	if !ok {
		return Filter{}, domainerror.Newf(domainerror.CodeInvalidOperator, "operator %q is not allowed on %s field %q", op, f.Kind, field).
			WithParam("field", field).
			WithParam("operator", string(op))
	}

	canonical, err := conform(f.Kind, shape, value)
	if err != nil {
		return Filter{}, domainerror.Wrap(domainerror.CodeInvalidValueShape, err, fmt.Sprintf("operator %q on field %q expects a %s", op, field, shape)).
			WithParam("field", field).
			WithParam("operator", string(op))
	}

	return Filter{field: f, operator: op, shape: shape, value: canonical}, nil
}

func conform(kind valueobject.Kind, shape Shape, value any) (any, error) {
	if shape == ShapeScalar {
		if _, isSeq := valueobject.Elements(value); isSeq {
			return nil, fmt.Errorf("got a sequence of %T", value)
		}
		return valueobject.Normalize(kind, value)
	}

	// A collection value object stands for its elements.
	if vo, ok := value.(valueobject.ValueObject); ok && vo.Kind() == kind && kind.IsCollection() {
		value = vo.Primitive()
	}
	items, ok := valueobject.Elements(value)
	if !ok {
		return nil, fmt.Errorf("got a single %T", value)
	}
	switch {
	case len(items) == 0:
		return nil, fmt.Errorf("got an empty sequence")
	case shape == ShapePair && len(items) != 2:
		return nil, fmt.Errorf("got %d values", len(items))
	}

	out := make([]any, len(items))
	for i, item := range items {
		v, err := valueobject.Normalize(kind.Element(), item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Field returns the property name.
func (f Filter) Field() string { return f.field.Name }

// Descriptor returns the schema entry of the filtered property.
func (f Filter) Descriptor() entity.Field { return f.field }

func (f Filter) Operator() Operator { return f.operator }

func (f Filter) Shape() Shape { return f.shape }

// Value returns the canonical value. Sequences are returned as a fresh copy.
func (f Filter) Value() any {
	if items, ok := f.value.([]any); ok {
		return append([]any(nil), items...)
	}
	return f.value
}

// Values returns the canonical value as a slice regardless of shape.
func (f Filter) Values() []any {
	if items, ok := f.value.([]any); ok {
		return append([]any(nil), items...)
	}
	return []any{f.value}
}

func (f Filter) String() string {
	return fmt.Sprintf("%s %s %v", f.field.Name, f.operator, f.value)
}
