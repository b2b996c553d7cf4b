// Package gqlcriteria adapts criteria to GraphQL APIs served with gqlgen:
// enum marshalers for the operators, a decoder for criteria input objects and
// conversion of domain errors into GraphQL errors.
//
// A criteria input object looks like:
//
//	{
//	  "operator": "OR",
//	  "conditions": [
//	    {"field": "name", "op": "STARTS_WITH", "value": "al"},
//	    {"operator": "AND", "conditions": [...]}
//	  ]
//	}
package gqlcriteria

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/rpattn/dddkit/pkg/aggregates/specification"
	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/entity"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

// EnumName converts an operator to its GraphQL enum form, e.g.
// greaterThanOrEqual -> GREATER_THAN_OR_EQUAL.
func EnumName(op specification.Operator) string {
	var b strings.Builder
	for i, r := range string(op) {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ParseOperator accepts either the enum form or the operator itself.
func ParseOperator(s string) (specification.Operator, error) {
	for _, op := range specification.Operators() {
		if s == string(op) || s == EnumName(op) {
			return op, nil
		}
	}
	return "", domainerror.Newf(domainerror.CodeInvalidOperator, "unknown operator %q", s)
}

// MarshalOperator is the gqlgen marshaler for the Operator enum.
func MarshalOperator(op specification.Operator) graphql.Marshaler {
	return graphql.WriterFunc(func(w io.Writer) {
		io.WriteString(w, strconv.Quote(EnumName(op)))
	})
}

// UnmarshalOperator is the gqlgen unmarshaler for the Operator enum.
func UnmarshalOperator(v any) (specification.Operator, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("operator must be a string, got %T", v)
	}
	return ParseOperator(s)
}

// MarshalLogicalOperator is the gqlgen marshaler for the LogicalOperator enum.
func MarshalLogicalOperator(op specification.LogicalOperator) graphql.Marshaler {
	return graphql.MarshalString(string(op))
}

// UnmarshalLogicalOperator is the gqlgen unmarshaler for the LogicalOperator enum.
func UnmarshalLogicalOperator(v any) (specification.LogicalOperator, error) {
	s, err := graphql.UnmarshalString(v)
	if err != nil {
		return "", err
	}
	op := specification.LogicalOperator(strings.ToUpper(s))
	if !op.Valid() {
		return "", domainerror.Newf(domainerror.CodeInvalidOperator, "unknown logical operator %q", s)
	}
	return op, nil
}

// FromInput builds criteria over schema from a decoded input object. Every
// problem in the input is reported, not only the first.
func FromInput(schema *entity.Schema, input map[string]any) (*specification.Criteria, error) {
	c, err := decode(schema, input)
	if err != nil {
		return nil, err
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func decode(schema *entity.Schema, input map[string]any) (*specification.Criteria, error) {
	op := specification.And
	if raw, ok := input["operator"]; ok && raw != nil {
		parsed, err := UnmarshalLogicalOperator(raw)
		if err != nil {
			return nil, err
		}
		op = parsed
	}
	c := specification.NewWithOperator(schema, op)

	raw, _ := input["conditions"].([]any)
	for i, item := range raw {
		cond, ok := item.(map[string]any)
		if !ok {
			return nil, domainerror.Newf(domainerror.CodeInvalidValue, "condition %d must be an object", i)
		}
		if _, nested := cond["conditions"]; nested {
			child, err := decode(schema, cond)
			if err != nil {
				return nil, fmt.Errorf("condition %d: %w", i, err)
			}
			c.AddCriteria(child)
			continue
		}

		field, _ := cond["field"].(string)
		opName, _ := cond["op"].(string)
		fop, err := ParseOperator(opName)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		c.AddFilter(field, fop, coerce(schema, field, cond["value"]))
	}
	return c, nil
}

// coerce converts JSON-decoded input into the primitives the field expects.
// Values it cannot convert are passed through for the builder to reject.
func coerce(schema *entity.Schema, field string, v any) any {
	f, ok := schema.FilterableField(field)
	if !ok {
		return v
	}
	if items, ok := v.([]any); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = coerceScalar(f.Kind.Element(), item)
		}
		return out
	}
	return coerceScalar(f.Kind.Element(), v)
}

func coerceScalar(kind valueobject.Kind, v any) any {
	switch x := v.(type) {
	case json.Number:
		if kind == valueobject.KindInteger {
			if n, err := x.Int64(); err == nil {
				return n
			}
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
	case float64:
		if kind == valueobject.KindInteger && x == float64(int64(x)) {
			return int64(x)
		}
	case string:
		switch kind {
		case valueobject.KindTimestamp:
			if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
				return t
			}
		case valueobject.KindUUID:
			if id, err := uuid.Parse(x); err == nil {
				return id
			}
		}
	}
	return v
}

// ToErrors converts err into GraphQL errors. Each domain error keeps its code
// and parameters as extensions.
func ToErrors(err error) gqlerror.List {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	errs := []error{err}
	if errors.As(err, &merr) {
		errs = merr.Errors
	}

	list := make(gqlerror.List, 0, len(errs))
	for _, e := range errs {
		gerr := &gqlerror.Error{Message: e.Error(), Extensions: map[string]any{}}
		var de *domainerror.Error
		if errors.As(e, &de) {
			gerr.Extensions["code"] = string(de.Code)
			for k, v := range de.Params {
				gerr.Extensions[k] = v
			}
		}
		list = append(list, gerr)
	}
	return list
}
