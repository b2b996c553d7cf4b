// Package aipfilter parses AIP-160 filter expressions into criteria.
package aipfilter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/rpattn/dddkit/pkg/aggregates/specification"
	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/entity"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

// Declarations declares every filterable scalar field of schema along with
// the boolean literals true and false. UUID fields are declared as strings;
// collection fields are not declared.
func Declarations(schema *entity.Schema) (*filtering.Declarations, error) {
	decls := []filtering.DeclarationOption{
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("true", filtering.TypeBool),
		filtering.DeclareIdent("false", filtering.TypeBool),
	}
	for _, f := range schema.Filterable() {
		switch f.Kind {
		case valueobject.KindString, valueobject.KindUUID:
			decls = append(decls, filtering.DeclareIdent(f.Name, filtering.TypeString))
		case valueobject.KindInteger:
			decls = append(decls, filtering.DeclareIdent(f.Name, filtering.TypeInt))
		case valueobject.KindFloat:
			decls = append(decls, filtering.DeclareIdent(f.Name, filtering.TypeFloat))
		case valueobject.KindBoolean:
			decls = append(decls, filtering.DeclareIdent(f.Name, filtering.TypeBool))
		case valueobject.KindTimestamp:
			decls = append(decls, filtering.DeclareIdent(f.Name, filtering.TypeTimestamp))
		}
	}
	return filtering.NewDeclarations(decls...)
}

// Parse parses filter against schema. An empty filter yields an empty AND
// criteria. OR binds tighter than AND, as AIP-160 specifies.
func Parse(schema *entity.Schema, filter string) (*specification.Criteria, error) {
	if schema == nil {
		return nil, domainerror.New(domainerror.CodeInvalidSchema, "schema is required")
	}
	if strings.TrimSpace(filter) == "" {
		return specification.New(schema), nil
	}

	decls, err := Declarations(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to declare %s fields: %w", schema.Name(), err)
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return nil, domainerror.Wrap(domainerror.CodeInvalidValue, err, "parse filter").WithParam("filter", filter)
	}

	p := parser{schema: schema}
	root := parsed.CheckedExpr.GetExpr()
	op := specification.And
	if call := root.GetCallExpr(); call != nil && isOr(call.GetFunction()) {
		op = specification.Or
	}

	c := specification.NewWithOperator(schema, op)
	if err := p.add(c, root); err != nil {
		return nil, err
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func isAnd(fn string) bool { return fn == "AND" || fn == "FUZZY" || fn == "_&&_" }

func isOr(fn string) bool { return fn == "OR" || fn == "_||_" }

type parser struct {
	schema *entity.Schema
}

func (p parser) add(into *specification.Criteria, e *expr.Expr) error {
	call := e.GetCallExpr()
	if call == nil {
		return domainerror.Newf(domainerror.CodeUnsupported, "expected a comparison, got %T", e.GetExprKind())
	}

	switch fn := call.GetFunction(); {
	case isAnd(fn):
		return p.group(into, specification.And, call.GetArgs())
	case isOr(fn):
		return p.group(into, specification.Or, call.GetArgs())
	case fn == "NOT":
		if len(call.GetArgs()) != 1 || call.GetArgs()[0].GetCallExpr() == nil {
			return domainerror.New(domainerror.CodeUnsupported, "NOT applies only to a comparison")
		}
		return p.comparison(into, call.GetArgs()[0].GetCallExpr(), true)
	default:
		return p.comparison(into, call, false)
	}
}

// group flattens runs of the same logical operator into one node.
func (p parser) group(into *specification.Criteria, op specification.LogicalOperator, args []*expr.Expr) error {
	target := into
	if into.LogicalOperator() != op {
		target = specification.NewWithOperator(p.schema, op)
	}
	for _, arg := range args {
		if err := p.add(target, arg); err != nil {
			return err
		}
	}
	if target != into {
		into.AddCriteria(target)
	}
	return nil
}

var comparisons = map[string]specification.Operator{
	"=":  specification.Equals,
	"==": specification.Equals,
	"!=": specification.NotEquals,
	"<":  specification.LessThan,
	"<=": specification.LessThanOrEqual,
	">":  specification.GreaterThan,
	">=": specification.GreaterThanOrEqual,
}

var negations = map[specification.Operator]specification.Operator{
	specification.Equals:             specification.NotEquals,
	specification.NotEquals:          specification.Equals,
	specification.LessThan:           specification.GreaterThanOrEqual,
	specification.LessThanOrEqual:    specification.GreaterThan,
	specification.GreaterThan:        specification.LessThanOrEqual,
	specification.GreaterThanOrEqual: specification.LessThan,
}

func (p parser) comparison(into *specification.Criteria, call *expr.Expr_Call, negate bool) error {
	op, ok := comparisons[strings.Trim(call.GetFunction(), "_")]
	if !ok {
		return domainerror.Newf(domainerror.CodeUnsupported, "unsupported function %q", call.GetFunction())
	}
	if negate {
		op = negations[op]
	}
	if len(call.GetArgs()) != 2 {
		return domainerror.Newf(domainerror.CodeUnsupported, "comparison %q requires 2 arguments", call.GetFunction())
	}

	ident := call.GetArgs()[0].GetIdentExpr()
	if ident == nil {
		return domainerror.New(domainerror.CodeUnsupported, "left side of a comparison must be a field")
	}
	field, ok := p.schema.FilterableField(ident.GetName())
	if !ok {
		return domainerror.Newf(domainerror.CodeUnknownField, "%s has no filterable field %q", p.schema.Name(), ident.GetName())
	}

	value, err := literal(field.Kind, call.GetArgs()[1])
	if err != nil {
		return domainerror.Wrap(domainerror.CodeInvalidValueShape, err, fmt.Sprintf("field %q", field.Name))
	}
	into.AddFilter(field.Name, op, value)
	return nil
}

func literal(kind valueobject.Kind, e *expr.Expr) (any, error) {
	if call := e.GetCallExpr(); call != nil {
		if call.GetFunction() == "timestamp" && len(call.GetArgs()) == 1 {
			return literal(kind, call.GetArgs()[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", call.GetFunction())
	}

	// The filter grammar has no boolean constants; true and false arrive as
	// identifiers.
	if ident := e.GetIdentExpr(); ident != nil {
		switch ident.GetName() {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("expected a literal, got field %q", ident.GetName())
	}

	c := e.GetConstExpr()
	if c == nil {
		return nil, fmt.Errorf("expected a literal, got %T", e.GetExprKind())
	}
	switch v := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		switch kind {
		case valueobject.KindTimestamp:
			return time.Parse(time.RFC3339Nano, v.StringValue)
		case valueobject.KindUUID:
			return uuid.Parse(v.StringValue)
		}
		return v.StringValue, nil
	case *expr.Constant_Int64Value:
		return v.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return v.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return v.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return v.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported literal %T", v)
	}
}
