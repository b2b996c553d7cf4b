// Package gormscope turns criteria into gorm scopes.
package gormscope

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpattn/dddkit/pkg/aggregates/specification"
	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

// Options tune the translation.
type Options struct {
	// Table qualifies every column when set.
	Table  string
	Logger *zap.Logger
}

// Scope translates c and returns a scope applying it as a WHERE condition.
// An empty criteria yields a scope that leaves the query untouched.
func Scope(c *specification.Criteria, opts Options) (func(*gorm.DB) *gorm.DB, error) {
	expr, err := Expression(c, opts)
	if err != nil {
		return nil, err
	}
	return func(db *gorm.DB) *gorm.DB {
		if expr == nil {
			return db
		}
		return db.Where(expr)
	}, nil
}

// Expression translates c into a clause expression, or nil when c places no
// constraint.
func Expression(c *specification.Criteria, opts Options) (clause.Expression, error) {
	if c == nil {
		return nil, domainerror.New(domainerror.CodeInvalidValue, "criteria is nil")
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("failed to translate invalid criteria: %w", err)
	}

	expr, err := build(c, opts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("built gorm scope",
		zap.String("entity", c.Schema().Name()),
		zap.String("criteria", c.String()),
	)
	return expr, nil
}

func build(c *specification.Criteria, opts Options) (clause.Expression, error) {
	exprs := make([]clause.Expression, 0, c.Len())
	for _, n := range c.Filters() {
		var (
			expr clause.Expression
			err  error
		)
		switch v := n.(type) {
		case specification.Filter:
			expr, err = filter(v, opts)
		case *specification.Criteria:
			expr, err = build(v, opts)
		}
		if err != nil {
			return nil, err
		}
		if expr != nil {
			exprs = append(exprs, expr)
		}
	}

	switch {
	case len(exprs) == 0:
		return nil, nil
	case len(exprs) == 1:
		return exprs[0], nil
	case c.LogicalOperator() == specification.Or:
		return clause.OrConditions{Exprs: exprs}, nil
	default:
		return clause.AndConditions{Exprs: exprs}, nil
	}
}

func filter(f specification.Filter, opts Options) (clause.Expression, error) {
	col := clause.Column{Table: opts.Table, Name: f.Descriptor().ColumnName()}
	kind := f.Descriptor().Kind

	switch f.Operator() {
	case specification.Equals:
		return clause.Eq{Column: col, Value: f.Value()}, nil
	case specification.NotEquals:
		return clause.Neq{Column: col, Value: f.Value()}, nil
	case specification.GreaterThan:
		return clause.Gt{Column: col, Value: f.Value()}, nil
	case specification.GreaterThanOrEqual:
		return clause.Gte{Column: col, Value: f.Value()}, nil
	case specification.LessThan:
		return clause.Lt{Column: col, Value: f.Value()}, nil
	case specification.LessThanOrEqual:
		return clause.Lte{Column: col, Value: f.Value()}, nil
	case specification.Between:
		values := f.Values()
		return clause.Expr{SQL: "? BETWEEN ? AND ?", Vars: []any{col, values[0], values[1]}}, nil
	case specification.In:
		return clause.IN{Column: col, Values: f.Values()}, nil
	case specification.NotIn:
		return clause.Not(clause.IN{Column: col, Values: f.Values()}), nil
	case specification.Contains:
		if kind.IsCollection() {
			return clause.Expr{SQL: "? @> ?", Vars: []any{col, listValue(kind, f.Values())}}, nil
		}
		return like(col, "%"+escapeLike(f.Value().(string))+"%"), nil
	case specification.ContainsAny:
		return clause.Expr{SQL: "? && ?", Vars: []any{col, listValue(kind, f.Values())}}, nil
	case specification.StartsWith:
		return like(col, escapeLike(f.Value().(string))+"%"), nil
	case specification.EndsWith:
		return like(col, "%"+escapeLike(f.Value().(string))), nil
	default:
		return nil, domainerror.Newf(domainerror.CodeUnsupported, "operator %q has no gorm form", f.Operator())
	}
}

func like(col clause.Column, pattern string) clause.Expression {
	return clause.Expr{SQL: `? LIKE ? ESCAPE '\'`, Vars: []any{col, pattern}}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// listValue wraps values in a driver.Valuer so gorm binds one array
// parameter; plain slices are expanded into a row constructor.
func listValue(kind valueobject.Kind, values []any) any {
	if kind.Element() == valueobject.KindInteger {
		out := make(pq.Int64Array, len(values))
		for i, v := range values {
			out[i] = v.(int64)
		}
		return out
	}
	out := make(pq.StringArray, len(values))
	for i, v := range values {
		out[i] = v.(string)
	}
	return out
}
