// Package memory evaluates criteria against in-memory records. It backs fake
// repositories and tests that must agree with the SQL translators.
package memory

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rpattn/dddkit/pkg/aggregates/specification"
	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

// Record holds property values keyed by field name. Values may be raw
// primitives or value objects.
type Record map[string]any

// Match reports whether record satisfies c. Missing or nil properties never
// satisfy a filter.
func Match(c *specification.Criteria, record Record) (bool, error) {
	if c == nil {
		return false, domainerror.New(domainerror.CodeInvalidValue, "criteria is nil")
	}
	if err := c.Err(); err != nil {
		return false, fmt.Errorf("failed to evaluate invalid criteria: %w", err)
	}
	ok, _, err := match(c, record)
	return ok, err
}

// Filter returns the records satisfying c, in input order.
func Filter(c *specification.Criteria, records []Record) ([]Record, error) {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		ok, err := Match(c, r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// match returns the outcome and whether the node constrained anything.
func match(c *specification.Criteria, record Record) (bool, bool, error) {
	constrained := false
	for _, n := range c.Filters() {
		var (
			ok, active bool
			err        error
		)
		switch v := n.(type) {
		case specification.Filter:
			ok, err = matchFilter(v, record)
			active = true
		case *specification.Criteria:
			ok, active, err = match(v, record)
		}
		if err != nil {
			return false, false, err
		}
		if !active {
			continue
		}
		constrained = true
		if c.LogicalOperator() == specification.Or && ok {
			return true, true, nil
		}
		if c.LogicalOperator() == specification.And && !ok {
			return false, true, nil
		}
	}
	if !constrained {
		return true, false, nil
	}
	return c.LogicalOperator() == specification.And, true, nil
}

func matchFilter(f specification.Filter, record Record) (bool, error) {
	raw, ok := record[f.Field()]
	if !ok || raw == nil {
		return false, nil
	}
	kind := f.Descriptor().Kind
	actual, err := valueobject.Normalize(kind, raw)
	if err != nil {
		return false, fmt.Errorf("record field %q: %w", f.Field(), err)
	}

	switch f.Operator() {
	case specification.Equals:
		return valueobject.PrimitiveEqual(actual, f.Value()), nil
	case specification.NotEquals:
		return !valueobject.PrimitiveEqual(actual, f.Value()), nil
	case specification.GreaterThan:
		return compare(actual, f.Value()) > 0, nil
	case specification.GreaterThanOrEqual:
		return compare(actual, f.Value()) >= 0, nil
	case specification.LessThan:
		return compare(actual, f.Value()) < 0, nil
	case specification.LessThanOrEqual:
		return compare(actual, f.Value()) <= 0, nil
	case specification.Between:
		bounds := f.Values()
		return compare(actual, bounds[0]) >= 0 && compare(actual, bounds[1]) <= 0, nil
	case specification.In:
		return containsValue(f.Values(), actual), nil
	case specification.NotIn:
		return !containsValue(f.Values(), actual), nil
	case specification.Contains:
		if kind.IsCollection() {
			items := elements(actual)
			for _, want := range f.Values() {
				if !containsValue(items, want) {
					return false, nil
				}
			}
			return true, nil
		}
		return strings.Contains(actual.(string), f.Value().(string)), nil
	case specification.ContainsAny:
		items := elements(actual)
		for _, want := range f.Values() {
			if containsValue(items, want) {
				return true, nil
			}
		}
		return false, nil
	case specification.StartsWith:
		return strings.HasPrefix(actual.(string), f.Value().(string)), nil
	case specification.EndsWith:
		return strings.HasSuffix(actual.(string), f.Value().(string)), nil
	default:
		return false, domainerror.Newf(domainerror.CodeUnsupported, "operator %q cannot be evaluated", f.Operator())
	}
}

func compare(a, b any) int {
	switch x := a.(type) {
	case int64:
		return cmp.Compare(x, b.(int64))
	case float64:
		return cmp.Compare(x, b.(float64))
	case time.Time:
		return x.Compare(b.(time.Time))
	}
	return 0
}

func containsValue(items []any, v any) bool {
	return slices.ContainsFunc(items, func(item any) bool {
		return valueobject.PrimitiveEqual(item, v)
	})
}

func elements(list any) []any {
	items, _ := valueobject.Elements(list)
	return items
}
