// Package pgsql translates criteria into PostgreSQL WHERE conditions with
// pgx named arguments.
package pgsql

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rpattn/dddkit/pkg/aggregates/specification"
	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

// Condition is a WHERE clause fragment and the arguments it references.
// An empty Clause means the criteria places no constraint.
type Condition struct {
	Clause string
	Args   pgx.NamedArgs
}

// Options tune the translation.
type Options struct {
	// Table qualifies every column when set.
	Table string
	// ArgPrefix names the arguments ArgPrefix1, ArgPrefix2, ... (default "p").
	ArgPrefix string
	Logger    *zap.Logger
}

// Translate renders c. Criteria carrying construction errors are refused.
func Translate(c *specification.Criteria, opts Options) (Condition, error) {
	if c == nil {
		return Condition{}, domainerror.New(domainerror.CodeInvalidValue, "criteria is nil")
	}
	if err := c.Err(); err != nil {
		return Condition{}, fmt.Errorf("failed to translate invalid criteria: %w", err)
	}

	t := &translator{opts: opts, args: pgx.NamedArgs{}}
	if t.opts.ArgPrefix == "" {
		t.opts.ArgPrefix = "p"
	}
	clause, err := t.criteria(c)
	if err != nil {
		return Condition{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("translated criteria",
		zap.String("entity", c.Schema().Name()),
		zap.String("clause", clause),
		zap.Int("args", len(t.args)),
	)

	return Condition{Clause: clause, Args: t.args}, nil
}

type translator struct {
	opts Options
	args pgx.NamedArgs
	next int
}

func (t *translator) criteria(c *specification.Criteria) (string, error) {
	parts := make([]string, 0, c.Len())
	for _, n := range c.Filters() {
		var (
			part string
			err  error
		)
		switch v := n.(type) {
		case specification.Filter:
			part, err = t.filter(v)
		case *specification.Criteria:
			part, err = t.criteria(v)
		}
		if err != nil {
			return "", err
		}
		if part != "" {
			parts = append(parts, part)
		}
	}

	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	default:
		return "(" + strings.Join(parts, " "+string(c.LogicalOperator())+" ") + ")", nil
	}
}

func (t *translator) bind(v any) string {
	t.next++
	name := fmt.Sprintf("%s%d", t.opts.ArgPrefix, t.next)
	t.args[name] = v
	return "@" + name
}

func (t *translator) column(f specification.Filter) string {
	ident := pgx.Identifier{f.Descriptor().ColumnName()}
	if t.opts.Table != "" {
		ident = pgx.Identifier{t.opts.Table, f.Descriptor().ColumnName()}
	}
	return ident.Sanitize()
}

func (t *translator) filter(f specification.Filter) (string, error) {
	col := t.column(f)
	kind := f.Descriptor().Kind

	switch f.Operator() {
	case specification.Equals:
		return col + " = " + t.bind(f.Value()), nil
	case specification.NotEquals:
		return col + " <> " + t.bind(f.Value()), nil
	case specification.GreaterThan:
		return col + " > " + t.bind(f.Value()), nil
	case specification.GreaterThanOrEqual:
		return col + " >= " + t.bind(f.Value()), nil
	case specification.LessThan:
		return col + " < " + t.bind(f.Value()), nil
	case specification.LessThanOrEqual:
		return col + " <= " + t.bind(f.Value()), nil
	case specification.Between:
		values := f.Values()
		return fmt.Sprintf("%s BETWEEN %s AND %s", col, t.bind(values[0]), t.bind(values[1])), nil
	case specification.In:
		return fmt.Sprintf("%s = ANY(%s)", col, t.bind(typedSlice(kind.Element(), f.Values()))), nil
	case specification.NotIn:
		return fmt.Sprintf("%s <> ALL(%s)", col, t.bind(typedSlice(kind.Element(), f.Values()))), nil
	case specification.Contains:
		if kind.IsCollection() {
			return col + " @> " + t.bind(typedSlice(kind.Element(), f.Values())), nil
		}
		return fmt.Sprintf("strpos(%s, %s) > 0", col, t.bind(f.Value())), nil
	case specification.ContainsAny:
		return col + " && " + t.bind(typedSlice(kind.Element(), f.Values())), nil
	case specification.StartsWith:
		return fmt.Sprintf("starts_with(%s, %s)", col, t.bind(f.Value())), nil
	case specification.EndsWith:
		p := t.bind(f.Value())
		return fmt.Sprintf("right(%s, char_length(%s)) = %s", col, p, p), nil
	default:
		return "", domainerror.Newf(domainerror.CodeUnsupported, "operator %q has no SQL form", f.Operator())
	}
}

// typedSlice gives pgx a concrete array type to encode.
func typedSlice(kind valueobject.Kind, values []any) any {
	switch kind {
	case valueobject.KindString:
		return collect[string](values)
	case valueobject.KindInteger:
		return collect[int64](values)
	case valueobject.KindFloat:
		return collect[float64](values)
	case valueobject.KindUUID:
		return collect[uuid.UUID](values)
	default:
		return values
	}
}

func collect[T any](values []any) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = v.(T)
	}
	return out
}
