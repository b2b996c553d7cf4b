// Package specification builds criteria: logical trees of filters over the
// filterable properties of one entity schema. A Criteria is only a
// description; translating it into a query is left to the translate packages.
//
// An empty Criteria places no constraint on the entity. Translators emit no
// condition for it and evaluators treat it as matching everything, whatever
// its logical operator.
package specification

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/entity"
)

// Node is a child of a Criteria: either a Filter or a nested *Criteria.
type Node interface {
	node()
}

func (Filter) node()    {}
func (*Criteria) node() {}

// Criteria is a mutable builder node. It is not safe for concurrent use:
// build it from one goroutine, then treat it as read-only.
//
// Builder methods return the receiver so calls can be chained. Invalid input
// is never appended; the failure is recorded instead and reported by Err.
type Criteria struct {
	schema   *entity.Schema
	operator LogicalOperator
	children []Node
	errs     *multierror.Error
}

// New returns an empty AND node over schema.
func New(schema *entity.Schema) *Criteria {
	return NewWithOperator(schema, And)
}

// NewWithOperator returns an empty node combining its children with op.
func NewWithOperator(schema *entity.Schema, op LogicalOperator) *Criteria {
	c := &Criteria{schema: schema, operator: op}
	if schema == nil {
		c.fail(domainerror.New(domainerror.CodeInvalidSchema, "criteria has no schema"))
	}
	if !op.Valid() {
		c.fail(domainerror.Newf(domainerror.CodeInvalidOperator, "unknown logical operator %q", op))
		c.operator = And
	}
	return c
}

// AddFilter validates and appends a filter on field.
func (c *Criteria) AddFilter(field string, op Operator, value any) *Criteria {
	f, err := NewFilter(c.schema, field, op, value)
	if err != nil {
		c.fail(err)
		return c
	}
	c.children = append(c.children, f)
	return c
}

// Add appends filters built with NewFilter. Each must target a field of this
// node's schema exactly as declared, storage column included.
func (c *Criteria) Add(filters ...Filter) *Criteria {
	for _, f := range filters {
		if c.schema == nil {
			c.fail(domainerror.New(domainerror.CodeInvalidSchema, "criteria has no schema"))
			continue
		}
		declared, ok := c.schema.FilterableField(f.Field())
		if !ok {
			c.fail(domainerror.Newf(domainerror.CodeUnknownField, "%s has no filterable field %q", c.schema.Name(), f.Field()))
			continue
		}
		if declared != f.field {
			c.fail(domainerror.Newf(domainerror.CodeInvalidSchema, "filter on %q was built for a different %s schema", f.Field(), c.schema.Name()).
				WithParam("field", f.Field()))
			continue
		}
		c.children = append(c.children, f)
	}
	return c
}

// AddCriteria appends child as a nested group. The child is not copied; it
// belongs to c from now on.
func (c *Criteria) AddCriteria(child *Criteria) *Criteria {
	switch {
	case child == nil:
		c.fail(domainerror.New(domainerror.CodeInvalidValue, "nested criteria is nil"))
	case child == c || child.reaches(c):
		c.fail(domainerror.New(domainerror.CodeInvalidValue, "nested criteria would form a cycle"))
	case child.schema != c.schema:
		c.fail(domainerror.Newf(domainerror.CodeInvalidSchema, "nested criteria targets %s, expected %s", schemaName(child.schema), schemaName(c.schema)))
	case child.Err() != nil:
		c.fail(child.Err())
	default:
		c.children = append(c.children, child)
	}
	return c
}

func (c *Criteria) reaches(target *Criteria) bool {
	for _, n := range c.children {
		if sub, ok := n.(*Criteria); ok && (sub == target || sub.reaches(target)) {
			return true
		}
	}
	return false
}

func (c *Criteria) fail(err error) {
	c.errs = multierror.Append(c.errs, err)
}

// Filters returns the children in insertion order. The slice is a copy;
// nested *Criteria entries are the nodes that were added.
func (c *Criteria) Filters() []Node {
	return append([]Node(nil), c.children...)
}

// LogicalOperator returns the combinator of this node.
func (c *Criteria) LogicalOperator() LogicalOperator { return c.operator }

// Schema returns the entity schema the criteria is built over.
func (c *Criteria) Schema() *entity.Schema { return c.schema }

// Len returns the number of direct children.
func (c *Criteria) Len() int { return len(c.children) }

// IsEmpty reports whether the node has no children.
func (c *Criteria) IsEmpty() bool { return len(c.children) == 0 }

// Err reports every construction failure recorded on this node or on any
// nested node, or nil when the tree is well formed.
func (c *Criteria) Err() error {
	var result *multierror.Error
	if c.errs != nil {
		result = multierror.Append(result, c.errs.Errors...)
	}
	for _, n := range c.children {
		if sub, ok := n.(*Criteria); ok {
			if err := sub.Err(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}

// Walk calls fn for every filter in the tree, depth first and in insertion
// order. depth is 0 for filters directly under c. Walking stops at the first
// error fn returns.
func (c *Criteria) Walk(fn func(f Filter, depth int) error) error {
	return c.walk(fn, 0)
}

func (c *Criteria) walk(fn func(Filter, int) error, depth int) error {
	for _, n := range c.children {
		switch v := n.(type) {
		case Filter:
			if err := fn(v, depth); err != nil {
				return err
			}
		case *Criteria:
			if err := v.walk(fn, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Criteria) String() string {
	var b strings.Builder
	c.write(&b)
	return b.String()
}

func (c *Criteria) write(b *strings.Builder) {
	b.WriteString("(")
	for i, n := range c.children {
		if i > 0 {
			b.WriteString(" ")
			b.WriteString(string(c.operator))
			b.WriteString(" ")
		}
		switch v := n.(type) {
		case Filter:
			b.WriteString(v.String())
		case *Criteria:
			v.write(b)
		}
	}
	b.WriteString(")")
}

func schemaName(s *entity.Schema) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name()
}
