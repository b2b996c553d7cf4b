// Package valueobject provides immutable wrappers around primitive values.
//
// Each variant is declared once with Define, which fixes its name, primitive
// kind and validation rules. The resulting Definition is read-only; every
// Value it constructs has passed all of the variant's rules.
package valueobject

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/rpattn/dddkit/pkg/domainerror"
)

// ValueObject is the capability shared by every value object variant.
type ValueObject interface {
	Name() string
	Kind() Kind
	// Primitive returns the canonical primitive (see Normalize).
	Primitive() any
	Equals(other ValueObject) bool
}

// Rule validates a raw value before it is wrapped.
type Rule[T any] func(T) error

// Definition declares a value object variant.
type Definition[T any] struct {
	name  string
	kind  Kind
	rules []Rule[T]
}

// Define declares a variant named name wrapping values of kind. The zero value
// of T must normalize to kind.
func Define[T any](name string, kind Kind, rules ...Rule[T]) (*Definition[T], error) {
	if name == "" {
		return nil, domainerror.New(domainerror.CodeInvalidValue, "value object name is required")
	}
	if !kind.Valid() {
		return nil, domainerror.Newf(domainerror.CodeInvalidValue, "value object %s: unsupported kind %q", name, kind)
	}
	var zero T
	if _, err := Normalize(kind, zeroProbe(kind, zero)); err != nil {
		return nil, domainerror.Wrap(domainerror.CodeInvalidValue, err, fmt.Sprintf("value object %s: type %T does not match kind %s", name, zero, kind))
	}
	return &Definition[T]{
		name:  name,
		kind:  kind,
		rules: append([]Rule[T](nil), rules...),
	}, nil
}

// MustDefine is like Define but panics on error. It is meant for package-level
// variant declarations.
func MustDefine[T any](name string, kind Kind, rules ...Rule[T]) *Definition[T] {
	def, err := Define(name, kind, rules...)
	if err != nil {
		panic(err)
	}
	return def
}

// zeroProbe gives list kinds an empty slice so a nil zero value still
// type-checks.
func zeroProbe(kind Kind, zero any) any {
	if kind.IsCollection() {
		if items, ok := Elements(zero); ok && len(items) == 0 {
			return items
		}
		if zero == nil {
			return []any{}
		}
	}
	return zero
}

func (d *Definition[T]) Name() string { return d.name }

func (d *Definition[T]) Kind() Kind { return d.kind }

// New validates raw against every rule of the variant. All rule failures are
// reported together.
func (d *Definition[T]) New(raw T) (Value[T], error) {
	primitive, err := Normalize(d.kind, raw)
	if err != nil {
		return Value[T]{}, domainerror.Wrap(domainerror.CodeInvalidValue, err, d.name)
	}

	var result *multierror.Error
	for _, rule := range d.rules {
		if err := rule(raw); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return Value[T]{}, domainerror.Wrap(domainerror.CodeInvalidValue, err, d.name).WithParam("value", raw)
	}

	return Value[T]{name: d.name, kind: d.kind, raw: raw, primitive: primitive}, nil
}

// MustNew is like New but panics on error.
func (d *Definition[T]) MustNew(raw T) Value[T] {
	v, err := d.New(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Value is an immutable, validated instance of a variant.
type Value[T any] struct {
	name      string
	kind      Kind
	raw       T
	primitive any
}

// Get returns the wrapped value.
func (v Value[T]) Get() T { return v.raw }

func (v Value[T]) Name() string { return v.name }

func (v Value[T]) Kind() Kind { return v.kind }

func (v Value[T]) Primitive() any { return v.primitive }

// Equals compares variant name, kind and primitive value.
func (v Value[T]) Equals(other ValueObject) bool {
	if other == nil || v.name != other.Name() || v.kind != other.Kind() {
		return false
	}
	return PrimitiveEqual(v.primitive, other.Primitive())
}

func (v Value[T]) String() string {
	return fmt.Sprintf("%s(%v)", v.name, v.raw)
}
