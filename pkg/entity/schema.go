// Package entity describes domain entities: their identity and the explicit
// schema of properties that the specification package filters on.
package entity

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

// Field describes one property of an entity.
type Field struct {
	Name string           `mapstructure:"name" json:"name"`
	Kind valueobject.Kind `mapstructure:"kind" json:"kind"`
	// ValueObject marks properties typed as value objects. Only these are
	// visible to criteria; raw properties are listed for completeness.
	ValueObject bool `mapstructure:"value_object" json:"value_object"`
	// Column optionally overrides the storage column used by translators.
	Column   string `mapstructure:"column" json:"column,omitempty"`
	Required bool   `mapstructure:"required" json:"required,omitempty"`
}

// VO declares a value-object property.
func VO(name string, kind valueobject.Kind) Field {
	return Field{Name: name, Kind: kind, ValueObject: true}
}

// Raw declares a property holding an unwrapped primitive.
func Raw(name string, kind valueobject.Kind) Field {
	return Field{Name: name, Kind: kind}
}

// WithColumn returns a copy of f stored under column.
func (f Field) WithColumn(column string) Field {
	f.Column = column
	return f
}

// AsRequired returns a copy of f that records must carry.
func (f Field) AsRequired() Field {
	f.Required = true
	return f
}

// ColumnName returns the storage column for f, defaulting to its name.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Schema is the immutable property set of one entity type.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewSchema validates fields and returns the schema. Every problem found is
// reported in the returned error.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	var result *multierror.Error
	if strings.TrimSpace(name) == "" {
		result = multierror.Append(result, domainerror.New(domainerror.CodeInvalidSchema, "schema name is required"))
	}

	index := make(map[string]int, len(fields))
	for i, field := range fields {
		switch {
		case strings.TrimSpace(field.Name) == "":
			result = multierror.Append(result, domainerror.Newf(domainerror.CodeInvalidSchema, "field %d has no name", i))
			continue
		case !field.Kind.Valid():
			result = multierror.Append(result, domainerror.Newf(domainerror.CodeInvalidSchema, "field %s has unsupported kind %q", field.Name, field.Kind))
		}
		if _, dup := index[field.Name]; dup {
			result = multierror.Append(result, domainerror.Newf(domainerror.CodeInvalidSchema, "field %s is declared twice", field.Name))
			continue
		}
		index[field.Name] = i
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Schema{
		name:   name,
		fields: append([]Field(nil), fields...),
		index:  index,
	}, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// Field looks up a property by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns a copy of all properties in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Filterable returns the value-object properties in declaration order.
func (s *Schema) Filterable() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if f.ValueObject {
			out = append(out, f)
		}
	}
	return out
}

// FilterableField looks up a value-object property by name. Raw properties
// are reported as missing.
func (s *Schema) FilterableField(name string) (Field, bool) {
	f, ok := s.Field(name)
	if !ok || !f.ValueObject {
		return Field{}, false
	}
	return f, true
}

// WithColumns returns a copy of s with storage columns overridden by field
// name. Names match case-insensitively so maps read from config files, which
// may fold case, still apply.
func (s *Schema) WithColumns(columns map[string]string) (*Schema, error) {
	fields := s.Fields()
	var result *multierror.Error
	for name, column := range columns {
		matched := false
		for i := range fields {
			if strings.EqualFold(fields[i].Name, name) {
				fields[i].Column = column
				matched = true
			}
		}
		if !matched {
			result = multierror.Append(result, domainerror.Newf(domainerror.CodeUnknownField,
				"%s has no field %q", s.name, name))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return NewSchema(s.name, fields...)
}
