package entity

import (
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/rpattn/dddkit/pkg/domainerror"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

// Validate checks a property record against s: required properties must be
// present, every property must be declared, and every value must convert to
// its field's kind. All problems are reported together.
func (s *Schema) Validate(properties map[string]any) error {
	var result *multierror.Error

	for _, f := range s.fields {
		value, exists := properties[f.Name]
		if !exists || value == nil {
			if f.Required {
				result = multierror.Append(result, domainerror.Newf(domainerror.CodeInvalidValue,
					"required field %q is missing", f.Name).WithParam("field", f.Name))
			}
			continue
		}
		if _, err := valueobject.Normalize(f.Kind, value); err != nil {
			result = multierror.Append(result, domainerror.Wrap(domainerror.CodeInvalidValue, err,
				"field "+f.Name).WithParam("field", f.Name))
		}
	}

	// Sorted so repeated runs report undeclared properties in the same order.
	extra := make([]string, 0)
	for name := range properties {
		if _, ok := s.index[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		result = multierror.Append(result, domainerror.Newf(domainerror.CodeUnknownField,
			"property %q is not defined in %s", name, s.name).WithParam("field", name))
	}

	return result.ErrorOrNil()
}
