// Package domainerror defines the typed error values shared by the domain
// packages. Every error carries a Code that maps to a sentinel kind so callers
// can classify failures with errors.Is without string matching.
package domainerror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code identifies a category of domain failure.
type Code string

const (
	CodeInvalidOperator   Code = "INVALID_OPERATOR"
	CodeInvalidValueShape Code = "INVALID_VALUE_SHAPE"
	CodeUnknownField      Code = "UNKNOWN_FIELD"
	CodeInvalidValue      Code = "INVALID_VALUE"
	CodeInvalidSchema     Code = "INVALID_SCHEMA"
	CodeUnsupported       Code = "UNSUPPORTED"
)

var (
	ErrInvalidOperator   = errors.New("invalid operator")
	ErrInvalidValueShape = errors.New("invalid value shape")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidValue      = errors.New("invalid value")
	ErrInvalidSchema     = errors.New("invalid schema")
	ErrUnsupported       = errors.New("unsupported")
)

var kinds = map[Code]error{
	CodeInvalidOperator:   ErrInvalidOperator,
	CodeInvalidValueShape: ErrInvalidValueShape,
	CodeUnknownField:      ErrUnknownField,
	CodeInvalidValue:      ErrInvalidValue,
	CodeInvalidSchema:     ErrInvalidSchema,
	CodeUnsupported:       ErrUnsupported,
}

// Error is a domain failure with a stable code and optional parameters
// describing the offending input.
type Error struct {
	Code    Code
	Message string
	Params  map[string]any
	Err     error
}

// New creates an Error for the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that keeps err as its cause.
func Wrap(code Code, err error, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithParam returns a copy of e with key set to value.
func (e *Error) WithParam(key string, value any) *Error {
	params := make(map[string]any, len(e.Params)+1)
	for k, v := range e.Params {
		params[k] = v
	}
	params[key] = value
	return &Error{Code: e.Code, Message: e.Message, Params: params, Err: e.Err}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if kind, ok := kinds[e.Code]; ok {
		b.WriteString(kind.Error())
	} else {
		b.WriteString(strings.ToLower(string(e.Code)))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Params) > 0 {
		keys := make([]string, 0, len(e.Params))
		for k := range e.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Params[k])
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the sentinel kind for e's code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	kind, ok := kinds[e.Code]
	return ok && kind == target
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}
