package valueobject

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// NotBlank rejects empty or whitespace-only strings.
func NotBlank() Rule[string] {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("must not be blank")
		}
		return nil
	}
}

// MaxLength rejects strings longer than n runes.
func MaxLength(n int) Rule[string] {
	return func(s string) error {
		if utf8.RuneCountInString(s) > n {
			return fmt.Errorf("must be at most %d characters", n)
		}
		return nil
	}
}

// Matches rejects strings that do not match re.
func Matches(re *regexp.Regexp) Rule[string] {
	return func(s string) error {
		if !re.MatchString(s) {
			return fmt.Errorf("must match %s", re.String())
		}
		return nil
	}
}

// Range rejects values outside [lo, hi].
func Range[T cmp.Ordered](lo, hi T) Rule[T] {
	return func(v T) error {
		if v < lo || v > hi {
			return fmt.Errorf("must be between %v and %v", lo, hi)
		}
		return nil
	}
}

// OneOf rejects values not listed in allowed.
func OneOf[T comparable](allowed ...T) Rule[T] {
	return func(v T) error {
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("must be one of %v", allowed)
		}
		return nil
	}
}

// PrimitiveEqual compares two canonical primitives as produced by Normalize.
func PrimitiveEqual(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case []string:
		y, ok := b.([]string)
		return ok && slices.Equal(x, y)
	case []int64:
		y, ok := b.([]int64)
		return ok && slices.Equal(x, y)
	default:
		return a == b
	}
}
