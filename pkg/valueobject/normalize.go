package valueobject

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/dddkit/pkg/domainerror"
)

// Normalize converts v into the canonical primitive for kind: string, int64,
// float64, bool, time.Time, uuid.UUID, []string or []int64. A ValueObject is
// unwrapped first and must carry the same kind.
func Normalize(kind Kind, v any) (any, error) {
	if vo, ok := v.(ValueObject); ok {
		if vo.Kind() != kind {
			return nil, domainerror.Newf(domainerror.CodeInvalidValue, "value object %s has kind %s, expected %s", vo.Name(), vo.Kind(), kind)
		}
		v = vo.Primitive()
	}
	if v == nil {
		return nil, domainerror.Newf(domainerror.CodeInvalidValue, "nil is not a valid %s", kind)
	}

	switch kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindInteger:
		if n, ok := toInt64(v); ok {
			return n, nil
		}
	case KindFloat:
		switch f := v.(type) {
		case float64:
			return f, nil
		case float32:
			return float64(f), nil
		}
		if n, ok := toInt64(v); ok {
			return float64(n), nil
		}
	case KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindTimestamp:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	case KindUUID:
		if id, ok := v.(uuid.UUID); ok {
			return id, nil
		}
	case KindStringList, KindIntegerList:
		return normalizeList(kind, v)
	default:
		return nil, domainerror.Newf(domainerror.CodeInvalidValue, "unsupported kind %q", kind)
	}

	return nil, domainerror.Newf(domainerror.CodeInvalidValue, "%T is not a valid %s", v, kind)
}

func normalizeList(kind Kind, v any) (any, error) {
	items, ok := Elements(v)
	if !ok {
		return nil, domainerror.Newf(domainerror.CodeInvalidValue, "%T is not a valid %s", v, kind)
	}
	switch kind {
	case KindStringList:
		out := make([]string, 0, len(items))
		for i, item := range items {
			s, err := Normalize(KindString, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, s.(string))
		}
		return out, nil
	default:
		out := make([]int64, 0, len(items))
		for i, item := range items {
			n, err := Normalize(KindInteger, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, n.(int64))
		}
		return out, nil
	}
}

// Elements returns the items of a slice value. Strings, byte slices and
// fixed-size arrays such as uuid.UUID are not treated as sequences.
func Elements(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt64(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt64(n)
	}
	return 0, false
}

func uintToInt64(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}
