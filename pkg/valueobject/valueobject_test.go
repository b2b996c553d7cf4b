package valueobject

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/dddkit/pkg/domainerror"
)

var userName = MustDefine("UserName", KindString, NotBlank(), MaxLength(8))

func TestDefinitionNewAppliesRules(t *testing.T) {
	v, err := userName.New("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Get() != "alice" || v.Name() != "UserName" || v.Kind() != KindString {
		t.Fatalf("unexpected value object: %+v", v)
	}
	if v.String() != "UserName(alice)" {
		t.Fatalf("unexpected string form %q", v.String())
	}

	if _, err := userName.New("   "); !errors.Is(err, domainerror.ErrInvalidValue) {
		t.Fatalf("expected invalid value error for blank name, got %v", err)
	}
}

func TestDefinitionNewAccumulatesRuleFailures(t *testing.T) {
	code := MustDefine("Code", KindString, MaxLength(2), Matches(regexp.MustCompile(`^[a-z]+$`)))

	_, err := code.New("ABC")
	if err == nil {
		t.Fatalf("expected rule failures")
	}
	msg := err.Error()
	if !strings.Contains(msg, "at most 2") || !strings.Contains(msg, "must match") {
		t.Fatalf("expected both rule failures in %q", msg)
	}
}

func TestDefineRejectsMismatchedKind(t *testing.T) {
	if _, err := Define[string]("Age", KindInteger); err == nil {
		t.Fatalf("expected kind mismatch error")
	}
	if _, err := Define[int]("", KindInteger); err == nil {
		t.Fatalf("expected missing name error")
	}
	if _, err := Define[[]string]("Tags", KindStringList); err != nil {
		t.Fatalf("unexpected error for list definition: %v", err)
	}
}

func TestValueEquals(t *testing.T) {
	age := MustDefine("Age", KindInteger, Range(0, 150))
	a := age.MustNew(30)
	b := age.MustNew(30)
	c := age.MustNew(31)

	if !a.Equals(b) {
		t.Fatalf("expected equal value objects")
	}
	if a.Equals(c) {
		t.Fatalf("expected different value objects")
	}
	if a.Equals(userName.MustNew("bob")) {
		t.Fatalf("expected different variants to be unequal")
	}
	if _, err := age.New(200); err == nil {
		t.Fatalf("expected range rule failure")
	}
}

func TestNormalize(t *testing.T) {
	now := time.Now()
	id := uuid.New()

	cases := []struct {
		kind Kind
		in   any
		want any
	}{
		{KindString, "x", "x"},
		{KindInteger, int32(7), int64(7)},
		{KindFloat, 3, float64(3)},
		{KindFloat, float32(1.5), float64(1.5)},
		{KindBoolean, true, true},
		{KindUUID, id, id},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.kind, tc.in)
		if err != nil {
			t.Fatalf("normalize %v as %s: %v", tc.in, tc.kind, err)
		}
		if got != tc.want {
			t.Fatalf("normalize %v as %s: expected %v, got %v", tc.in, tc.kind, tc.want, got)
		}
	}

	got, err := Normalize(KindTimestamp, now)
	if err != nil || !PrimitiveEqual(got, now) {
		t.Fatalf("expected timestamp to normalize, got %v %v", got, err)
	}

	list, err := Normalize(KindStringList, []any{"a", "b"})
	if err != nil || !PrimitiveEqual(list, []string{"a", "b"}) {
		t.Fatalf("expected string list, got %v %v", list, err)
	}

	if _, err := Normalize(KindInteger, "7"); err == nil {
		t.Fatalf("expected string to be rejected as integer")
	}
	if _, err := Normalize(KindInteger, uint64(1<<63)); err == nil {
		t.Fatalf("expected overflowing uint64 to be rejected")
	}
	if _, err := Normalize(KindString, nil); err == nil {
		t.Fatalf("expected nil to be rejected")
	}
}

func TestNormalizeUnwrapsValueObjects(t *testing.T) {
	got, err := Normalize(KindString, userName.MustNew("carol"))
	if err != nil || got != "carol" {
		t.Fatalf("expected unwrapped value, got %v %v", got, err)
	}
	if _, err := Normalize(KindInteger, userName.MustNew("carol")); err == nil {
		t.Fatalf("expected kind mismatch for value object")
	}
}

func TestElements(t *testing.T) {
	if items, ok := Elements([]int{1, 2}); !ok || len(items) != 2 {
		t.Fatalf("expected two elements, got %v %v", items, ok)
	}
	if _, ok := Elements("ab"); ok {
		t.Fatalf("strings must not be treated as sequences")
	}
	if _, ok := Elements([]byte("ab")); ok {
		t.Fatalf("byte slices must not be treated as sequences")
	}
	if _, ok := Elements(uuid.New()); ok {
		t.Fatalf("uuids must not be treated as sequences")
	}
	if _, ok := Elements([2]int{1, 2}); ok {
		t.Fatalf("fixed-size arrays must not be treated as sequences")
	}
	if ids, ok := Elements([]uuid.UUID{uuid.New(), uuid.New()}); !ok || len(ids) != 2 {
		t.Fatalf("expected a slice of uuids to be a sequence, got %v %v", ids, ok)
	}
}
