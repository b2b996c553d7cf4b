package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/dddkit/pkg/aggregates/specification"
	"github.com/rpattn/dddkit/pkg/entity"
	"github.com/rpattn/dddkit/pkg/valueobject"
)

var userSchema = entity.MustSchema("User",
	entity.VO("name", valueobject.KindString),
	entity.VO("age", valueobject.KindInteger),
	entity.VO("joinedAt", valueobject.KindTimestamp),
	entity.VO("tags", valueobject.KindStringList),
)

var userName = valueobject.MustDefine[string]("UserName", valueobject.KindString)

func users() []Record {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Record{
		{"name": userName.MustNew("alice"), "age": 30, "joinedAt": base, "tags": []string{"admin", "ops"}},
		{"name": "bob", "age": 17, "joinedAt": base.AddDate(0, 6, 0), "tags": []string{"ops"}},
		{"name": "carol", "age": 45, "joinedAt": base.AddDate(1, 0, 0)},
		{"name": "dave"},
	}
}

func names(t *testing.T, records []Record) []string {
	t.Helper()
	out := make([]string, 0, len(records))
	for _, r := range records {
		v, err := valueobject.Normalize(valueobject.KindString, r["name"])
		if err != nil {
			t.Fatalf("unexpected name %v", r["name"])
		}
		out = append(out, v.(string))
	}
	return out
}

func assertNames(t *testing.T, c *specification.Criteria, want ...string) {
	t.Helper()
	got, err := Filter(c, users())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotNames := names(t, got)
	if len(gotNames) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotNames)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotNames)
		}
	}
}

func TestMatchOperators(t *testing.T) {
	s := userSchema
	assertNames(t, specification.New(s).AddFilter("name", specification.Equals, "alice"), "alice")
	assertNames(t, specification.New(s).AddFilter("name", specification.NotEquals, "alice"), "bob", "carol", "dave")
	assertNames(t, specification.New(s).AddFilter("age", specification.GreaterThan, 30), "carol")
	assertNames(t, specification.New(s).AddFilter("age", specification.GreaterThanOrEqual, 30), "alice", "carol")
	assertNames(t, specification.New(s).AddFilter("age", specification.LessThan, 30), "bob")
	assertNames(t, specification.New(s).AddFilter("age", specification.Between, []int{17, 30}), "alice", "bob")
	assertNames(t, specification.New(s).AddFilter("age", specification.In, []int{17, 45}), "bob", "carol")
	assertNames(t, specification.New(s).AddFilter("age", specification.NotIn, []int{17}), "alice", "carol")
	assertNames(t, specification.New(s).AddFilter("name", specification.Contains, "ar"), "carol")
	assertNames(t, specification.New(s).AddFilter("name", specification.StartsWith, "da"), "dave")
	assertNames(t, specification.New(s).AddFilter("name", specification.EndsWith, "ce"), "alice")
	assertNames(t, specification.New(s).AddFilter("tags", specification.Contains, []string{"admin", "ops"}), "alice")
	assertNames(t, specification.New(s).AddFilter("tags", specification.ContainsAny, []string{"ops"}), "alice", "bob")
	assertNames(t, specification.New(s).AddFilter("joinedAt", specification.LessThan, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), "alice")
}

func TestMatchLogicalCombination(t *testing.T) {
	s := userSchema
	c := specification.NewWithOperator(s, specification.Or).
		AddFilter("name", specification.Equals, "dave").
		AddCriteria(specification.New(s).
			AddFilter("age", specification.GreaterThan, 18).
			AddFilter("tags", specification.ContainsAny, []string{"ops"}))
	assertNames(t, c, "alice", "dave")
}

func TestMatchEmptyCriteriaIsUnfiltered(t *testing.T) {
	s := userSchema
	assertNames(t, specification.New(s), "alice", "bob", "carol", "dave")
	assertNames(t, specification.NewWithOperator(s, specification.Or), "alice", "bob", "carol", "dave")

	c := specification.NewWithOperator(s, specification.Or).
		AddCriteria(specification.New(s)).
		AddFilter("name", specification.Equals, "bob")
	assertNames(t, c, "bob")
}

func TestMatchErrors(t *testing.T) {
	invalid := specification.New(userSchema).AddFilter("name", specification.GreaterThan, "x")
	if _, err := Match(invalid, Record{"name": "x"}); err == nil {
		t.Fatalf("expected invalid criteria to be refused")
	}
	c := specification.New(userSchema).AddFilter("age", specification.Equals, 1)
	if _, err := Match(c, Record{"age": "one"}); err == nil {
		t.Fatalf("expected mistyped record value to be reported")
	}
	if _, err := Match(nil, Record{}); err == nil {
		t.Fatalf("expected nil criteria to be refused")
	}
}

func TestMatchUUIDField(t *testing.T) {
	schema := entity.MustSchema("Member", entity.VO("teamId", valueobject.KindUUID))
	team := uuid.New()

	c := specification.New(schema).AddFilter("teamId", specification.Equals, team)
	ok, err := Match(c, Record{"teamId": team})
	if err != nil || !ok {
		t.Fatalf("expected same team to match, got %v %v", ok, err)
	}
	ok, err = Match(c, Record{"teamId": uuid.New()})
	if err != nil || ok {
		t.Fatalf("expected other team not to match, got %v %v", ok, err)
	}

	in := specification.New(schema).AddFilter("teamId", specification.In, []uuid.UUID{uuid.New(), team})
	if ok, err := Match(in, Record{"teamId": team}); err != nil || !ok {
		t.Fatalf("expected team in list to match, got %v %v", ok, err)
	}
}
