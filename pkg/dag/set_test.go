package dag

import (
	"encoding/json"
	"testing"
)

func TestSet(t *testing.T) {
	var zero Set
	if zero.Has("a") || zero.Len() != 0 || !zero.Empty() || zero.String() != "{}" {
		t.Errorf("zero Set misbehaves: %v", zero)
	}

	s := NewSet("c", "a", "b", "a")
	if got := s.String(); got != "{a, b, c}" {
		t.Errorf("String() = %q", got)
	}
	if !s.Equal(NewSet("a", "b", "c")) {
		t.Error("Equal() = false for same members")
	}
	if got := s.Without("b").String(); got != "{a, c}" {
		t.Errorf("Without(b) = %s", got)
	}
	if got := s.Union(NewSet("d", "a")).String(); got != "{a, b, c, d}" {
		t.Errorf("Union() = %s", got)
	}
	if got := s.Intersect(NewSet("c", "z")).String(); got != "{c}" {
		t.Errorf("Intersect() = %s", got)
	}
	if !NewSet("a").IsSubsetOf(s) || s.IsSubsetOf(NewSet("a")) || !zero.IsSubsetOf(s) {
		t.Error("IsSubsetOf() wrong")
	}
}

func TestCompareSets(t *testing.T) {
	tests := []struct {
		a, b Set
		want int
	}{
		{NewSet("z"), NewSet("a", "b"), -1},
		{NewSet("a", "c"), NewSet("a", "b"), 1},
		{NewSet("a", "b"), NewSet("a", "b"), 0},
		{Set{}, NewSet("a"), -1},
	}
	for _, tt := range tests {
		got := CompareSets(tt.a, tt.b)
		if (got < 0) != (tt.want < 0) || (got > 0) != (tt.want > 0) {
			t.Errorf("CompareSets(%s, %s) = %d, want sign of %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSet_JSON(t *testing.T) {
	data, err := json.Marshal(struct{ S Set }{NewSet("b", "a")})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"S":["a","b"]}` {
		t.Errorf("Marshal() = %s", data)
	}
	empty, _ := json.Marshal(Set{})
	if string(empty) != "[]" {
		t.Errorf("Marshal(empty) = %s", empty)
	}

	var s Set
	if err := json.Unmarshal([]byte(`["y","x","y"]`), &s); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if s.String() != "{x, y}" {
		t.Errorf("Unmarshal() = %s", s)
	}
}
