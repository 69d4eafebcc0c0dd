package dag

import (
	"encoding/json"
	"slices"
	"strings"
)

// Set is an immutable, sorted, duplicate-free collection of node IDs. It is
// used for conditioning sets, adjustment sets and ancestor closures.
//
// The zero value is the empty set.
type Set struct {
	ids []string
}

// NewSet returns a set holding the given IDs.
func NewSet(ids ...string) Set {
	if len(ids) == 0 {
		return Set{}
	}
	s := slices.Clone(ids)
	slices.Sort(s)
	return Set{ids: slices.Compact(s)}
}

// Has reports whether id is a member.
func (s Set) Has(id string) bool {
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

// Len returns the number of members.
func (s Set) Len() int { return len(s.ids) }

// Empty reports whether the set has no members.
func (s Set) Empty() bool { return len(s.ids) == 0 }

// IDs returns the members in ascending order.
func (s Set) IDs() []string { return slices.Clone(s.ids) }

// Union returns the members of s or o.
func (s Set) Union(o Set) Set {
	if o.Empty() {
		return s
	}
	if s.Empty() {
		return o
	}
	out := make([]string, 0, len(s.ids)+len(o.ids))
	i, j := 0, 0
	for i < len(s.ids) && j < len(o.ids) {
		switch {
		case s.ids[i] < o.ids[j]:
			out = append(out, s.ids[i])
			i++
		case s.ids[i] > o.ids[j]:
			out = append(out, o.ids[j])
			j++
		default:
			out = append(out, s.ids[i])
			i++
			j++
		}
	}
	out = append(out, s.ids[i:]...)
	out = append(out, o.ids[j:]...)
	return Set{ids: out}
}

// Intersect returns the members of s that are also in o.
func (s Set) Intersect(o Set) Set {
	var out []string
	for _, id := range s.ids {
		if o.Has(id) {
			out = append(out, id)
		}
	}
	return Set{ids: out}
}

// Without returns s minus the given IDs.
func (s Set) Without(ids ...string) Set {
	var out []string
	for _, id := range s.ids {
		if !slices.Contains(ids, id) {
			out = append(out, id)
		}
	}
	return Set{ids: out}
}

// With returns s plus the given IDs.
func (s Set) With(ids ...string) Set { return s.Union(NewSet(ids...)) }

// IsSubsetOf reports whether every member of s is in o.
func (s Set) IsSubsetOf(o Set) bool {
	for _, id := range s.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// Equal reports whether both sets have the same members.
func (s Set) Equal(o Set) bool { return slices.Equal(s.ids, o.ids) }

// String renders the set as "{a, b}".
func (s Set) String() string {
	return "{" + strings.Join(s.ids, ", ") + "}"
}

// MarshalJSON encodes the set as a sorted array. The empty set is [].
func (s Set) MarshalJSON() ([]byte, error) {
	if s.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ids)
}

// UnmarshalJSON decodes an array of IDs.
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSet(ids...)
	return nil
}

// CompareSets orders sets by size, then lexicographically by members. It is
// the order adjustment sets are reported in.
func CompareSets(a, b Set) int {
	if a.Len() != b.Len() {
		return a.Len() - b.Len()
	}
	return slices.Compare(a.ids, b.ids)
}
