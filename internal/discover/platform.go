package discover

import (
	"sort"
	"strings"
)

// PlatformSet is an immutable set of platform identifiers such as
// "android-19". Identifiers are compared after trimming whitespace.
type PlatformSet struct {
	ids map[string]struct{}
}

// NewPlatformSet returns a set of the given identifiers. Identifiers that are
// empty after trimming are dropped.
func NewPlatformSet(ids ...string) PlatformSet {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		m[id] = struct{}{}
	}
	return PlatformSet{ids: m}
}

// Len returns the number of platforms in the set.
func (s PlatformSet) Len() int {
	return len(s.ids)
}

// Empty reports whether the set holds no platforms.
func (s PlatformSet) Empty() bool {
	return len(s.ids) == 0
}

// Contains reports whether id is in the set.
func (s PlatformSet) Contains(id string) bool {
	_, ok := s.ids[strings.TrimSpace(id)]
	return ok
}

// Sorted returns the platforms in lexical order.
func (s PlatformSet) Sorted() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same platforms.
func (s PlatformSet) Equal(other PlatformSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (s PlatformSet) String() string {
	return "[" + strings.Join(s.Sorted(), ", ") + "]"
}
