package book

import "sort"

// ReadSet is the set of book IDs the user has marked as read.
type ReadSet map[string]struct{}

// NewReadSet builds a set from a list of IDs. Duplicates collapse.
func NewReadSet(ids ...string) ReadSet {
	s := make(ReadSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is marked read.
func (s ReadSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips membership of id and returns the new membership.
func (s ReadSet) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// IDs returns the members sorted for deterministic serialization.
func (s ReadSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the set.
func (s ReadSet) Clone() ReadSet {
	out := make(ReadSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
