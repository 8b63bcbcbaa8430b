package entities

// RefSet is an insertion-ordered set of record ids.
type RefSet []string

// NewRefSet builds a set from ids, dropping empty ids and repeats while
// keeping first-seen order.
func NewRefSet(ids ...string) RefSet {
	set := make(RefSet, 0, len(ids))
	for _, id := range ids {
		set = set.Add(id)
	}
	return set
}

// Contains reports whether id is a member.
func (s RefSet) Contains(id string) bool {
	for _, member := range s {
		if member == id {
			return true
		}
	}
	return false
}

// Add returns the set with id appended if it was not already a member.
func (s RefSet) Add(id string) RefSet {
	if id == "" || s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Remove returns the set without id. Removing a non-member is a no-op.
func (s RefSet) Remove(id string) RefSet {
	out := make(RefSet, 0, len(s))
	for _, member := range s {
		if member != id {
			out = append(out, member)
		}
	}
	return out
}
