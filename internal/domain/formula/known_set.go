package formula

// KnownSet is the ordered, duplicate free list of recipe ids a character knows.
// It is a value type; mutating operations return a new set.
type KnownSet struct {
	ids   []string
	index map[string]struct{}
}

// NewKnownSet builds a set from ids, keeping the first occurrence of duplicates
// and dropping empty ids
func NewKnownSet(ids ...string) KnownSet {
	set := KnownSet{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		set.add(id)
	}
	return set
}

func (s *KnownSet) add(id string) {
	if id == "" {
		return
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// Contains reports whether id is known
func (s KnownSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of known ids
func (s KnownSet) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is known
func (s KnownSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// IDs returns a copy of the ids in insertion order
func (s KnownSet) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Apply returns a new set with remove dropped and add appended, in that order
func (s KnownSet) Apply(remove, add []string) KnownSet {
	drop := make(map[string]struct{}, len(remove))
	for _, id := range remove {
		drop[id] = struct{}{}
	}

	next := NewKnownSet()
	for _, id := range s.ids {
		if _, ok := drop[id]; ok {
			continue
		}
		next.add(id)
	}
	for _, id := range add {
		next.add(id)
	}
	return next
}

// Equal reports whether both sets hold the same ids in the same order
func (s KnownSet) Equal(other KnownSet) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for i := range s.ids {
		if s.ids[i] != other.ids[i] {
			return false
		}
	}
	return true
}
