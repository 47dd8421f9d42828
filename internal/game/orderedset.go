package game

// OrderedSet keeps the first-seen order of its elements and silently drops
// repeats. Room word lists depend on the order because a round index is a
// position in the list.
type OrderedSet[T comparable] struct {
	items []T
	index map[T]int
}

func NewOrderedSet[T comparable](items ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{index: make(map[T]int)}
	s.Add(items...)
	return s
}

// Add appends the items that are not present yet and reports how many were new.
func (s *OrderedSet[T]) Add(items ...T) int {
	added := 0
	for _, it := range items {
		if _, ok := s.index[it]; ok {
			continue
		}
		s.index[it] = len(s.items)
		s.items = append(s.items, it)
		added++
	}
	return added
}

func (s *OrderedSet[T]) Contains(it T) bool {
	_, ok := s.index[it]
	return ok
}

func (s *OrderedSet[T]) Len() int { return len(s.items) }

// At returns the element at position i, or false when i is out of range.
func (s *OrderedSet[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s.items) {
		return zero, false
	}
	return s.items[i], true
}

// Values returns a copy of the elements in insertion order. Never nil.
func (s *OrderedSet[T]) Values() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
