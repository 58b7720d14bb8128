package splot

// IndexSet is a set of sample indices.
type IndexSet map[int]struct{}

// NewIndexSet builds a set from the given indices.
func NewIndexSet(indices ...int) IndexSet {
	s := make(IndexSet, len(indices))
	for _, i := range indices {
		s[i] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s IndexSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// Indices returns the members in unspecified order.
func (s IndexSet) Indices() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	return out
}

// SelectMode controls how Store.Select combines new indices with the
// current selection.
type SelectMode int

const (
	// SelectReplace replaces the selection with the given indices.
	SelectReplace SelectMode = iota
	// SelectAdd adds the given indices to the selection.
	SelectAdd
)

// Store is the selection state shared across chart instances. An engine
// reads it every frame to highlight points and mutates it in response to
// clicks and hovers. Implementations are expected to be driven from a
// single UI goroutine; the engine itself takes no locks.
//
// The store is external by design so that several concurrently mounted
// charts stay in sync: a click in one highlights the same sample in all.
type Store interface {
	// Selected returns the set of selected sample indices.
	Selected() IndexSet
	// Pinned returns the set of pinned sample indices.
	Pinned() IndexSet
	// Hovered returns the hovered sample index, or NoSample.
	Hovered() int

	// Select applies indices to the selection per mode.
	Select(indices []int, mode SelectMode)
	// Toggle flips membership of each index in the selection.
	Toggle(indices []int)
	// Clear empties the selection.
	Clear()
	// SetHovered updates the hovered sample. Pass NoSample to clear.
	SetHovered(index int)
}

// LocalStore is the default Store implementation, used when the caller
// does not supply a shared one.
type LocalStore struct {
	selected IndexSet
	pinned   IndexSet
	hovered  int
}

// NewLocalStore creates an empty selection store.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		selected: make(IndexSet),
		pinned:   make(IndexSet),
		hovered:  NoSample,
	}
}

var _ Store = (*LocalStore)(nil)

// Selected returns the selected set. The returned set is live; callers
// must not mutate it.
func (s *LocalStore) Selected() IndexSet { return s.selected }

// Pinned returns the pinned set.
func (s *LocalStore) Pinned() IndexSet { return s.pinned }

// Hovered returns the hovered sample index, or NoSample.
func (s *LocalStore) Hovered() int { return s.hovered }

// Select applies indices per mode.
func (s *LocalStore) Select(indices []int, mode SelectMode) {
	if mode == SelectReplace {
		s.selected = make(IndexSet, len(indices))
	}
	for _, i := range indices {
		s.selected[i] = struct{}{}
	}
}

// Toggle flips membership of each index.
func (s *LocalStore) Toggle(indices []int) {
	for _, i := range indices {
		if s.selected.Has(i) {
			delete(s.selected, i)
		} else {
			s.selected[i] = struct{}{}
		}
	}
}

// Clear empties the selection.
func (s *LocalStore) Clear() {
	s.selected = make(IndexSet)
}

// SetHovered updates the hovered sample.
func (s *LocalStore) SetHovered(index int) {
	s.hovered = index
}

// SetPinned replaces the pinned set.
func (s *LocalStore) SetPinned(indices []int) {
	s.pinned = NewIndexSet(indices...)
}
