package host

import (
	"slices"
	"sync"

	"github.com/krisalay/mtime-sort/types"
)

/*
ListStore is an in-memory Collection.

Installing a comparator re-sorts the store right away, the way a sortable tree
model resorts when its default sort function changes. Sorting is stable, so
items that compare equal keep their current relative order.
*/
type ListStore struct {
	mu      sync.Mutex
	items   []types.Item
	builtin types.Comparator
	cmp     types.Comparator
	sorts   int
}

// NewListStore returns an empty store whose builtin order is builtin.
// A nil builtin keeps insertion order.
func NewListStore(builtin types.Comparator) *ListStore {
	return &ListStore{builtin: builtin}
}

// Add appends items and re-sorts.
func (s *ListStore) Add(items ...types.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	s.sortLocked()
}

func (s *ListStore) SetComparator(cmp types.Comparator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmp = cmp
	s.sortLocked()
}

// Sort runs one sort pass with the installed comparator.
func (s *ListStore) Sort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortLocked()
}

// Items returns a copy of the current order.
func (s *ListStore) Items() []types.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Len returns the number of items.
func (s *ListStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sorts returns how many sort passes have run.
func (s *ListStore) Sorts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorts
}

// Custom reports whether a non-nil comparator is installed.
func (s *ListStore) Custom() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmp != nil
}

func (s *ListStore) sortLocked() {
	cmp := s.cmp
	if cmp == nil {
		cmp = s.builtin
	}
	if cmp == nil {
		return
	}
	s.sorts++
	slices.SortStableFunc(s.items, cmp)
}
