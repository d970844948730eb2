package docs

import "sync/atomic"

// Store holds the currently served index. Each snapshot is immutable; a
// reload replaces the pointer wholesale, so readers always see a complete,
// consistent index and never a partial update.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore creates a store serving the given index.
func NewStore(ix *Index) *Store {
	s := &Store{}
	s.current.Store(ix)
	return s
}

// Current returns the index being served. Never nil for a store created
// with NewStore.
func (s *Store) Current() *Index {
	return s.current.Load()
}

// Replace swaps in a freshly loaded snapshot.
func (s *Store) Replace(ix *Index) {
	s.current.Store(ix)
}
