package store

import (
	"iter"

	"github.com/sebas/sipwatch/internal/callcore/model"
)

// AllIter returns a fresh iterator over the retained calls in current sort
// order. Each call to AllIter yields an independent snapshot; ranging the
// same iterator again replays that snapshot.
func (s *Store) AllIter() iter.Seq[*model.Call] {
	calls := s.All()
	return func(yield func(*model.Call) bool) {
		for _, c := range calls {
			if !yield(c) {
				return
			}
		}
	}
}

// ActiveIter returns a fresh iterator over a snapshot of the active calls.
func (s *Store) ActiveIter() iter.Seq[*model.Call] {
	calls := s.Active()
	return func(yield func(*model.Call) bool) {
		for _, c := range calls {
			if !yield(c) {
				return
			}
		}
	}
}
