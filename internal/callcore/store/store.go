// Package store holds the in-memory Call Store: a Call-ID index plus a
// sorted list of all retained calls and an O(1) active-call set. It owns
// rotation, clearing, and sort reconfiguration.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sebas/sipwatch/internal/callcore/config"
	"github.com/sebas/sipwatch/internal/callcore/model"
)

// Store is the mutex-guarded call table. The zero value is not usable; call
// New.
type Store struct {
	mu sync.RWMutex

	byCallID map[string]*model.Call
	list     []*model.Call // always kept sorted per sortOpts

	active      map[*model.Call]int // call -> index into activeList
	activeList  []*model.Call

	lastIndex uint64
	capture   config.CaptureOptions
	sortOpts  config.SortOptions

	changed bool
}

// New creates an empty Store with the given capture bounds and initial sort.
// Returns an error if capture describes a retention bound the underlying
// containers cannot be sized for.
func New(capture config.CaptureOptions, sortOpts config.SortOptions) (*Store, error) {
	if capture.Limit < 0 {
		return nil, fmt.Errorf("negative capture limit %d", capture.Limit)
	}
	return &Store{
		byCallID: make(map[string]*model.Call),
		active:   make(map[*model.Call]int),
		capture:  capture,
		sortOpts: sortOpts,
	}, nil
}

// Lookup finds a call by Call-ID.
func (s *Store) Lookup(callID string) (*model.Call, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byCallID[callID]
	return c, ok
}

// Create allocates and inserts a new Call, evicting the oldest unlocked call
// first if the store is at capacity and rotation is enabled. Returns nil if
// the store is full and no slot could be freed (rotation is disabled, or
// every retained call is locked).
func (s *Store) Create(callID, xCallID string, now time.Time) *model.Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture.Limit > 0 && len(s.list) >= s.capture.Limit {
		if !s.capture.Rotate || !s.evictOldestLocked() {
			return nil
		}
	}

	s.lastIndex++
	c := model.NewCall(callID, xCallID, s.lastIndex, now)
	s.byCallID[callID] = c
	s.insertSortedLocked(c)
	s.changed = true
	return c
}

// RotateOnce evicts the oldest unlocked call, if any. A no-op if every
// retained call is locked.
func (s *Store) RotateOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evictOldestLocked() {
		s.changed = true
	}
}

// evictOldestLocked removes the oldest unlocked call from the list and
// indexes. Caller holds s.mu. Reports whether a call was evicted.
func (s *Store) evictOldestLocked() bool {
	victim := -1
	for i, c := range s.list {
		if c.Locked() {
			continue
		}
		if victim < 0 || c.Index < s.list[victim].Index {
			victim = i
		}
	}
	if victim < 0 {
		return false
	}
	c := s.list[victim]
	s.list = append(s.list[:victim], s.list[victim+1:]...)
	delete(s.byCallID, c.CallID)
	s.deactivateLocked(c)
	return true
}

// insertSortedLocked inserts c into s.list keeping it ordered per sortOpts.
// Caller holds s.mu.
func (s *Store) insertSortedLocked(c *model.Call) {
	less := comparator(s.sortOpts)
	i := sort.Search(len(s.list), func(i int) bool {
		return less(c, s.list[i])
	})
	s.list = append(s.list, nil)
	copy(s.list[i+1:], s.list[i:])
	s.list[i] = c
}

// activateLocked adds c to the active set if its state is active.
func (s *Store) activateLocked(c *model.Call) {
	if !c.State.IsActive() {
		return
	}
	if _, ok := s.active[c]; ok {
		return
	}
	s.active[c] = len(s.activeList)
	s.activeList = append(s.activeList, c)
}

// deactivateLocked removes c from the active set via swap-with-last.
func (s *Store) deactivateLocked(c *model.Call) {
	idx, ok := s.active[c]
	if !ok {
		return
	}
	last := len(s.activeList) - 1
	s.activeList[idx] = s.activeList[last]
	s.active[s.activeList[idx]] = idx
	s.activeList = s.activeList[:last]
	delete(s.active, c)
}

// Touch refreshes a call's membership in the active set and its position in
// the sorted list after its state or sort-relevant fields have changed.
func (s *Store) Touch(c *model.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.State.IsActive() {
		s.activateLocked(c)
	} else {
		s.deactivateLocked(c)
	}

	for i, lc := range s.list {
		if lc == c {
			s.list = append(s.list[:i], s.list[i+1:]...)
			break
		}
	}
	s.insertSortedLocked(c)
	s.changed = true
}

// Count returns the number of retained calls.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// ActiveCount returns the number of calls currently in an active state.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activeList)
}

// All returns a snapshot copy of the retained calls in sorted order.
func (s *Store) All() []*model.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Call, len(s.list))
	copy(out, s.list)
	return out
}

// Active returns a snapshot copy of the active calls.
func (s *Store) Active() []*model.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Call, len(s.activeList))
	copy(out, s.activeList)
	return out
}

// IsActive reports whether c is currently in the active set.
func (s *Store) IsActive(c *model.Call) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[c]
	return ok
}

// ClearHard drops every retained call regardless of lock state.
func (s *Store) ClearHard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCallID = make(map[string]*model.Call)
	s.list = nil
	s.active = make(map[*model.Call]int)
	s.activeList = nil
	s.changed = true
}

// ClearSoft drops every retained call for which keep returns false. Locked
// calls are never dropped regardless of keep's verdict.
func (s *Store) ClearSoft(keep func(*model.Call) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.list[:0]
	for _, c := range s.list {
		if c.Locked() || keep(c) {
			kept = append(kept, c)
			continue
		}
		delete(s.byCallID, c.CallID)
		s.deactivateLocked(c)
	}
	s.list = kept
	s.changed = true
}

// SetSort installs a new sort order and re-sorts the retained list.
func (s *Store) SetSort(opts config.SortOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortOpts = opts
	less := comparator(opts)
	sort.SliceStable(s.list, func(i, j int) bool {
		return less(s.list[i], s.list[j])
	})
	s.changed = true
}

// GetSort returns the current sort configuration.
func (s *Store) GetSort() config.SortOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortOpts
}

// ChangedAndReset reports whether the store has mutated since the last call
// to ChangedAndReset, clearing the flag as a side effect.
func (s *Store) ChangedAndReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.changed
	s.changed = false
	return v
}
