package store

import (
	"testing"
	"time"

	"github.com/sebas/sipwatch/internal/callcore/config"
	"github.com/sebas/sipwatch/internal/callcore/model"
)

func newTestStore(t *testing.T, capture config.CaptureOptions, sortOpts config.SortOptions) *Store {
	t.Helper()
	s, err := New(capture, sortOpts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsNegativeLimit(t *testing.T) {
	if _, err := New(config.CaptureOptions{Limit: -1}, config.SortOptions{}); err == nil {
		t.Fatal("expected an error for a negative capture limit")
	}
}

func TestRotationEvictsOldest(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 2, Rotate: true}, config.SortOptions{By: config.SortByIndex, Asc: true})

	now := time.Now()
	s.Create("A", "", now)
	s.Create("B", "", now.Add(time.Second))
	s.Create("C", "", now.Add(2*time.Second))

	if s.Count() != 2 {
		t.Fatalf("count = %d, want 2", s.Count())
	}
	if _, ok := s.Lookup("A"); ok {
		t.Error("A should have been evicted")
	}
	if _, ok := s.Lookup("B"); !ok {
		t.Error("B should remain")
	}
	if _, ok := s.Lookup("C"); !ok {
		t.Error("C should remain")
	}
}

func TestLockedCallSurvivesRotation(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 2, Rotate: true}, config.SortOptions{By: config.SortByIndex, Asc: true})

	now := time.Now()
	a := s.Create("A", "", now)
	a.SetLocked(true)
	s.Create("B", "", now.Add(time.Second))
	s.Create("C", "", now.Add(2*time.Second))
	s.Create("D", "", now.Add(3*time.Second))

	if _, ok := s.Lookup("A"); !ok {
		t.Error("locked call A should survive rotation")
	}
	if _, ok := s.Lookup("B"); ok {
		t.Error("B should have been evicted before C")
	}
}

func TestRotationDisabledWhenLimitZero(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 0, Rotate: true}, config.SortOptions{By: config.SortByIndex, Asc: true})
	now := time.Now()
	for i, id := range []string{"A", "B", "C", "D"} {
		if s.Create(id, "", now.Add(time.Duration(i)*time.Second)) == nil {
			t.Fatalf("Create(%s) returned nil", id)
		}
	}
	if s.Count() != 4 {
		t.Errorf("count = %d, want 4 with rotation disabled", s.Count())
	}
}

func TestRotationFullOfLockedCallsReturnsNil(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{Limit: 1, Rotate: true}, config.SortOptions{By: config.SortByIndex, Asc: true})
	now := time.Now()
	a := s.Create("A", "", now)
	a.SetLocked(true)
	if c := s.Create("B", "", now.Add(time.Second)); c != nil {
		t.Error("Create should return nil when every retained call is locked")
	}
}

func TestClearHard(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{}, config.SortOptions{})
	now := time.Now()
	s.Create("A", "", now)
	s.ClearHard()
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0 after ClearHard", s.Count())
	}
}

func TestClearSoftKeepsLockedRegardlessOfPredicate(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{}, config.SortOptions{})
	now := time.Now()
	a := s.Create("A", "", now)
	a.SetLocked(true)
	s.Create("B", "", now)

	s.ClearSoft(func(c *model.Call) bool { return false })

	if _, ok := s.Lookup("A"); !ok {
		t.Error("locked call A must survive ClearSoft regardless of predicate")
	}
	if _, ok := s.Lookup("B"); ok {
		t.Error("B should have been dropped")
	}
}

func TestSortByIndexDescending(t *testing.T) {
	s := newTestStore(t, config.CaptureOptions{}, config.SortOptions{By: config.SortByIndex, Asc: false})
	now := time.Now()
	s.Create("A", "", now)
	s.Create("B", "", now)

	all := s.All()
	if len(all) != 2 || all[0].CallID != "B" || all[1].CallID != "A" {
		t.Errorf("descending index order wrong: %v", all)
	}
}
