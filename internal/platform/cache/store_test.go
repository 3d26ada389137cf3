package cache

import (
	"testing"
	"time"
)

func TestStore_PutThenGet_ReturnsFreshValue(t *testing.T) {
	s := NewStore()

	s.Put("player:kappa", "value-1")

	got, ok := s.Get("player:kappa", time.Minute)
	if !ok {
		t.Fatal("expected fresh entry to be present")
	}
	if got != "value-1" {
		t.Errorf("expected value-1, got %v", got)
	}
}

func TestStore_Get_StaleEntryBehavesAsAbsentButStays(t *testing.T) {
	s := NewStore()

	s.Put("stats", 42)

	// Let real time pass beyond a tiny TTL.
	time.Sleep(5 * time.Millisecond)

	if _, ok := s.Get("stats", time.Millisecond); ok {
		t.Error("expected stale entry to be reported absent")
	}

	// Expiry is a read-time judgment: the entry is still physically there.
	if s.Len() != 1 {
		t.Errorf("expected stale entry to remain in store, Len=%d", s.Len())
	}

	// A longer TTL still sees it.
	if _, ok := s.Get("stats", time.Minute); !ok {
		t.Error("expected entry to be fresh under a longer TTL")
	}
}

func TestStore_Put_OverwritesAndResetsStoredAt(t *testing.T) {
	s := NewStore()

	s.Put("item:5447a9cd4bdc2dbd208b4567", "old")
	time.Sleep(5 * time.Millisecond)
	s.Put("item:5447a9cd4bdc2dbd208b4567", "new")

	got, ok := s.Get("item:5447a9cd4bdc2dbd208b4567", 4*time.Millisecond)
	if !ok {
		t.Fatal("expected rewritten entry to be fresh again")
	}
	if got != "new" {
		t.Errorf("expected new, got %v", got)
	}
	if s.Len() != 1 {
		t.Errorf("overwrite must replace, not add: Len=%d", s.Len())
	}
}

func TestStore_Invalidate_ReportsExistence(t *testing.T) {
	s := NewStore()

	s.Put("ban:prapor", true)

	if !s.Invalidate("ban:prapor") {
		t.Error("expected existed=true for stored key")
	}
	if s.Invalidate("ban:prapor") {
		t.Error("expected existed=false for already removed key")
	}
	if s.Invalidate("ban:never-stored") {
		t.Error("expected existed=false for unknown key")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, Len=%d", s.Len())
	}
}

func TestStore_InvalidateAll_ReturnsPriorSizeAndEmptiesStore(t *testing.T) {
	s := NewStore()

	s.Put("a", 1)
	s.Put("b", 2)
	s.Put("c", 3)

	if removed := s.InvalidateAll(); removed != 3 {
		t.Errorf("expected removed=3, got %d", removed)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, Len=%d", s.Len())
	}

	// Clearing an empty store removes nothing.
	if removed := s.InvalidateAll(); removed != 0 {
		t.Errorf("expected removed=0 on empty store, got %d", removed)
	}
}
