package recommend

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/bookrec/internal/catalog"
)

func sessionCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Book{
		{ID: "1", Title: "One"},
		{ID: "2", Title: "Two"},
	})
}

func TestSessionAdd(t *testing.T) {
	s := NewSession(sessionCatalog())

	if err := s.Add("1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 liked book, got %d", s.Len())
	}

	// Idempotent: re-adding is a no-op, not an error.
	if err := s.Add("1"); err != nil {
		t.Errorf("Re-adding existing id failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 liked book after duplicate add, got %d", s.Len())
	}
}

func TestSessionAddUnknownBook(t *testing.T) {
	s := NewSession(sessionCatalog())

	err := s.Add("999")
	if !errors.Is(err, ErrUnknownBook) {
		t.Fatalf("Expected ErrUnknownBook, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Unknown id was added to the session")
	}
}

func TestSessionRemove(t *testing.T) {
	s := NewSession(sessionCatalog())
	if err := s.Add("1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if !s.Remove("1") {
		t.Error("Expected Remove to report the id was present")
	}
	if s.Remove("1") {
		t.Error("Expected second Remove to report absence")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty session, got %d", s.Len())
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession(sessionCatalog())
	for _, id := range []string{"1", "2"} {
		if err := s.Add(id); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Expected empty session after reset, got %d", s.Len())
	}
}

func TestSessionSnapshotIsCopy(t *testing.T) {
	s := NewSession(sessionCatalog())
	if err := s.Add("1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	snap := s.Snapshot()
	delete(snap, "1")
	snap["2"] = struct{}{}

	if s.Len() != 1 {
		t.Errorf("Mutating the snapshot changed the session")
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Expected liked ids [1], got %v", got)
	}
}

func TestSessionIDsSorted(t *testing.T) {
	s := NewSession(catalog.New([]catalog.Book{
		{ID: "10", Title: "Ten"},
		{ID: "2", Title: "Two"},
		{ID: "1", Title: "One"},
	}))
	for _, id := range []string{"10", "1", "2"} {
		if err := s.Add(id); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	expected := []string{"1", "10", "2"}
	if got := s.IDs(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
