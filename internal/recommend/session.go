package recommend

import (
	"errors"
	"sort"
	"sync"

	"github.com/lehigh-university-libraries/bookrec/internal/catalog"
)

// ErrUnknownBook is returned when an id outside the catalog is added to a
// session. The caller reports it and keeps the session alive.
var ErrUnknownBook = errors.New("book id not in catalog")

// Session holds the liked-book set for one interactive session. It is the
// only mutable state in the system; it starts empty and is never persisted.
type Session struct {
	cat   *catalog.Catalog
	mu    sync.RWMutex
	liked map[string]struct{}
}

// NewSession creates an empty session bound to the catalog.
func NewSession(cat *catalog.Catalog) *Session {
	return &Session{
		cat:   cat,
		liked: make(map[string]struct{}),
	}
}

// Add records a liked book. Adding an id already present is a no-op;
// adding an id the catalog does not know returns ErrUnknownBook.
func (s *Session) Add(id string) error {
	if !s.cat.Contains(id) {
		return ErrUnknownBook
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liked[id] = struct{}{}
	return nil
}

// Remove drops a single liked book, reporting whether it was present.
func (s *Session) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.liked[id]; !ok {
		return false
	}
	delete(s.liked, id)
	return true
}

// Reset clears the liked-book set.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liked = make(map[string]struct{})
}

// Len returns the number of liked books.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.liked)
}

// Snapshot returns a copy of the liked-book set. Recommendation runs work
// on the copy, so mid-computation mutations cannot skew a result.
func (s *Session) Snapshot() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.liked))
	for id := range s.liked {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the liked book ids in sorted order for display.
func (s *Session) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.liked))
	for id := range s.liked {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
