package search

import (
	"testing"

	"github.com/lehigh-university-libraries/bookrec/internal/catalog"
)

func hobbitCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Book{
		{ID: "1", Title: "The Hobbit", RatingsCount: 300, AverageRating: 4.28},
		{ID: "2", Title: "Hobbit: Illustrated", RatingsCount: 500, AverageRating: 4.1},
		{ID: "3", Title: "Hobbit", RatingsCount: 50, AverageRating: 4.5},
		{ID: "4", Title: "Dune", RatingsCount: 900, AverageRating: 4.25},
	})
}

func TestSearchPopularEditionFirst(t *testing.T) {
	engine := NewEngine(hobbitCatalog())

	results := engine.Search("hobbit", 10)
	if len(results) < 2 {
		t.Fatalf("Expected at least 2 results, got %d", len(results))
	}

	// Among near-identical titles the popular edition surfaces first.
	pos := make(map[string]int, len(results))
	for i, r := range results {
		pos[r.Book.ID] = i
	}
	for _, id := range []string{"1", "2", "3"} {
		if _, ok := pos[id]; !ok {
			t.Fatalf("Expected book %s in results", id)
		}
	}
	if pos["2"] > pos["3"] {
		t.Errorf("Expected id 2 (500 ratings) before id 3 (50 ratings), got order %v", results)
	}

	if _, ok := pos["4"]; ok {
		t.Error("Dune should not match query 'hobbit'")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	engine := NewEngine(hobbitCatalog())

	if results := engine.Search("", 10); len(results) != 0 {
		t.Errorf("Expected no results for empty query, got %d", len(results))
	}
	if results := engine.Search("   !!!  ", 10); len(results) != 0 {
		t.Errorf("Expected no results for punctuation-only query, got %d", len(results))
	}
}

func TestSearchNoOverlap(t *testing.T) {
	engine := NewEngine(hobbitCatalog())

	if results := engine.Search("zqxwv", 10); len(results) != 0 {
		t.Errorf("Expected no results for out-of-corpus query, got %d", len(results))
	}
}

func TestSearchTopK(t *testing.T) {
	engine := NewEngine(hobbitCatalog())

	results := engine.Search("hobbit", 1)
	if len(results) != 1 {
		t.Fatalf("Expected exactly 1 result, got %d", len(results))
	}

	if results := engine.Search("hobbit", 0); len(results) != 0 {
		t.Errorf("Expected no results for topK=0, got %d", len(results))
	}
}

func TestSearchCommonTermStillMatches(t *testing.T) {
	// Every title shares "the"; smoothed IDF keeps such a query usable
	// instead of zeroing it out.
	cat := catalog.New([]catalog.Book{
		{ID: "1", Title: "The Road", RatingsCount: 100},
		{ID: "2", Title: "The Stand", RatingsCount: 200},
	})
	engine := NewEngine(cat)

	results := engine.Search("the", 10)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results for corpus-common term, got %d", len(results))
	}
}

func TestSearchNormalizationMatchesCorpus(t *testing.T) {
	engine := NewEngine(hobbitCatalog())

	// Punctuation and case differences must not change what matches.
	plain := engine.Search("hobbit illustrated", 10)
	noisy := engine.Search("  HOBBIT: Illustrated!! ", 10)

	if len(plain) != len(noisy) {
		t.Fatalf("Expected identical result counts, got %d and %d", len(plain), len(noisy))
	}
	for i := range plain {
		if plain[i].Book.ID != noisy[i].Book.ID {
			t.Errorf("Result %d differs: %s vs %s", i, plain[i].Book.ID, noisy[i].Book.ID)
		}
	}
}

func TestSearchRareTermDominates(t *testing.T) {
	cat := catalog.New([]catalog.Book{
		{ID: "1", Title: "The Silmarillion", RatingsCount: 100},
		{ID: "2", Title: "The Hobbit", RatingsCount: 100},
		{ID: "3", Title: "The Lord of the Rings", RatingsCount: 100},
	})
	engine := NewEngine(cat)

	results := engine.Search("silmarillion", 10)
	if len(results) == 0 {
		t.Fatal("Expected results for rare term")
	}
	if results[0].Book.ID != "1" {
		t.Errorf("Expected rare-term match first, got %s", results[0].Book.ID)
	}
	for _, r := range results {
		if r.Book.ID != "1" && r.Score >= results[0].Score {
			t.Errorf("Expected book 1 to outscore %s", r.Book.ID)
		}
	}
}
