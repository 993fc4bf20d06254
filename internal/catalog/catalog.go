package catalog

import (
	"regexp"
	"strings"
)

// Book is one catalog record from the Goodreads metadata dump.
type Book struct {
	ID              string
	Title           string
	NormalizedTitle string
	URL             string
	AverageRating   float64
	RatingsCount    int
}

// Catalog is the immutable in-memory book table. It is built once at load
// time and shared read-only by the search and recommendation engines.
type Catalog struct {
	books []Book
	byID  map[string]int
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeTitle lowercases, strips punctuation, and collapses whitespace.
// The same function is applied to catalog titles at build time and to search
// queries, so the two always tokenize identically.
func NormalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// New builds a catalog from book records, deriving normalized titles.
// When multiple records share an id the first one wins.
func New(books []Book) *Catalog {
	c := &Catalog{
		books: make([]Book, 0, len(books)),
		byID:  make(map[string]int, len(books)),
	}
	for _, b := range books {
		if _, exists := c.byID[b.ID]; exists {
			continue
		}
		b.NormalizedTitle = NormalizeTitle(b.Title)
		c.byID[b.ID] = len(c.books)
		c.books = append(c.books, b)
	}
	return c
}

// Len returns the number of books in the catalog.
func (c *Catalog) Len() int {
	return len(c.books)
}

// Get returns the book with the given id.
func (c *Catalog) Get(id string) (Book, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Book{}, false
	}
	return c.books[i], true
}

// Contains reports whether the catalog has a book with the given id.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// At returns the book at position i in catalog order. Positions are stable
// for the lifetime of the catalog, so engines may use them as document ids.
func (c *Catalog) At(i int) Book {
	return c.books[i]
}
