package dataset

import "strconv"

// Rating thresholds applied when interpreting raw interaction rows.
const (
	// CohortRating is the minimum rating for a user to count as "liking" a
	// book when the similar-user cohort is assembled.
	CohortRating = 4
	// PositiveRating is the minimum rating for an interaction to count as
	// positive when candidate books are collected and when global
	// popularity is tallied.
	PositiveRating = 3
)

// Expected file names inside the data directory. The books file may also be
// present as a JSONL or Parquet conversion of the gzip dump.
const (
	BooksGzipFile    = "goodreads_books.json.gz"
	BooksJSONLFile   = "goodreads_books.jsonl"
	BooksParquetFile = "goodreads_books.parquet"
	IDMapFile        = "book_id_map.csv"
	InteractionsFile = "goodreads_interactions.csv"
)

// BookRecord mirrors one record of the Goodreads book metadata dump.
// Numeric fields are string-encoded in the source data, matching the raw
// scrape; accessors parse them on demand.
type BookRecord struct {
	BookID        string `json:"book_id" parquet:"book_id"`
	Title         string `json:"title_without_series" parquet:"title_without_series"`
	RatingsCount  string `json:"ratings_count" parquet:"ratings_count"`
	AverageRating string `json:"average_rating" parquet:"average_rating"`
	URL           string `json:"url" parquet:"url"`
}

// Ratings parses the string-encoded ratings count. The second return value
// is false when the field is missing or malformed.
func (r *BookRecord) Ratings() (int, bool) {
	n, err := strconv.Atoi(r.RatingsCount)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// AvgRating parses the string-encoded average rating, returning 0 when the
// field is missing or malformed. A missing average is display-only noise,
// not grounds for dropping the record.
func (r *BookRecord) AvgRating() float64 {
	f, err := strconv.ParseFloat(r.AverageRating, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// Interaction is one (user, book, rating) row with the book id already
// resolved to the canonical catalog id space.
type Interaction struct {
	UserID string
	BookID string
	Rating int
}
