package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/lehigh-university-libraries/bookrec/internal/catalog"
	"github.com/parquet-go/parquet-go"
)

// Books kept in the catalog need more ratings than this; the long tail of
// near-unrated books only adds noise to title search.
const defaultMinRatings = 25

// Interactions referencing unknown books are dropped with a count. Load
// fails outright when more than this fraction of rows drops, since at that
// point the id map and the interaction file cannot belong together.
const maxDroppedFraction = 0.5

// IntegrityError reports a dataset that cannot be trusted: a required file
// is missing or too many rows failed to resolve against the catalog.
type IntegrityError struct {
	File    string
	Dropped int
	Total   int
	Reason  string
}

func (e *IntegrityError) Error() string {
	if e.Total > 0 {
		return fmt.Sprintf("%s: %s (%d of %d rows dropped)", e.File, e.Reason, e.Dropped, e.Total)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}

// IDMap translates between the interaction file's csv id space and the
// canonical book id space used by the catalog.
type IDMap struct {
	toCanonical map[string]string
	toCSV       map[string]string
}

// Canonical resolves a csv-space id to the canonical book id.
func (m *IDMap) Canonical(csvID string) (string, bool) {
	id, ok := m.toCanonical[csvID]
	return id, ok
}

// CSV resolves a canonical book id back to its csv-space id.
func (m *IDMap) CSV(bookID string) (string, bool) {
	id, ok := m.toCSV[bookID]
	return id, ok
}

// Len returns the number of mapped id pairs.
func (m *IDMap) Len() int {
	return len(m.toCanonical)
}

// Loader reads the three dataset files from a directory and materializes
// the catalog and the interaction index.
type Loader struct {
	dir        string
	minRatings int
}

// NewLoader creates a loader for the given data directory.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:        dir,
		minRatings: defaultMinRatings,
	}
}

// Load materializes the catalog and the interaction index. Every returned
// interaction row resolves to a catalog entry.
func (l *Loader) Load() (*catalog.Catalog, *Index, error) {
	cat, err := l.LoadCatalog()
	if err != nil {
		return nil, nil, err
	}

	idmap, err := l.LoadIDMap()
	if err != nil {
		return nil, nil, err
	}

	ix, err := l.LoadInteractions(idmap, cat)
	if err != nil {
		return nil, nil, err
	}

	return cat, ix, nil
}

// booksPath finds the books file, preferring the gzip dump, then JSONL,
// then a Parquet conversion.
func (l *Loader) booksPath() (string, error) {
	for _, name := range []string{BooksGzipFile, BooksJSONLFile, BooksParquetFile} {
		path := filepath.Join(l.dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", &IntegrityError{
		File:   filepath.Join(l.dir, BooksGzipFile),
		Reason: "books file not found (also tried .jsonl and .parquet)",
	}
}

// LoadCatalog loads the book metadata file and builds the catalog.
func (l *Loader) LoadCatalog() (*catalog.Catalog, error) {
	path, err := l.booksPath()
	if err != nil {
		return nil, err
	}

	var records []BookRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		records, err = l.loadBooksParquet(path)
	default:
		records, err = l.loadBooksJSONL(path)
	}
	if err != nil {
		return nil, err
	}

	books := make([]catalog.Book, 0, len(records))
	skipped := 0
	for _, r := range records {
		ratings, ok := r.Ratings()
		if !ok {
			skipped++
			continue
		}
		if ratings <= l.minRatings {
			skipped++
			continue
		}
		books = append(books, catalog.Book{
			ID:            r.BookID,
			Title:         r.Title,
			URL:           r.URL,
			AverageRating: r.AvgRating(),
			RatingsCount:  ratings,
		})
	}

	cat := catalog.New(books)
	slog.Info("Catalog loaded", "path", path, "books", cat.Len(), "skipped", skipped)
	return cat, nil
}

// loadBooksJSONL streams book records from a JSONL file, gzip-compressed
// or plain.
func (l *Loader) loadBooksJSONL(path string) ([]BookRecord, error) {
	slog.Debug("Opening books file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open books file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	var records []BookRecord
	scanner := bufio.NewScanner(reader)

	// Increase buffer size for large JSON lines
	const maxCapacity = 10 * 1024 * 1024 // 10MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		var record BookRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		records = append(records, record)

		if lineNum%100000 == 0 {
			slog.Debug("Reading books", "lines_read", lineNum)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading books file: %w", err)
	}

	slog.Debug("Finished reading books file", "total_records", len(records), "total_lines", lineNum)
	return records, nil
}

// loadBooksParquet reads book records from a Parquet conversion of the dump.
func (l *Loader) loadBooksParquet(path string) ([]BookRecord, error) {
	slog.Debug("Opening Parquet books file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[BookRecord](pf)
	defer reader.Close()

	var records []BookRecord
	rows := make([]BookRecord, 128) // Read in batches

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet books file", "total_records", len(records))
	return records, nil
}

// LoadIDMap loads the csv id to canonical id mapping file.
func (l *Loader) LoadIDMap() (*IDMap, error) {
	path := filepath.Join(l.dir, IDMapFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, &IntegrityError{File: path, Reason: "id map file not readable"}
	}
	defer file.Close()

	m := &IDMap{
		toCanonical: make(map[string]string),
		toCSV:       make(map[string]string),
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2
	lineNum := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse id map at line %d: %w", lineNum+1, err)
		}
		lineNum++

		// Skip the header row
		if lineNum == 1 && record[0] == "book_id_csv" {
			continue
		}

		m.toCanonical[record[0]] = record[1]
		m.toCSV[record[1]] = record[0]
	}

	slog.Info("ID map loaded", "path", path, "pairs", m.Len())
	return m, nil
}

// LoadInteractions streams the interaction file, resolving csv-space book
// ids through the id map and dropping rows that do not land on a catalog
// entry. Dropped rows are counted; exceeding maxDroppedFraction is fatal.
func (l *Loader) LoadInteractions(idmap *IDMap, cat *catalog.Catalog) (*Index, error) {
	path := filepath.Join(l.dir, InteractionsFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, &IntegrityError{File: path, Reason: "interactions file not readable"}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read interactions header: %w", err)
	}

	userCol, bookCol, ratingCol := -1, -1, -1
	for i, name := range header {
		switch name {
		case "user_id":
			userCol = i
		case "book_id":
			bookCol = i
		case "rating":
			ratingCol = i
		}
	}
	if userCol < 0 || bookCol < 0 || ratingCol < 0 {
		return nil, &IntegrityError{File: path, Reason: "interactions header missing user_id, book_id, or rating"}
	}

	var rows []Interaction
	total := 0
	dropped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse interactions at row %d: %w", total+1, err)
		}
		total++

		rating, err := strconv.Atoi(record[ratingCol])
		if err != nil {
			dropped++
			continue
		}

		bookID, ok := idmap.Canonical(record[bookCol])
		if !ok || !cat.Contains(bookID) {
			dropped++
			continue
		}

		rows = append(rows, Interaction{
			UserID: record[userCol],
			BookID: bookID,
			Rating: rating,
		})

		if total%1000000 == 0 {
			slog.Debug("Reading interactions", "rows_read", total)
		}
	}

	if total > 0 && float64(dropped) > maxDroppedFraction*float64(total) {
		return nil, &IntegrityError{
			File:    path,
			Dropped: dropped,
			Total:   total,
			Reason:  "too many interactions failed to resolve to catalog entries",
		}
	}
	if dropped > 0 {
		slog.Warn("Dropped unresolvable interactions", "dropped", dropped, "total", total)
	}

	ix := NewIndex(rows)
	slog.Info("Interactions loaded", "path", path, "rows", ix.Len(), "users", ix.Users(), "dropped", dropped)
	return ix, nil
}
