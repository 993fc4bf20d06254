// Package search implements fuzzy title search over the catalog using
// TF-IDF term weighting and cosine similarity.
package search

import (
	"math"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/bookrec/internal/catalog"
)

// Similarity selects a pool of this many candidates; popularity orders the
// pool so the best-known edition of a title surfaces first.
const candidatePool = 50

type posting struct {
	doc    int32
	weight float64
}

// Result is one ranked search hit.
type Result struct {
	Book  catalog.Book
	Score float64
}

// Engine holds the inverted index built over normalized catalog titles.
// Building is a one-time cost at startup; queries are pure reads, so the
// engine is safe for concurrent use.
type Engine struct {
	cat      *catalog.Catalog
	postings map[string][]posting
	idf      map[string]float64
	norms    []float64
}

// NewEngine indexes every catalog title. Term weights are tf * idf with
// smoothed inverse document frequency, log((1+N)/(1+df)) + 1, so terms
// appearing in nearly every title contribute little while rare terms
// dominate, and a term present in every title still carries some weight.
func NewEngine(cat *catalog.Catalog) *Engine {
	n := cat.Len()

	// Document frequency per term
	df := make(map[string]int)
	termCounts := make([]map[string]int, n)
	for i := 0; i < n; i++ {
		counts := make(map[string]int)
		for _, term := range strings.Fields(cat.At(i).NormalizedTitle) {
			counts[term]++
		}
		termCounts[i] = counts
		for term := range counts {
			df[term]++
		}
	}

	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	postings := make(map[string][]posting, len(df))
	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		var sumSquares float64
		for term, tf := range termCounts[i] {
			w := float64(tf) * idf[term]
			postings[term] = append(postings[term], posting{doc: int32(i), weight: w})
			sumSquares += w * w
		}
		norms[i] = math.Sqrt(sumSquares)
	}

	return &Engine{
		cat:      cat,
		postings: postings,
		idf:      idf,
		norms:    norms,
	}
}

// Search resolves a free-text query to ranked catalog entries. Cosine
// similarity against the title vectors picks a candidate pool; the pool is
// then ordered by ratings count, average rating, and id, so that among
// near-identical titles the most popular edition wins. Queries with no
// corpus overlap return an empty result, not an error.
func (e *Engine) Search(query string, topK int) []Result {
	if topK <= 0 {
		return nil
	}

	// The query goes through the same normalizer as the corpus titles.
	terms := strings.Fields(catalog.NormalizeTitle(query))
	if len(terms) == 0 {
		return nil
	}

	queryCounts := make(map[string]int)
	for _, term := range terms {
		queryCounts[term]++
	}

	// Accumulate dot products through the posting lists. Terms unseen in
	// the corpus simply contribute nothing.
	scores := make(map[int32]float64)
	var queryNorm float64
	for term, tf := range queryCounts {
		idf, ok := e.idf[term]
		if !ok {
			continue
		}
		qw := float64(tf) * idf
		queryNorm += qw * qw
		for _, p := range e.postings[term] {
			scores[p.doc] += qw * p.weight
		}
	}
	if len(scores) == 0 {
		return nil
	}
	queryNorm = math.Sqrt(queryNorm)

	results := make([]Result, 0, len(scores))
	for doc, dot := range scores {
		norm := e.norms[doc]
		if norm == 0 {
			continue
		}
		results = append(results, Result{
			Book:  e.cat.At(int(doc)),
			Score: dot / (norm * queryNorm),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Book.ID < b.Book.ID
	})

	pool := candidatePool
	if topK > pool {
		pool = topK
	}
	if len(results) > pool {
		results = results[:pool]
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Book.RatingsCount != b.Book.RatingsCount {
			return a.Book.RatingsCount > b.Book.RatingsCount
		}
		if a.Book.AverageRating != b.Book.AverageRating {
			return a.Book.AverageRating > b.Book.AverageRating
		}
		return a.Book.ID < b.Book.ID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
