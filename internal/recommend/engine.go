// Package recommend implements user-cohort collaborative filtering: find
// the users who liked what the session likes, then rank what else that
// cohort likes, damped by how popular each candidate is globally.
package recommend

import (
	"math"
	"sort"

	"github.com/lehigh-university-libraries/bookrec/internal/catalog"
	"github.com/lehigh-university-libraries/bookrec/internal/dataset"
)

// Recommendation is one scored candidate book.
type Recommendation struct {
	Book        catalog.Book
	Score       float64
	CohortCount int
	CohortSize  int
}

// Engine scores candidate books for a liked-book set. It only reads the
// catalog and the interaction index, so one engine serves any number of
// sequential recommendation requests.
type Engine struct {
	cat        *catalog.Catalog
	idx        *dataset.Index
	minSupport int
}

// NewEngine creates a recommendation engine. Candidates liked by fewer
// than minSupport cohort members are discarded; values below 1 are
// treated as 1.
func NewEngine(cat *catalog.Catalog, idx *dataset.Index, minSupport int) *Engine {
	if minSupport < 1 {
		minSupport = 1
	}
	return &Engine{
		cat:        cat,
		idx:        idx,
		minSupport: minSupport,
	}
}

// Recommend ranks books for the given liked set. An empty liked set, an
// empty cohort, or an empty candidate set all yield an empty result;
// none of those are errors. Books in the liked set are never returned.
//
// The score rewards affinity concentrated in the cohort and damps broadly
// popular books:
//
//	score = (cohortCount / cohortSize) / log(e + globalPositive)
//
// log(e+0) = 1, so a book unknown outside the cohort keeps its full
// affinity. Output is deterministic for fixed inputs: counts accumulate
// commutatively and every sort ends in an id tie-break.
func (e *Engine) Recommend(liked map[string]struct{}, topK int) []Recommendation {
	if topK <= 0 || len(liked) == 0 {
		return nil
	}

	// Cohort discovery: users with a strong rating on any liked book.
	cohort := make(map[string]struct{})
	for id := range liked {
		e.idx.BookRows(id, func(r dataset.Interaction) {
			if r.Rating >= dataset.CohortRating {
				cohort[r.UserID] = struct{}{}
			}
		})
	}
	if len(cohort) == 0 {
		return nil
	}
	cohortSize := float64(len(cohort))

	// Candidate collection: positive cohort interactions, minus the books
	// already liked.
	counts := make(map[string]int)
	for user := range cohort {
		e.idx.UserRows(user, func(r dataset.Interaction) {
			if r.Rating < dataset.PositiveRating {
				return
			}
			if _, ok := liked[r.BookID]; ok {
				return
			}
			counts[r.BookID]++
		})
	}

	recs := make([]Recommendation, 0, len(counts))
	for id, count := range counts {
		if count < e.minSupport {
			continue
		}
		book, ok := e.cat.Get(id)
		if !ok {
			continue
		}
		affinity := float64(count) / cohortSize
		damping := math.Log(math.E + float64(e.idx.GlobalPositive(id)))
		recs = append(recs, Recommendation{
			Book:        book,
			Score:       affinity / damping,
			CohortCount: count,
			CohortSize:  len(cohort),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Book.AverageRating != b.Book.AverageRating {
			return a.Book.AverageRating > b.Book.AverageRating
		}
		return a.Book.ID < b.Book.ID
	})

	if len(recs) > topK {
		recs = recs[:topK]
	}
	return recs
}
