// Package results writes a recommendation run to a timestamped YAML or
// JSON file so a session's output can be shared or diffed later.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/bookrec/internal/recommend"
	"gopkg.in/yaml.v3"
)

// RunConfig records what produced the results.
type RunConfig struct {
	Directory  string   `yaml:"directory" json:"directory"`
	LikedBooks []string `yaml:"likedbooks" json:"liked_books"`
	Timestamp  string   `yaml:"timestamp" json:"timestamp"`
}

// RunResult is one recommended book.
type RunResult struct {
	BookID        string  `yaml:"bookid" json:"book_id"`
	Title         string  `yaml:"title" json:"title"`
	URL           string  `yaml:"url,omitempty" json:"url,omitempty"`
	Score         float64 `yaml:"score" json:"score"`
	CohortCount   int     `yaml:"cohortcount" json:"cohort_count"`
	CohortSize    int     `yaml:"cohortsize" json:"cohort_size"`
	AverageRating float64 `yaml:"averagerating" json:"average_rating"`
}

// Run is the complete exported document.
type Run struct {
	Config  RunConfig   `yaml:"config" json:"config"`
	Results []RunResult `yaml:"results" json:"results"`
}

// NewRun assembles an export document from a recommendation run.
func NewRun(directory string, likedIDs []string, recs []recommend.Recommendation) Run {
	run := Run{
		Config: RunConfig{
			Directory:  directory,
			LikedBooks: likedIDs,
			Timestamp:  time.Now().Format("2006-01-02_15-04-05"),
		},
		Results: make([]RunResult, 0, len(recs)),
	}
	for _, r := range recs {
		run.Results = append(run.Results, RunResult{
			BookID:        r.Book.ID,
			Title:         r.Book.Title,
			URL:           r.Book.URL,
			Score:         r.Score,
			CohortCount:   r.CohortCount,
			CohortSize:    r.CohortSize,
			AverageRating: r.Book.AverageRating,
		})
	}
	return run
}

// Save writes the run to recs/<timestamp>.<format> and returns the path.
// Supported formats are "yaml" and "json".
func Save(run Run, format string) (string, error) {
	var data []byte
	var err error
	switch format {
	case "yaml":
		data, err = yaml.Marshal(&run)
	case "json":
		data, err = json.MarshalIndent(&run, "", "  ")
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: yaml, json)", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.MkdirAll("recs", 0755); err != nil {
		return "", fmt.Errorf("failed to create recs directory: %w", err)
	}

	filename := filepath.Join("recs", fmt.Sprintf("%s.%s", run.Config.Timestamp, format))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}

	return filename, nil
}
