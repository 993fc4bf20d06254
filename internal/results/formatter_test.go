package results

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bookrec/internal/catalog"
	"github.com/lehigh-university-libraries/bookrec/internal/recommend"
	"gopkg.in/yaml.v3"
)

func sampleRun() Run {
	recs := []recommend.Recommendation{
		{
			Book:        catalog.Book{ID: "2", Title: "Cohort Favorite", AverageRating: 4.2, URL: "https://example.com/2"},
			Score:       0.42,
			CohortCount: 3,
			CohortSize:  3,
		},
	}
	return NewRun("/data", []string{"1"}, recs)
}

func TestNewRun(t *testing.T) {
	run := sampleRun()

	if run.Config.Directory != "/data" {
		t.Errorf("Expected directory /data, got %q", run.Config.Directory)
	}
	if len(run.Config.LikedBooks) != 1 || run.Config.LikedBooks[0] != "1" {
		t.Errorf("Expected liked books [1], got %v", run.Config.LikedBooks)
	}
	if run.Config.Timestamp == "" {
		t.Error("Expected a timestamp")
	}
	if len(run.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(run.Results))
	}
	r := run.Results[0]
	if r.BookID != "2" || r.Title != "Cohort Favorite" || r.Score != 0.42 {
		t.Errorf("Result fields not carried over: %+v", r)
	}
}

func TestSaveYAML(t *testing.T) {
	t.Chdir(t.TempDir())

	path, err := Save(sampleRun(), "yaml")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(path, ".yaml") {
		t.Errorf("Expected .yaml path, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}

	var loaded Run
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Saved YAML does not parse: %v", err)
	}
	if len(loaded.Results) != 1 || loaded.Results[0].BookID != "2" {
		t.Errorf("Round-tripped run lost results: %+v", loaded)
	}
}

func TestSaveJSON(t *testing.T) {
	t.Chdir(t.TempDir())

	path, err := Save(sampleRun(), "json")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}

	var loaded Run
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Saved JSON does not parse: %v", err)
	}
	if loaded.Config.Directory != "/data" {
		t.Errorf("Round-tripped config lost directory: %+v", loaded.Config)
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	if _, err := Save(sampleRun(), "xml"); err == nil {
		t.Error("Expected error for unsupported format, got nil")
	}
}
