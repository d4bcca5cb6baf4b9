package amazon

import (
	"archive/zip"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgmining/amazon-dataset/pkg/graph/graphtest"
)

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()

	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}

// writeArchive builds AmazonReviews.zip in a fresh temp dir and returns
// the dir. Entries map archive paths to file bodies.
func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	file, err := os.Create(filepath.Join(dir, "AmazonReviews.zip"))
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer file.Close()

	w := zip.NewWriter(file)
	for name, body := range entries {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(body)); err != nil {
			t.Fatalf("failed to write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
	return dir
}

func loadArchive(t *testing.T, entries map[string]string, categories ...string) *graphtest.Graph {
	t.Helper()

	dir := writeArchive(t, entries)
	t.Setenv("AMAZON_DATASET_DIR", dir)

	g := graphtest.New()
	if err := Load(context.Background(), g, categories...); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return g
}

const cameraEntry = `{
	"ProductInfo": {"ProductID": "P1"},
	"Reviews": [
		{"ReviewID": "R1", "Overall": "5", "Date": "January 1, 2015"},
		{"ReviewID": "R2", "Overall": "abc", "Date": ""}
	]
}`

func TestLoad_ExampleScenario(t *testing.T) {
	g := loadArchive(t, map[string]string{"cameras/P1.json": cameraEntry})

	if len(g.ProductNodes) != 1 || g.ProductNodes[0].ID != "P1" {
		t.Fatalf("expected exactly one product P1, got %+v", g.ProductNodes)
	}
	if len(g.ReviewerNodes) != 1 || g.ReviewerNodes[0].ID != "R1" {
		t.Fatalf("expected exactly one reviewer R1, got %+v", g.ReviewerNodes)
	}
	if len(g.Reviews) != 1 {
		t.Fatalf("expected exactly one review, got %d", len(g.Reviews))
	}
	review := g.Reviews[0]
	if review.Score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", review.Score)
	}
	if review.Date != "20150101" {
		t.Fatalf("expected date 20150101, got %q", review.Date)
	}
}

func TestLoad_ScoreBounds(t *testing.T) {
	g := loadArchive(t, map[string]string{
		"cameras/P1.json": `{
			"ProductInfo": {"ProductID": "P1"},
			"Reviews": [
				{"ReviewID": "R1", "Overall": "1", "Date": ""},
				{"ReviewID": "R2", "Overall": "2", "Date": ""},
				{"ReviewID": "R3", "Overall": "3", "Date": ""},
				{"ReviewID": "R4", "Overall": "4", "Date": ""},
				{"ReviewID": "R5", "Overall": "5", "Date": ""}
			]
		}`,
	})

	if len(g.Reviews) != 5 {
		t.Fatalf("expected 5 reviews, got %d", len(g.Reviews))
	}
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i, review := range g.Reviews {
		if review.Score != want[i] {
			t.Fatalf("review %d: expected score %v, got %v", i, want[i], review.Score)
		}
		if review.Score < 0 || review.Score > 1 {
			t.Fatalf("review %d: score %v outside [0,1]", i, review.Score)
		}
	}
}

func TestLoad_ProductWithoutValidReviews(t *testing.T) {
	g := loadArchive(t, map[string]string{
		"cameras/P1.json": `{
			"ProductInfo": {"ProductID": "P1"},
			"Reviews": [
				{"ReviewID": "R1", "Overall": "n/a", "Date": ""},
				{"ReviewID": "R2", "Overall": "", "Date": ""}
			]
		}`,
	})

	if len(g.ProductNodes) != 0 {
		t.Fatalf("expected no products, got %+v", g.ProductNodes)
	}
	if len(g.ReviewerNodes) != 0 {
		t.Fatalf("expected no reviewers, got %+v", g.ReviewerNodes)
	}
}

func TestLoad_GlobalReviewerDedup(t *testing.T) {
	g := loadArchive(t, map[string]string{
		"cameras/P1.json": `{
			"ProductInfo": {"ProductID": "P1"},
			"Reviews": [{"ReviewID": "R1", "Overall": "4", "Date": ""}]
		}`,
		"laptops/P2.json": `{
			"ProductInfo": {"ProductID": "P2"},
			"Reviews": [{"ReviewID": "R1", "Overall": "2", "Date": ""}]
		}`,
	})

	if len(g.ReviewerNodes) != 1 {
		t.Fatalf("expected one reviewer, got %d", len(g.ReviewerNodes))
	}
	if len(g.Reviews) != 2 {
		t.Fatalf("expected two reviews, got %d", len(g.Reviews))
	}
	if g.Reviews[0].Reviewer != g.Reviews[1].Reviewer {
		t.Fatal("expected both reviews to share the same reviewer node")
	}
}

func TestLoad_CategoryFilter(t *testing.T) {
	entries := map[string]string{
		"cameras/P1.json": `{
			"ProductInfo": {"ProductID": "P1"},
			"Reviews": [{"ReviewID": "R1", "Overall": "5", "Date": ""}]
		}`,
		"laptops/P2.json": `{
			"ProductInfo": {"ProductID": "P2"},
			"Reviews": [
				{"ReviewID": "R2", "Overall": "3", "Date": ""},
				{"ReviewID": "R3", "Overall": "4", "Date": ""}
			]
		}`,
	}

	filtered := loadArchive(t, entries, "cameras")
	if len(filtered.ProductNodes) != 1 || filtered.ProductNodes[0].ID != "P1" {
		t.Fatalf("expected only product P1, got %+v", filtered.ProductNodes)
	}
	if len(filtered.Reviews) != 1 {
		t.Fatalf("expected one review, got %d", len(filtered.Reviews))
	}

	// No filter loads a superset of any strict subset of categories.
	all := loadArchive(t, entries)
	if len(all.Reviews) < len(filtered.Reviews) {
		t.Fatalf("unfiltered load has %d reviews, filtered %d", len(all.Reviews), len(filtered.Reviews))
	}
	if len(all.Reviews) != 3 {
		t.Fatalf("expected 3 reviews without filter, got %d", len(all.Reviews))
	}
}

func TestLoad_ZeroByteEntriesSkipped(t *testing.T) {
	g := loadArchive(t, map[string]string{
		"cameras/":           "",
		"cameras/empty.json": "",
	})

	if len(g.ProductNodes) != 0 || len(g.ReviewerNodes) != 0 || len(g.Reviews) != 0 {
		t.Fatalf("expected untouched graph, got %d products, %d reviewers, %d reviews",
			len(g.ProductNodes), len(g.ReviewerNodes), len(g.Reviews))
	}
}

func TestLoad_DateFallback(t *testing.T) {
	g := loadArchive(t, map[string]string{
		"cameras/P1.json": `{
			"ProductInfo": {"ProductID": "P1"},
			"Reviews": [
				{"ReviewID": "R1", "Overall": "3", "Date": "sometime in 2014"},
				{"ReviewID": "R2", "Overall": "3", "Date": ""}
			]
		}`,
	})

	if len(g.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(g.Reviews))
	}
	if g.Reviews[0].Date != "sometime in 2014" {
		t.Fatalf("expected raw date kept verbatim, got %q", g.Reviews[0].Date)
	}
	if g.Reviews[1].Date != "" {
		t.Fatalf("expected empty date to stay empty, got %q", g.Reviews[1].Date)
	}
}

func TestLoad_MalformedJSONFatal(t *testing.T) {
	dir := writeArchive(t, map[string]string{
		"cameras/P1.json": `{"ProductInfo": {`,
	})
	t.Setenv("AMAZON_DATASET_DIR", dir)

	err := Load(context.Background(), graphtest.New())
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "cameras/P1.json") {
		t.Fatalf("expected error to name the entry, got %v", err)
	}
}

func TestLoad_MissingArchive(t *testing.T) {
	t.Setenv("AMAZON_DATASET_DIR", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	err := Load(context.Background(), graphtest.New())
	if err == nil {
		t.Fatal("expected error for missing archive")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_WorkingDirectoryResolution(t *testing.T) {
	dir := writeArchive(t, map[string]string{"cameras/P1.json": cameraEntry})
	t.Setenv("AMAZON_DATASET_DIR", "")
	chdir(t, dir)

	g := graphtest.New()
	if err := Load(context.Background(), g); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(g.Reviews) != 1 {
		t.Fatalf("expected one review, got %d", len(g.Reviews))
	}
}

func TestLoad_ContextCanceled(t *testing.T) {
	dir := writeArchive(t, map[string]string{"cameras/P1.json": cameraEntry})
	t.Setenv("AMAZON_DATASET_DIR", dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := graphtest.New()
	err := Load(ctx, g)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(g.Reviews) != 0 {
		t.Fatalf("expected no reviews after cancellation, got %d", len(g.Reviews))
	}
}
