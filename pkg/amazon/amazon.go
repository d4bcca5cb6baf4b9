// Package amazon loads the Amazon review dataset into a bipartite review
// graph. The dataset is a zip archive of per-product JSON documents grouped
// by category directories; Load feeds every review to a caller-supplied
// graph through the graph.Builder capability.
package amazon

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rgmining/amazon-dataset/internal/util"
	"github.com/rgmining/amazon-dataset/pkg/graph"
	"github.com/rgmining/amazon-dataset/pkg/logger"
)

const archiveName = "AmazonReviews.zip"

// Dates in the dataset are textual, e.g. "January 2, 2006"; edges carry
// the compact form.
const (
	datasetDateFormat = "January 2, 2006"
	compactDateFormat = "20060102"
)

// Categories lists the product categories the dataset ships.
var Categories = []string{
	"cameras", "laptops", "mobilephone", "tablets", "TVs", "video_surveillance",
}

type reviewRecord struct {
	ReviewID string `json:"ReviewID"`
	Overall  string `json:"Overall"`
	Date     string `json:"Date"`
}

type productRecord struct {
	ProductInfo struct {
		ProductID string `json:"ProductID"`
	} `json:"ProductInfo"`
	Reviews []reviewRecord `json:"Reviews"`
}

// ResolveArchive returns the first existing candidate location of the
// dataset archive: $AMAZON_DATASET_DIR, the working directory, the shared
// installation prefixes, then the user base. The returned error wraps
// fs.ErrNotExist when no candidate exists.
func ResolveArchive() (string, error) {
	var candidates []string
	if dir := util.GetEnv("AMAZON_DATASET_DIR"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, archiveName))
	}
	candidates = append(candidates,
		archiveName,
		filepath.Join("/usr/local/rgmining/data", archiveName),
		filepath.Join("/usr/rgmining/data", archiveName),
	)
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".local", "rgmining", "data", archiveName))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("failed to locate %s: %w", archiveName, fs.ErrNotExist)
}

// Load populates g with the reviews stored in the dataset archive. If
// categories are given, only archive entries under one of those top-level
// directories are processed. Reviews with a malformed rating are dropped;
// malformed JSON aborts the whole load.
func Load(ctx context.Context, g graph.Builder, categories ...string) error {
	path, err := ResolveArchive()
	if err != nil {
		return err
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer archive.Close()

	logger.Info("[Amazon] Loading dataset", "path", path, "categories", len(categories))

	filter := make(map[string]bool, len(categories))
	for _, c := range categories {
		filter[c] = true
	}

	reviewers := map[string]graph.Reviewer{}
	var loaded, dropped int
	for _, entry := range archive.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Zero stored bytes marks a directory entry or an empty placeholder.
		if entry.UncompressedSize64 == 0 {
			continue
		}
		if len(filter) > 0 {
			category, _, _ := strings.Cut(entry.Name, "/")
			if !filter[category] {
				continue
			}
		}

		added, skipped, err := loadEntry(g, entry, reviewers)
		if err != nil {
			return err
		}
		loaded += added
		dropped += skipped
	}

	logger.Info("[Amazon] Dataset loaded",
		"reviewers", len(reviewers), "reviews", loaded, "dropped", dropped)
	return nil
}

func loadEntry(g graph.Builder, entry *zip.File, reviewers map[string]graph.Reviewer) (added, skipped int, err error) {
	fp, err := entry.Open()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer fp.Close()

	var record productRecord
	if err := json.NewDecoder(fp).Decode(&record); err != nil {
		return 0, 0, fmt.Errorf("failed to parse archive entry %s: %w", entry.Name, err)
	}

	// The product node is created on the first valid review only, so a
	// product whose reviews are all malformed never enters the graph.
	var product graph.Product
	for _, r := range record.Reviews {
		rating, parseErr := strconv.ParseFloat(strings.TrimSpace(r.Overall), 64)
		if parseErr != nil {
			logger.Debug("[Amazon] Dropping review with malformed rating",
				"entry", entry.Name, "review", r.ReviewID, "overall", r.Overall)
			skipped++
			continue
		}
		score := (rating - 1) / 4

		date := r.Date
		if date != "" {
			// Unparseable dates are kept verbatim; downstream consumers
			// rely on this fallback.
			if t, parseErr := time.Parse(datasetDateFormat, date); parseErr == nil {
				date = t.Format(compactDateFormat)
			}
		}

		if product == nil {
			product, err = g.NewProduct(record.ProductInfo.ProductID)
			if err != nil {
				return added, skipped, fmt.Errorf("failed to create product %s: %w", record.ProductInfo.ProductID, err)
			}
		}

		// Reviewer identity is global across the whole load.
		reviewer, ok := reviewers[r.ReviewID]
		if !ok {
			reviewer, err = g.NewReviewer(r.ReviewID)
			if err != nil {
				return added, skipped, fmt.Errorf("failed to create reviewer %s: %w", r.ReviewID, err)
			}
			reviewers[r.ReviewID] = reviewer
		}

		if err := g.AddReview(reviewer, product, score, date); err != nil {
			return added, skipped, fmt.Errorf("failed to add review %s: %w", r.ReviewID, err)
		}
		added++
	}
	return added, skipped, nil
}
