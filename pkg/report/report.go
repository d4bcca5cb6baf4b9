// Package report serializes the state of a review graph as
// newline-delimited JSON, one record per reviewer and per product.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rgmining/amazon-dataset/pkg/graph"
)

// Final tags the terminal report emitted after the iteration loop ends.
const Final = "final"

// ReviewerState is the payload of a reviewer record.
type ReviewerState struct {
	ReviewerID string  `json:"reviewer_id"`
	Score      float64 `json:"score"`
}

// ReviewerRecord is one emitted line describing a reviewer. Iteration is
// the iteration number or the Final marker, copied verbatim.
type ReviewerRecord struct {
	Iteration any           `json:"iteration" jsonschema:"oneof_type=integer;string"`
	Reviewer  ReviewerState `json:"reviewer"`
}

// ProductState is the payload of a product record.
type ProductState struct {
	ProductID string  `json:"product_id"`
	Summary   float64 `json:"summary"`
}

// ProductRecord is one emitted line describing a product.
type ProductRecord struct {
	Iteration any          `json:"iteration" jsonschema:"oneof_type=integer;string"`
	Product   ProductState `json:"product"`
}

// Write emits the current state of g to w: one JSON line per reviewer,
// then one per product, each tagged with the given iteration. Every line
// is marshaled completely before it reaches w.
func Write(w io.Writer, g graph.State, iteration any) error {
	enc := json.NewEncoder(w)

	for _, r := range g.Reviewers() {
		record := ReviewerRecord{
			Iteration: iteration,
			Reviewer: ReviewerState{
				ReviewerID: r.Name(),
				Score:      r.AnomalousScore(),
			},
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to write reviewer record: %w", err)
		}
	}

	for _, p := range g.Products() {
		record := ProductRecord{
			Iteration: iteration,
			Product: ProductState{
				ProductID: p.Name(),
				Summary:   p.Summary(),
			},
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to write product record: %w", err)
		}
	}
	return nil
}
