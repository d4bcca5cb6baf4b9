// Package graphtest provides an in-memory graph.Graph implementation for
// tests. It records every interaction and computes nothing itself.
package graphtest

import (
	"errors"
	"fmt"

	"github.com/rgmining/amazon-dataset/pkg/graph"
)

// Reviewer is an in-memory reviewer node with a settable anomaly score.
type Reviewer struct {
	ID    string
	Score float64
}

func (r *Reviewer) Name() string { return r.ID }

func (r *Reviewer) AnomalousScore() float64 { return r.Score }

// Product is an in-memory product node with a settable review summary.
type Product struct {
	ID            string
	ReviewSummary float64
}

func (p *Product) Name() string { return p.ID }

func (p *Product) Summary() float64 { return p.ReviewSummary }

// Review is one recorded edge from a reviewer to a product.
type Review struct {
	Reviewer *Reviewer
	Product  *Product
	Score    float64
	Date     string
}

// Graph implements graph.Graph with insertion-ordered node collections.
// Tests read the exported fields directly; UpdateFunc scripts the deltas
// returned by Update.
type Graph struct {
	ReviewerNodes []*Reviewer
	ProductNodes  []*Product
	Reviews       []Review
	UpdateFunc    func() (float64, bool)

	reviewersByName map[string]*Reviewer
	productsByName  map[string]*Product
}

// New creates an empty in-memory graph.
func New() *Graph {
	return &Graph{
		reviewersByName: map[string]*Reviewer{},
		productsByName:  map[string]*Product{},
	}
}

// NewReviewer creates a reviewer node. Duplicate names are rejected.
func (g *Graph) NewReviewer(name string) (graph.Reviewer, error) {
	if _, exists := g.reviewersByName[name]; exists {
		return nil, fmt.Errorf("reviewer %q already exists", name)
	}
	r := &Reviewer{ID: name}
	g.reviewersByName[name] = r
	g.ReviewerNodes = append(g.ReviewerNodes, r)
	return r, nil
}

// NewProduct creates a product node. Duplicate names are rejected.
func (g *Graph) NewProduct(name string) (graph.Product, error) {
	if _, exists := g.productsByName[name]; exists {
		return nil, fmt.Errorf("product %q already exists", name)
	}
	p := &Product{ID: name}
	g.productsByName[name] = p
	g.ProductNodes = append(g.ProductNodes, p)
	return p, nil
}

// AddReview records an edge between nodes created by this graph.
func (g *Graph) AddReview(reviewer graph.Reviewer, product graph.Product, score float64, date string) error {
	r, ok := reviewer.(*Reviewer)
	if !ok {
		return errors.New("reviewer does not belong to this graph")
	}
	p, ok := product.(*Product)
	if !ok {
		return errors.New("product does not belong to this graph")
	}
	g.Reviews = append(g.Reviews, Review{Reviewer: r, Product: p, Score: score, Date: date})
	return nil
}

// Reviewers returns the reviewer nodes in insertion order.
func (g *Graph) Reviewers() []graph.Reviewer {
	out := make([]graph.Reviewer, len(g.ReviewerNodes))
	for i, r := range g.ReviewerNodes {
		out[i] = r
	}
	return out
}

// Products returns the product nodes in insertion order.
func (g *Graph) Products() []graph.Product {
	out := make([]graph.Product, len(g.ProductNodes))
	for i, p := range g.ProductNodes {
		out[i] = p
	}
	return out
}

// Update delegates to UpdateFunc; without a hook it reports no delta.
func (g *Graph) Update() (float64, bool) {
	if g.UpdateFunc == nil {
		return 0, false
	}
	return g.UpdateFunc()
}
