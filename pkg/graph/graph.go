// Package graph defines the capability interfaces shared between the
// dataset loader, the state reporter and external review graph mining
// algorithms. Algorithm packages provide the concrete implementations.
package graph

// Reviewer represents a reviewer node of a bipartite review graph.
type Reviewer interface {
	Name() string
	AnomalousScore() float64
}

// Product represents a product node of a bipartite review graph.
type Product interface {
	Name() string
	Summary() float64
}

// Builder is the mutating capability the dataset loader consumes.
// Implementations must reject a NewReviewer or NewProduct call for a name
// that already exists in the graph.
type Builder interface {
	NewReviewer(name string) (Reviewer, error)
	NewProduct(name string) (Product, error)
	AddReview(reviewer Reviewer, product Product, score float64, date string) error
}

// State is the read capability the state reporter consumes. The order of
// both collections is implementation defined but must be stable within a
// single run.
type State interface {
	Reviewers() []Reviewer
	Products() []Product
}

// Graph is the full contract an algorithm implementation provides.
// Update advances the algorithm one iteration and reports a convergence
// delta; ok is false when no delta is applicable.
type Graph interface {
	Builder
	State
	Update() (delta float64, ok bool)
}
