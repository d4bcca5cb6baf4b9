// Package algo is the registry of available review graph mining
// algorithms. This repository registers none itself; algorithm packages
// register their factories at startup and the evaluate command looks them
// up by name.
package algo

import (
	"fmt"
	"sort"

	"github.com/rgmining/amazon-dataset/pkg/graph"
)

// Factory builds a review graph configured with the given parameters.
type Factory func(params map[string]float64) (graph.Graph, error)

// Algorithm describes one registered algorithm. OneShot marks
// non-iterative variants that the driver updates exactly once.
type Algorithm struct {
	Name    string
	OneShot bool
	New     Factory
}

var registry = map[string]Algorithm{}

// Register adds an algorithm to the registry. Registration is programmer
// time wiring, so an empty name, a nil factory or a duplicate name panics.
func Register(a Algorithm) {
	if a.Name == "" {
		panic("algo: algorithm registered with empty name")
	}
	if a.New == nil {
		panic(fmt.Sprintf("algo: algorithm '%s' registered with nil factory", a.Name))
	}
	if _, exists := registry[a.Name]; exists {
		panic(fmt.Sprintf("algo: algorithm with name '%s' already registered", a.Name))
	}
	registry[a.Name] = a
}

// Lookup returns the algorithm registered under name.
func Lookup(name string) (Algorithm, bool) {
	a, ok := registry[name]
	return a, ok
}

// Names returns the registered algorithm names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
