// Package runner executes named storefront scenarios and records their outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario - a named end-to-end check. DataKey is the fixture record used
// when the caller does not pick one.
type Scenario struct {
	Name        string
	Description string
	DataKey     string

	run func(ctx context.Context, s *Session, key string) error
}

// Registry maps scenario names to scenarios
type Registry struct {
	scenarios map[string]Scenario
}

func NewRegistry(scenarios ...Scenario) *Registry {
	r := &Registry{scenarios: make(map[string]Scenario, len(scenarios))}
	for _, sc := range scenarios {
		r.Register(sc)
	}
	return r
}

// Register - adds or replaces a scenario
func (r *Registry) Register(sc Scenario) {
	r.scenarios[sc.Name] = sc
}

// Lookup - the scenario registered under name
func (r *Registry) Lookup(name string) (Scenario, error) {
	sc, ok := r.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return sc, nil
}

// Names - registered scenario names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenarios - registered scenarios sorted by name
func (r *Registry) Scenarios() []Scenario {
	out := make([]Scenario, 0, len(r.scenarios))
	for _, name := range r.Names() {
		out = append(out, r.scenarios[name])
	}
	return out
}
