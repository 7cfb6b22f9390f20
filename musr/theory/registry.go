package theory

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Shape evaluates one theory function at time t (µs) for resolved
// parameter values p.
type Shape func(t float64, p []float64) float64

// Entry describes one registered theory function.
type Entry struct {
	Name   string
	Abbrev string
	// Params is the number of parameters the function takes.
	Params int
	Shape  Shape
}

// Registry maps theory function names and abbreviations to entries.
type Registry struct {
	entries map[string]Entry
}

var errDuplicateFunction = errors.New("theory: duplicate function")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds e under its name and abbreviation. Lookups ignore case.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.Shape == nil {
		return errors.New("theory: entry needs a name and a shape")
	}
	keys := []string{strings.ToLower(e.Name)}
	if e.Abbrev != "" {
		keys = append(keys, strings.ToLower(e.Abbrev))
	}
	for _, k := range keys {
		if _, exists := r.entries[k]; exists {
			return fmt.Errorf("%w: %s", errDuplicateFunction, k)
		}
	}
	for _, k := range keys {
		r.entries[k] = e
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the entry for a name or abbreviation.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[strings.ToLower(name)]
	return e, ok
}

// DefaultRegistry returns a registry with the standard relaxation and
// precession functions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Entry{Name: "asymmetry", Abbrev: "a", Params: 1, Shape: func(_ float64, p []float64) float64 {
		return p[0]
	}})
	r.MustRegister(Entry{Name: "simplExpo", Abbrev: "se", Params: 1, Shape: func(t float64, p []float64) float64 {
		return math.Exp(-p[0] * t)
	}})
	r.MustRegister(Entry{Name: "generExpo", Abbrev: "ge", Params: 2, Shape: func(t float64, p []float64) float64 {
		return math.Exp(-math.Pow(math.Abs(p[0]*t), p[1]))
	}})
	r.MustRegister(Entry{Name: "simpleGss", Abbrev: "sg", Params: 1, Shape: func(t float64, p []float64) float64 {
		x := p[0] * t
		return math.Exp(-0.5 * x * x)
	}})
	r.MustRegister(Entry{Name: "statGssKT", Abbrev: "stg", Params: 1, Shape: func(t float64, p []float64) float64 {
		x := p[0] * t
		x *= x
		return 1.0/3.0 + 2.0/3.0*(1-x)*math.Exp(-0.5*x)
	}})
	r.MustRegister(Entry{Name: "TFieldCos", Abbrev: "tf", Params: 2, Shape: func(t float64, p []float64) float64 {
		return math.Cos(2*math.Pi*p[1]*t + p[0]*math.Pi/180)
	}})
	return r
}
