// Package theory is a small theory evaluator for single histogram fits:
// a sum of terms, each the product of registered relaxation and
// precession functions. It implements musr.Theory.
package theory

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-musr/musr"
)

var (
	ErrUnknownFunction = errors.New("theory: unknown function")
	ErrArity           = errors.New("theory: wrong number of parameters")
	ErrBadArgument     = errors.New("theory: bad parameter reference")
	ErrEmpty           = errors.New("theory: no functions")
	ErrRefRange        = errors.New("theory: parameter reference out of range")
)

// Component is one function of a term with its parameter references.
type Component struct {
	entry Entry
	refs  []musr.ParamRef
	// vals is filled by Prime and only read by Func.
	vals []float64
}

// NewComponent binds the refs to a registered function.
func NewComponent(e Entry, refs ...musr.ParamRef) (*Component, error) {
	if len(refs) != e.Params {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, e.Name, e.Params, len(refs))
	}
	return &Component{entry: e, refs: refs, vals: make([]float64, len(refs))}, nil
}

// Theory is a sum of products of components.
type Theory struct {
	terms [][]*Component
}

// New returns a theory from its terms.
func New(terms ...[]*Component) *Theory {
	return &Theory{terms: terms}
}

// Prime resolves every parameter reference for the parameter set. It must
// run before Func is called, and not concurrently with it. A reference
// outside par or funcs resolves to NaN; Validate reports it up front.
func (th *Theory) Prime(par, funcs []float64) {
	for _, term := range th.terms {
		for _, c := range term {
			for i, ref := range c.refs {
				v, ok := ref.Resolve(par, funcs)
				if !ok {
					v = math.NaN()
				}
				c.vals[i] = v
			}
		}
	}
}

// Validate checks that every reference addresses one of nPar parameters or
// nFuncs functions.
func (th *Theory) Validate(nPar, nFuncs int) error {
	for _, term := range th.terms {
		for _, c := range term {
			for _, ref := range c.refs {
				limit := nPar
				if ref.Kind() == musr.RefFunc {
					limit = nFuncs
				}
				if ref.Index() < 0 || ref.Index() >= limit {
					return fmt.Errorf("%w: %s %s", ErrRefRange, c.entry.Name, ref)
				}
			}
		}
	}
	return nil
}

// Func evaluates the theory at t from the values cached by Prime.
func (th *Theory) Func(t float64, _, _ []float64) float64 {
	sum := 0.0
	for _, term := range th.terms {
		prod := 1.0
		for _, c := range term {
			prod *= c.entry.Shape(t, c.vals)
		}
		sum += prod
	}
	return sum
}

// Parse builds a theory from text lines of the form
//
//	asymmetry 2
//	TFieldCos 3 fun1
//	+
//	a 4
//	se 5
//
// Numbers are one-based parameter indices, funN refers to function N.
// A line holding "+" starts a new term; "#" starts a comment.
func Parse(lines []string, reg *Registry) (*Theory, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}

	var (
		terms [][]*Component
		cur   []*Component
	)
	for n, line := range lines {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "+" {
			if len(cur) > 0 {
				terms = append(terms, cur)
			}
			cur = nil
			continue
		}

		entry, ok := reg.Lookup(fields[0])
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %s", n+1, ErrUnknownFunction, fields[0])
		}
		refs := make([]musr.ParamRef, 0, len(fields)-1)
		for _, f := range fields[1:] {
			ref, err := parseRef(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
			refs = append(refs, ref)
		}
		c, err := NewComponent(entry, refs...)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		cur = append(cur, c)
	}
	if len(cur) > 0 {
		terms = append(terms, cur)
	}
	if len(terms) == 0 {
		return nil, ErrEmpty
	}
	return New(terms...), nil
}

func parseRef(s string) (musr.ParamRef, error) {
	lower := strings.ToLower(s)
	if rest, ok := strings.CutPrefix(lower, "fun"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return musr.ParamRef{}, fmt.Errorf("%w: %q", ErrBadArgument, s)
		}
		return musr.Func(n - 1), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return musr.ParamRef{}, fmt.Errorf("%w: %q", ErrBadArgument, s)
	}
	return musr.Param(n - 1), nil
}
