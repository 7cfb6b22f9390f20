package musr

import "fmt"

// RefKind distinguishes what a ParamRef points at.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefParam
	RefFunc
)

// ParamRef references the source of a scalar used by the statistics: either
// a slot of the trial parameter vector or an auxiliary function. Indices are
// zero based. The zero value references nothing.
type ParamRef struct {
	kind  RefKind
	index int
}

// Param references parameter slot i.
func Param(i int) ParamRef { return ParamRef{kind: RefParam, index: i} }

// Func references auxiliary function i.
func Func(i int) ParamRef { return ParamRef{kind: RefFunc, index: i} }

// DecodeRef converts a one-based parameter number of a run description into
// a ParamRef. Numbers >= FuncOffset reference function n-FuncOffset, numbers
// <= 0 reference nothing.
func DecodeRef(n int) ParamRef {
	switch {
	case n >= FuncOffset:
		return Func(n - FuncOffset)
	case n > 0:
		return Param(n - 1)
	default:
		return ParamRef{}
	}
}

// Kind returns the reference kind.
func (r ParamRef) Kind() RefKind { return r.kind }

// Index returns the zero-based parameter or function index.
func (r ParamRef) Index() int { return r.index }

// IsSet reports whether r references anything.
func (r ParamRef) IsSet() bool { return r.kind != RefNone }

// IsParam reports whether r is a direct parameter reference.
func (r ParamRef) IsParam() bool { return r.kind == RefParam }

// Resolve returns the referenced value. funcs is the function value cache of
// the current evaluation. ok is false if r is unset or out of range.
func (r ParamRef) Resolve(par, funcs []float64) (v float64, ok bool) {
	switch r.kind {
	case RefParam:
		if r.index < 0 || r.index >= len(par) {
			return 0, false
		}
		return par[r.index], true
	case RefFunc:
		if r.index < 0 || r.index >= len(funcs) {
			return 0, false
		}
		return funcs[r.index], true
	default:
		return 0, false
	}
}

func (r ParamRef) String() string {
	switch r.kind {
	case RefParam:
		return fmt.Sprintf("par%d", r.index+1)
	case RefFunc:
		return fmt.Sprintf("fun%d", r.index+1)
	default:
		return "-"
	}
}
