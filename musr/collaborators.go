package musr

// Theory evaluates the physical model shape at time t (µs).
//
// Implementations may keep non thread-safe caches keyed on the parameter
// set. Prime is called once per parameter set before Func is called
// concurrently; Func must only read state prepared by Prime.
type Theory interface {
	Prime(par, funcs []float64)
	Func(t float64, par, funcs []float64) float64
}

// FunctionEvaluator evaluates the auxiliary functions of a fit.
type FunctionEvaluator interface {
	Len() int
	Eval(i int, mapping []int, par []float64, meta Metadata) float64
}

// EvalFunctions fills funcs with all function values. funcs must have
// length fe.Len().
func EvalFunctions(fe FunctionEvaluator, funcs []float64, mapping []int, par []float64, meta Metadata) {
	if fe == nil {
		return
	}
	for i := range funcs {
		funcs[i] = fe.Eval(i, mapping, par, meta)
	}
}

// ParameterTable gives access to the fit parameter descriptions. A zero
// step marks a fixed parameter.
type ParameterTable interface {
	Len() int
	Value(i int) float64
	Step(i int) float64
	SetValue(i int, v float64)
	SetStep(i int, s float64)
}

// Parameter is a single fit parameter description.
type Parameter struct {
	Name  string
	Value float64
	Step  float64
}

// ParamList is a slice backed ParameterTable.
type ParamList []Parameter

func (p ParamList) Len() int                  { return len(p) }
func (p ParamList) Value(i int) float64       { return p[i].Value }
func (p ParamList) Step(i int) float64        { return p[i].Step }
func (p ParamList) SetValue(i int, v float64) { p[i].Value = v }
func (p ParamList) SetStep(i int, s float64)  { p[i].Step = s }

// Values returns the current parameter vector of t.
func Values(t ParameterTable) []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = t.Value(i)
	}
	return out
}
