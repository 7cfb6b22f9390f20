package theory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-musr/musr"
)

func TestParseAndEvaluate(t *testing.T) {
	th, err := Parse([]string{
		"asymmetry 1   # amplitude",
		"TFieldCos 2 fun1",
		"se 3",
		"+",
		"a 4",
	}, nil)
	require.NoError(t, err)

	par := []float64{0.2, 30, 0.5, 0.05}
	funcs := []float64{1.5}
	th.Prime(par, funcs)

	for _, tm := range []float64{0, 0.1, 1.7} {
		want := 0.2*math.Cos(2*math.Pi*1.5*tm+math.Pi/6)*math.Exp(-0.5*tm) + 0.05
		assert.InDelta(t, want, th.Func(tm, par, funcs), 1e-14)
	}
}

func TestFuncReadsPrimedValues(t *testing.T) {
	th, err := Parse([]string{"a 1"}, nil)
	require.NoError(t, err)

	th.Prime([]float64{0.3}, nil)
	// Func ignores par; only Prime refreshes the cache.
	assert.InDelta(t, 0.3, th.Func(0, []float64{0.9}, nil), 0)
	th.Prime([]float64{0.9}, nil)
	assert.InDelta(t, 0.9, th.Func(0, nil, nil), 0)
}

func TestDefaultShapes(t *testing.T) {
	reg := DefaultRegistry()
	tests := []struct {
		name string
		p    []float64
		t    float64
		want float64
	}{
		{"simplExpo", []float64{2}, 0.5, math.Exp(-1)},
		{"generExpo", []float64{2, 1}, 0.5, math.Exp(-1)},
		{"simpleGss", []float64{2}, 1, math.Exp(-2)},
		{"statGssKT", []float64{1}, 0, 1},
		{"stg", []float64{1e3}, 1e3, 1.0 / 3.0},
		{"TF", []float64{90, 1}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := reg.Lookup(tt.name)
			require.True(t, ok)
			assert.InDelta(t, tt.want, e.Shape(tt.t, tt.p), 1e-12)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"unknown", []string{"bessel 1 2"}, ErrUnknownFunction},
		{"arity", []string{"TFieldCos 1"}, ErrArity},
		{"zero index", []string{"a 0"}, ErrBadArgument},
		{"bad function", []string{"a funX"}, ErrBadArgument},
		{"empty", []string{"# nothing", "+"}, ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.lines, nil)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegistryDuplicates(t *testing.T) {
	reg := DefaultRegistry()
	err := reg.Register(Entry{Name: "SE", Params: 1, Shape: func(float64, []float64) float64 { return 1 }})
	require.ErrorIs(t, err, errDuplicateFunction)
	require.Error(t, reg.Register(Entry{Name: "x"}))
}

func TestNewComponentRefs(t *testing.T) {
	e, _ := DefaultRegistry().Lookup("tf")
	c, err := NewComponent(e, musr.Param(0), musr.Func(2))
	require.NoError(t, err)
	th := New([]*Component{c})
	th.Prime([]float64{0}, []float64{0, 0, 0.25})
	assert.InDelta(t, -1.0, th.Func(2, nil, nil), 1e-12)
}

func TestValidateRefs(t *testing.T) {
	th, err := Parse([]string{"asymmetry 2", "TFieldCos 3 fun1"}, nil)
	require.NoError(t, err)

	require.NoError(t, th.Validate(3, 1))
	require.ErrorIs(t, th.Validate(1, 1), ErrRefRange)
	require.ErrorIs(t, th.Validate(3, 0), ErrRefRange)
}

func TestPrimeUnresolvedRefIsNaN(t *testing.T) {
	th, err := Parse([]string{"asymmetry 4"}, nil)
	require.NoError(t, err)

	th.Prime([]float64{1, 2}, nil)
	assert.True(t, math.IsNaN(th.Func(0, nil, nil)))

	th.Prime([]float64{1, 2, 3, 0.25}, nil)
	assert.InDelta(t, 0.25, th.Func(0, nil, nil), 1e-12)
}

var _ musr.Theory = (*Theory)(nil)
