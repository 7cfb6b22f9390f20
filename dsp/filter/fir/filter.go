package fir

import (
	"math"
	"math/cmplx"
)

// Filter holds the coefficients of a linear-phase FIR filter.
type Filter struct {
	coeffs []float64
}

// New creates a FIR filter from the given coefficient slice.
// The coefficients are copied. The filter order is len(coeffs)-1.
func New(coeffs []float64) *Filter {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return &Filter{coeffs: c}
}

// ApplyCentered returns the zero-phase convolution of src with the
// coefficients, centred on tap (len-1)/2. Near the edges the kernel is
// truncated and renormalized to its remaining sum, so a constant input
// stays constant.
func (f *Filter) ApplyCentered(src []float64) []float64 {
	out := make([]float64, len(src))
	n := len(f.coeffs)
	if n == 0 {
		copy(out, src)
		return out
	}

	half := (n - 1) / 2
	total := 0.0
	for _, c := range f.coeffs {
		total += c
	}

	for i := range src {
		lo := max(0, i+half-len(src)+1)
		hi := min(n, i+half+1)

		var y, used float64
		for k := lo; k < hi; k++ {
			c := f.coeffs[k]
			y += c * src[i+half-k]
			used += c
		}
		if hi-lo < n && used != 0 && total != 0 {
			y *= total / used
		}
		out[i] = y
	}
	return out
}

// Order returns the filter order (len(coeffs) - 1).
func (f *Filter) Order() int {
	return len(f.coeffs) - 1
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter) Coefficients() []float64 {
	c := make([]float64, len(f.coeffs))
	copy(c, f.coeffs)
	return c
}

// Response computes the complex frequency response H(e^{jw}) at the
// normalized angular frequency w in rad/sample.
func (f *Filter) Response(w float64) complex128 {
	var h complex128
	for k, c := range f.coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns the magnitude response in dB at w rad/sample.
func (f *Filter) MagnitudeDB(w float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(w)))
}

// StopbandDB returns the highest magnitude response in dB between w and π
// rad/sample, probed at steps points.
func (f *Filter) StopbandDB(w float64, steps int) float64 {
	worst := math.Inf(-1)
	for i := range steps + 1 {
		x := w + (math.Pi-w)*float64(i)/float64(max(steps, 1))
		worst = max(worst, f.MagnitudeDB(x))
	}
	return worst
}
