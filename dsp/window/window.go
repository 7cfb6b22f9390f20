// Package window generates the tapering windows used by the µSR Fourier
// transform and by the Kaiser low-pass design.
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeKaiser
	// TypeApodizationWeak, TypeApodizationMedium and TypeApodizationStrong
	// are the one-sided polynomial tapers applied to µSR time spectra
	// before the Fourier transform. They start at 1 at the first sample
	// and decay towards the end of the record.
	TypeApodizationWeak
	TypeApodizationMedium
	TypeApodizationStrong
)

var typeNames = map[Type]string{
	TypeRectangular:       "none",
	TypeHann:              "hann",
	TypeKaiser:            "kaiser",
	TypeApodizationWeak:   "weak",
	TypeApodizationMedium: "medium",
	TypeApodizationStrong: "strong",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType returns the window type for a name produced by Type.String.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknownType, name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha float64
}

func defaultConfig() config {
	return config{alpha: 1}
}

// WithAlpha sets the beta parameter of the Kaiser window.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
		}
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	if poly, ok := apodizationPolynomials[t]; ok {
		for i := range out {
			out[i] = polynomialAt(float64(i)/float64(length), poly)
		}
		return out
	}

	for i := range out {
		x := samplePosition(i, length)
		switch t {
		case TypeHann:
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
		case TypeKaiser:
			out[i] = kaiserAt(x, cfg.alpha)
		default:
			out[i] = 1
		}
	}
	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 || t == TypeRectangular {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0
	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

// samplePosition maps sample n of a symmetric window onto [0, 1].
func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}
	return float64(n) / float64(size-1)
}
