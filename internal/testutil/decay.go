package testutil

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Decay describes a synthetic single-histogram decay spectrum.
type Decay struct {
	Bins int
	T0   int
	// Dt is the bin width in µs.
	Dt  float64
	N0  float64
	Tau float64
	Bkg float64
	// Shape is the asymmetry term A(t); nil means no signal.
	Shape func(t float64) float64
}

// Expected returns the noiseless counts of bin i:
// N0 exp(-t/tau) (1 + A(t)) + bkg for bins at or after t0, bkg before.
func (d Decay) Expected(i int) float64 {
	if i < d.T0 {
		return d.Bkg
	}
	t := float64(i-d.T0) * d.Dt
	a := 0.0
	if d.Shape != nil {
		a = d.Shape(t)
	}
	return d.N0*math.Exp(-t/d.Tau)*(1+a) + d.Bkg
}

// Histogram returns the noiseless histogram.
func (d Decay) Histogram() []float64 {
	out := make([]float64, d.Bins)
	for i := range out {
		out[i] = d.Expected(i)
	}
	return out
}

// PoissonHistogram returns a histogram with Poisson noise drawn from a
// fixed seed.
func (d Decay) PoissonHistogram(seed uint64) []float64 {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	out := make([]float64, d.Bins)
	for i := range out {
		lambda := d.Expected(i)
		if lambda <= 0 {
			continue
		}
		out[i] = distuv.Poisson{Lambda: lambda, Src: src}.Rand()
	}
	return out
}

// Precession returns A(t) = asym cos(omega t + phase) with phase in degrees.
func Precession(asym, omega, phaseDeg float64) func(float64) float64 {
	phi := phaseDeg * math.Pi / 180
	return func(t float64) float64 {
		return asym * math.Cos(omega*t+phi)
	}
}

// DC returns a constant-valued slice.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
