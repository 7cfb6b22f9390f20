// Package residual summarises normalized fit residuals r = (data-theory)/σ.
// For a good fit the residuals have zero mean, unit variance and no
// structure; a runs test of their signs detects systematic misfit that the
// chi-square alone can hide.
package residual

import "math"

// Stats summarises a residual series.
type Stats struct {
	N        int
	Mean     float64
	RMS      float64
	Variance float64
	Skewness float64
	// Kurtosis is the excess kurtosis.
	Kurtosis    float64
	MaxAbs      float64
	MaxAbsIndex int
	// Runs is the number of runs of equal sign; zeros are skipped.
	Runs int
	// RunsZ is the Wald-Wolfowitz z-score of Runs. Strongly negative values
	// mean too few sign changes, i.e. correlated residuals.
	RunsZ float64
}

// Calculate summarises r in a single pass.
func Calculate(r []float64) Stats {
	var a Accumulator
	a.Update(r)
	return a.Result()
}

// Accumulator collects residuals block by block with Welford's update of
// the central moments. The zero value is ready for use.
type Accumulator struct {
	n          int
	mean       float64
	m2, m3, m4 float64
	sumSq      float64

	maxAbs    float64
	maxAbsPos int

	pos, neg int
	runs     int
	lastSign int
}

// Update adds a block of residuals.
func (a *Accumulator) Update(r []float64) {
	for _, x := range r {
		a.n++
		ni := float64(a.n)
		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(a.n-1)

		// M4 before M3 before M2.
		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(float64(a.n-1)-1) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN
		a.sumSq += x * x

		if abs := math.Abs(x); abs > a.maxAbs || a.n == 1 {
			a.maxAbs = abs
			a.maxAbsPos = a.n - 1
		}

		sign := 0
		switch {
		case x > 0:
			sign = 1
			a.pos++
		case x < 0:
			sign = -1
			a.neg++
		}
		if sign != 0 && sign != a.lastSign {
			a.runs++
			a.lastSign = sign
		}
	}
}

// Result returns the statistics of everything added so far.
func (a *Accumulator) Result() Stats {
	if a.n == 0 {
		return Stats{}
	}
	nf := float64(a.n)
	s := Stats{
		N:           a.n,
		Mean:        a.mean,
		RMS:         math.Sqrt(a.sumSq / nf),
		Variance:    a.m2 / nf,
		MaxAbs:      a.maxAbs,
		MaxAbsIndex: a.maxAbsPos,
		Runs:        a.runs,
		RunsZ:       runsZ(a.runs, a.pos, a.neg),
	}
	if s.Variance > 0 {
		s.Skewness = (a.m3 / nf) / (s.Variance * math.Sqrt(s.Variance))
		s.Kurtosis = (a.m4/nf)/(s.Variance*s.Variance) - 3
	}
	return s
}

// Reset clears the accumulator.
func (a *Accumulator) Reset() { *a = Accumulator{} }

// runsZ returns (runs-μ)/σ with μ = 2·n₊·n₋/n + 1 and
// σ² = (μ-1)(μ-2)/(n-1). It is 0 when either sign is missing.
func runsZ(runs, pos, neg int) float64 {
	n := float64(pos + neg)
	if pos == 0 || neg == 0 {
		return 0
	}
	mu := 2*float64(pos)*float64(neg)/n + 1
	v := (mu - 1) * (mu - 2) / (n - 1)
	if v <= 0 {
		return 0
	}
	return (float64(runs) - mu) / math.Sqrt(v)
}
