package histo

import (
	"math"

	"github.com/cwbudde/algo-musr/musr"
)

// Packed is a histogram rebinned into groups of Packing raw bins.
type Packed struct {
	// Sum holds the background corrected counts of each group.
	Sum []float64
	// Counts holds the raw (uncorrected) counts of each group and drives
	// the statistical errors.
	Counts []float64
	// TimeStart is the centre of the first group relative to t0, in µs.
	TimeStart float64
	// TimeStep is the group width in µs.
	TimeStep float64
	Packing  int
}

// Pack sums complete groups of packing bins of hist over [fgb, lgb).
// raw supplies the counts used for errors and may be nil, in which case
// hist is used. dt is the raw bin width in µs.
func Pack(hist, raw []float64, fgb, lgb int, t0 float64, packing int, dt float64) Packed {
	if packing < 1 {
		packing = 1
	}
	if raw == nil {
		raw = hist
	}
	fgb = max(fgb, 0)
	lgb = min(lgb, len(hist), len(raw))

	n := 0
	if lgb > fgb {
		n = (lgb - fgb) / packing
	}

	p := Packed{
		Sum:       make([]float64, n),
		Counts:    make([]float64, n),
		TimeStart: dt * (float64(fgb) - t0 + float64(packing-1)/2),
		TimeStep:  dt * float64(packing),
		Packing:   packing,
	}
	for k := range n {
		lo := fgb + k*packing
		for j := lo; j < lo+packing; j++ {
			p.Sum[k] += hist[j]
			p.Counts[k] += raw[j]
		}
	}
	return p
}

// Len returns the number of packed groups.
func (p Packed) Len() int { return len(p.Sum) }

// Time returns the centre time of group i in µs.
func (p Packed) Time(i int) float64 { return p.TimeStart + float64(i)*p.TimeStep }

// Variance returns the Poisson variance of group i in raw counts; empty or
// negative groups count as one.
func (p Packed) Variance(i int) float64 {
	if p.Counts[i] <= 0 {
		return 1
	}
	return p.Counts[i]
}

// Normalizer returns the divisor turning summed counts into the chosen
// normalization. dtNs is the raw bin width in ns.
func Normalizer(norm musr.Normalization, packing int, dtNs float64) float64 {
	if norm == musr.PerBin {
		return 1
	}
	return float64(packing) * dtNs
}

// DataSet returns p as fit data in units of norm: values Σ/norm and errors
// sqrt(Σraw/norm), so a chi-square over the set times norm is the chi-square
// in counts.
func (p Packed) DataSet(norm float64) *musr.DataSet {
	ds := &musr.DataSet{
		DataTimeStart: p.TimeStart,
		DataTimeStep:  p.TimeStep,
		Value:         make([]float64, p.Len()),
		Error:         make([]float64, p.Len()),
	}
	for i := range p.Sum {
		ds.Value[i] = p.Sum[i] / norm
		ds.Error[i] = math.Sqrt(p.Variance(i) / norm)
	}
	return ds
}
