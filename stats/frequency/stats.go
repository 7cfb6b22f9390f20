// Package frequency describes a spectral line, typically the field
// distribution seen in the Fourier transform of a precession signal.
package frequency

import "math"

// Stats describes the part of a spectrum inside a frequency window.
type Stats struct {
	Bins     int
	Peak     float64
	PeakFreq float64
	// Mean is the first moment of the line.
	Mean float64
	// Width is the square root of the second central moment.
	Width float64
	// FWHM is the full width at half maximum around the peak.
	FWHM float64
	// Area is Σ v·step.
	Area float64
}

// Calculate computes the line statistics of values, where bin i lies at
// frequency i·step, restricted to [fmin, fmax]. fmax <= fmin selects the
// whole spectrum. Negative values carry no weight in the moments.
func Calculate(values []float64, step, fmin, fmax float64) Stats {
	lo, hi := window(len(values), step, fmin, fmax)
	if hi <= lo {
		return Stats{}
	}
	v := values[lo:hi]
	offset := float64(lo) * step

	s := Stats{Bins: len(v), Peak: v[0], PeakFreq: offset}
	for i, x := range v {
		if x > s.Peak {
			s.Peak = x
			s.PeakFreq = offset + float64(i)*step
		}
		s.Area += x * step
	}
	s.Mean = offset + Mean(v, step)
	s.Width = Width(v, step, s.Mean-offset)
	s.FWHM = FWHM(v, step)
	return s
}

func window(n int, step, fmin, fmax float64) (lo, hi int) {
	if step <= 0 || fmax <= fmin {
		return 0, n
	}
	lo = max(int(math.Ceil(fmin/step)), 0)
	hi = min(int(math.Floor(fmax/step))+1, n)
	return lo, hi
}

// Mean returns the first moment Σ f·v / Σ v with f = i·step.
func Mean(values []float64, step float64) float64 {
	var num, den float64
	for i, v := range values {
		if v <= 0 {
			continue
		}
		num += float64(i) * step * v
		den += v
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Width returns sqrt(Σ (f-mean)²·v / Σ v).
func Width(values []float64, step, mean float64) float64 {
	var num, den float64
	for i, v := range values {
		if v <= 0 {
			continue
		}
		d := float64(i)*step - mean
		num += d * d * v
		den += v
	}
	if den == 0 {
		return 0
	}
	return math.Sqrt(num / den)
}

// FWHM returns the full width at half maximum around the highest bin. The
// half maximum crossings are interpolated linearly between bins; a line
// that does not fall below half maximum is measured to the spectrum edge.
func FWHM(values []float64, step float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	peak := 0
	for i, v := range values {
		if v > values[peak] {
			peak = i
		}
	}
	if values[peak] <= 0 {
		return 0
	}
	half := values[peak] / 2

	lower := 0.0
	for i := peak; i >= 1; i-- {
		if values[i-1] <= half && values[i] > half {
			lower = crossing(i-1, values[i-1], values[i], half)
			break
		}
	}
	upper := float64(n - 1)
	for i := peak; i < n-1; i++ {
		if values[i+1] <= half && values[i] > half {
			upper = crossing(i, values[i], values[i+1], half)
			break
		}
	}

	return max(upper-lower, 0) * step
}

// crossing returns the fractional bin between i and i+1 where the linear
// interpolation of a and b reaches level.
func crossing(i int, a, b, level float64) float64 {
	if a == b {
		return float64(i) + 0.5
	}
	return float64(i) + (level-a)/(b-a)
}
