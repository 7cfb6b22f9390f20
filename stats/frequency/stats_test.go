package frequency

import (
	"math"
	"testing"
)

func gaussLine(n int, step, f0, sigma, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		d := (float64(i)*step - f0) / sigma
		out[i] = amp * math.Exp(-d*d/2)
	}
	return out
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCalculateGaussianLine(t *testing.T) {
	v := gaussLine(4000, 0.01, 10, 0.5, 3)
	s := Calculate(v, 0.01, 0, 0)

	if s.Bins != 4000 {
		t.Fatalf("bins=%d, want 4000", s.Bins)
	}
	if !almostEqual(s.Mean, 10, 1e-9) {
		t.Fatalf("mean=%v, want 10", s.Mean)
	}
	if !almostEqual(s.Width, 0.5, 1e-6) {
		t.Fatalf("width=%v, want 0.5", s.Width)
	}
	if want := 2 * math.Sqrt(2*math.Ln2) * 0.5; !almostEqual(s.FWHM, want, 1e-3) {
		t.Fatalf("fwhm=%v, want %v", s.FWHM, want)
	}
	if !almostEqual(s.PeakFreq, 10, 1e-12) || !almostEqual(s.Peak, 3, 1e-12) {
		t.Fatalf("peak %v at %v", s.Peak, s.PeakFreq)
	}
	if want := 3 * 0.5 * math.Sqrt(2*math.Pi); !almostEqual(s.Area, want, 1e-6) {
		t.Fatalf("area=%v, want %v", s.Area, want)
	}
}

func TestCalculateWindowSelectsLine(t *testing.T) {
	v := gaussLine(4000, 0.01, 10, 0.3, 1)
	other := gaussLine(4000, 0.01, 30, 0.3, 5)
	for i := range v {
		v[i] += other[i]
	}

	s := Calculate(v, 0.01, 7, 13)
	if !almostEqual(s.Mean, 10, 1e-6) {
		t.Fatalf("windowed mean=%v, want 10", s.Mean)
	}
	if !almostEqual(s.PeakFreq, 10, 1e-9) {
		t.Fatalf("windowed peak at %v, want 10", s.PeakFreq)
	}

	all := Calculate(v, 0.01, 0, 0)
	if all.Mean < 25 {
		t.Fatalf("full mean=%v should be dominated by the stronger line", all.Mean)
	}
}

func TestNegativeValuesCarryNoWeight(t *testing.T) {
	v := []float64{-5, 0, 1, 2, 1, 0, -5}
	if got := Mean(v, 1); !almostEqual(got, 3, 1e-12) {
		t.Fatalf("mean=%v, want 3", got)
	}
}

func TestEdgeCases(t *testing.T) {
	if s := Calculate(nil, 1, 0, 0); s.Bins != 0 {
		t.Fatalf("empty spectrum: %+v", s)
	}
	if s := Calculate([]float64{1, 2}, 1, 5, 9); s.Bins != 0 {
		t.Fatalf("window outside spectrum: %+v", s)
	}
	if got := FWHM([]float64{0, 0, 0}, 1); got != 0 {
		t.Fatalf("fwhm of zeros=%v", got)
	}
	if got := FWHM([]float64{4, 3, 2}, 1); !almostEqual(got, 2, 1e-12) {
		t.Fatalf("line open at the upper edge: fwhm=%v, want 2", got)
	}
	if got := Width([]float64{0, 0}, 1, 0); got != 0 {
		t.Fatalf("width of zeros=%v", got)
	}
}
