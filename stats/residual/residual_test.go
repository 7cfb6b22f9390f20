package residual

import (
	"math"
	"math/rand/v2"
	"testing"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCalculateAlternating(t *testing.T) {
	s := Calculate([]float64{1, -1, 1, -1})

	if s.N != 4 || s.Runs != 4 {
		t.Fatalf("n=%d runs=%d, want 4 and 4", s.N, s.Runs)
	}
	if !almostEqual(s.Mean, 0, tolerance) || !almostEqual(s.RMS, 1, tolerance) {
		t.Fatalf("mean=%g rms=%g", s.Mean, s.RMS)
	}
	// μ = 3, σ² = 2/3: four runs are more than expected.
	if want := 1 / math.Sqrt(2.0/3); !almostEqual(s.RunsZ, want, tolerance) {
		t.Fatalf("z=%g, want %g", s.RunsZ, want)
	}
}

func TestCalculateMoments(t *testing.T) {
	r := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	s := Calculate(r)

	if !almostEqual(s.Mean, 5, tolerance) {
		t.Fatalf("mean=%g, want 5", s.Mean)
	}
	if !almostEqual(s.Variance, 4, tolerance) {
		t.Fatalf("variance=%g, want 4", s.Variance)
	}
	if !almostEqual(s.MaxAbs, 9, 0) || s.MaxAbsIndex != 7 {
		t.Fatalf("max |r| %g at %d", s.MaxAbs, s.MaxAbsIndex)
	}
	// Cubed deviations sum to 42 and σ = 2.
	if !almostEqual(s.Skewness, 42.0/8/8, tolerance) {
		t.Fatalf("skewness=%g", s.Skewness)
	}
}

func TestSystematicMisfitHasFewRuns(t *testing.T) {
	r := make([]float64, 200)
	for i := range r {
		r[i] = math.Sin(2 * math.Pi * float64(i) / 100)
	}
	s := Calculate(r)
	if s.Runs > 4 {
		t.Fatalf("runs=%d for a slow oscillation", s.Runs)
	}
	if s.RunsZ > -10 {
		t.Fatalf("z=%g, want strongly negative", s.RunsZ)
	}
}

func TestGaussianNoiseLooksRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	r := make([]float64, 5000)
	for i := range r {
		r[i] = rng.NormFloat64()
	}
	s := Calculate(r)

	if math.Abs(s.Mean) > 0.05 || math.Abs(s.Variance-1) > 0.08 {
		t.Fatalf("mean=%g variance=%g", s.Mean, s.Variance)
	}
	if math.Abs(s.Kurtosis) > 0.3 || math.Abs(s.Skewness) > 0.15 {
		t.Fatalf("skewness=%g kurtosis=%g", s.Skewness, s.Kurtosis)
	}
	if math.Abs(s.RunsZ) > 4 {
		t.Fatalf("z=%g", s.RunsZ)
	}
}

func TestAccumulatorMatchesCalculate(t *testing.T) {
	r := []float64{0.3, -1.2, 0, 2.5, -0.7, -0.1, 1.1}
	want := Calculate(r)

	var a Accumulator
	a.Update(r[:3])
	a.Update(r[3:])
	if got := a.Result(); got != want {
		t.Fatalf("blockwise %+v != %+v", got, want)
	}

	a.Reset()
	if got := a.Result(); got != (Stats{}) {
		t.Fatalf("after reset %+v", got)
	}
}

func TestZerosAreSkippedInRuns(t *testing.T) {
	s := Calculate([]float64{1, 0, 1, 0, -1})
	if s.Runs != 2 {
		t.Fatalf("runs=%d, want 2", s.Runs)
	}
	if s := Calculate([]float64{1, 2, 3}); s.RunsZ != 0 {
		t.Fatalf("single sign z=%g, want 0", s.RunsZ)
	}
}
