package fir

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-musr/internal/testutil"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNew(t *testing.T) {
	coeffs := []float64{0.25, 0.5, 0.25}
	f := New(coeffs)
	if f.Order() != 2 {
		t.Fatalf("Order: got %d, want 2", f.Order())
	}
	coeffs[0] = 999
	if f.coeffs[0] == 999 {
		t.Error("New did not copy coefficients")
	}
	c := f.Coefficients()
	c[1] = 999
	if f.coeffs[1] == 999 {
		t.Error("Coefficients did not return a copy")
	}
}

func TestApplyCentered_NoDelay(t *testing.T) {
	f := New([]float64{0.25, 0.5, 0.25})
	src := []float64{0, 1, 2, 3, 4, 5, 6}

	got := f.ApplyCentered(src)
	// A symmetric kernel passes a ramp unchanged away from the edges.
	for i := 1; i < len(src)-1; i++ {
		if !almostEqual(got[i], src[i], eps) {
			t.Errorf("sample %d: got %v, want %v", i, got[i], src[i])
		}
	}
	if c := f.Coefficients(); c[0] != 0.25 {
		t.Errorf("ApplyCentered changed the coefficients: %v", c)
	}
}

func TestApplyCentered_ConstantPreservedAtEdges(t *testing.T) {
	f := New([]float64{0.1, 0.2, 0.4, 0.2, 0.1})
	got := f.ApplyCentered(testutil.DC(3, 10))
	testutil.RequireSliceNearlyEqual(t, got, testutil.DC(3, 10), eps)
}

func TestApplyCentered_ShortInput(t *testing.T) {
	f := New([]float64{0.1, 0.2, 0.4, 0.2, 0.1})
	got := f.ApplyCentered([]float64{2})
	if len(got) != 1 || !almostEqual(got[0], 2, eps) {
		t.Fatalf("got %v, want [2]", got)
	}
	if out := New(nil).ApplyCentered([]float64{1, 2}); out[1] != 2 {
		t.Fatalf("empty filter must copy input, got %v", out)
	}
}

func TestResponse_DCGain(t *testing.T) {
	f := New([]float64{0.25, 0.5, 0.25})
	if g := cmplx.Abs(f.Response(0)); !almostEqual(g, 1, eps) {
		t.Errorf("DC gain: got %v, want 1", g)
	}
	if g := cmplx.Abs(f.Response(math.Pi)); !almostEqual(g, 0, eps) {
		t.Errorf("Nyquist gain: got %v, want 0", g)
	}
}

func TestMagnitudeDB_MatchesResponse(t *testing.T) {
	f := New([]float64{0.25, 0.5, 0.25})
	for _, w := range []float64{0.01, 0.3, 2} {
		fromResponse := 20 * math.Log10(cmplx.Abs(f.Response(w)))
		if got := f.MagnitudeDB(w); !almostEqual(got, fromResponse, 1e-10) {
			t.Errorf("w=%v: MagnitudeDB=%.15f, ref=%.15f", w, got, fromResponse)
		}
	}
}

func TestLowpass_Design(t *testing.T) {
	var lp Lowpass
	if err := lp.Configure(0.3, 60, 0.1); err != nil {
		t.Fatal(err)
	}
	f := lp.Filter()
	taps := f.Order() + 1
	if taps%2 == 0 {
		t.Fatalf("tap count %d must be odd", taps)
	}

	c := f.Coefficients()
	sum := 0.0
	for i := range c {
		sum += c[i]
		if !almostEqual(c[i], c[len(c)-1-i], 1e-15) {
			t.Fatalf("coefficients not symmetric at %d", i)
		}
	}
	if !almostEqual(sum, 1, 1e-12) {
		t.Fatalf("DC gain %v, want 1", sum)
	}

	// Stop band starts at cutoff + width/2 in units of π.
	for _, w := range []float64{0.4, 0.6, 0.9} {
		if db := f.MagnitudeDB(w * math.Pi); db > -50 {
			t.Errorf("stop band at %.1fπ: %.1f dB", w, db)
		}
	}
	if db := f.StopbandDB(0.4*math.Pi, 200); db > -50 {
		t.Errorf("worst stop band level %.1f dB", db)
	}
	if db := f.MagnitudeDB(0.1 * math.Pi); math.Abs(db) > 0.1 {
		t.Errorf("pass band at 0.1π: %.3f dB", db)
	}
}

func TestStopbandDB(t *testing.T) {
	f := New([]float64{0.25, 0.5, 0.25})
	// |H(w)| = cos²(w/2) falls monotonically, so the worst level is at w.
	w := 0.5 * math.Pi
	if got, want := f.StopbandDB(w, 50), f.MagnitudeDB(w); !almostEqual(got, want, 1e-12) {
		t.Fatalf("StopbandDB=%v, want %v", got, want)
	}
}

func TestLowpass_RemovesTwiceTheCarrier(t *testing.T) {
	const n = 400
	slow := make([]float64, n)
	mixed := make([]float64, n)
	for i := range mixed {
		slow[i] = 0.5 * math.Exp(-float64(i)/300)
		mixed[i] = slow[i] + 0.5*math.Cos(0.8*math.Pi*float64(i))
	}

	var lp Lowpass
	if err := lp.Configure(0.2, 0, 0); err != nil {
		t.Fatal(err)
	}
	got, err := lp.Apply(mixed)
	if err != nil {
		t.Fatal(err)
	}

	for i := 40; i < n-40; i++ {
		if !almostEqual(got[i], slow[i], 2e-3) {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], slow[i])
		}
	}
}

func TestLowpass_Errors(t *testing.T) {
	var lp Lowpass
	if _, err := lp.Apply([]float64{1}); err == nil {
		t.Fatal("expected error before Configure")
	}
	if lp.Filter() != nil {
		t.Fatal("expected nil filter before Configure")
	}
	for _, cutoff := range []float64{0, 1, -0.1, math.NaN()} {
		if err := lp.Configure(cutoff, 60, 0.2); err == nil {
			t.Errorf("cutoff %v: expected error", cutoff)
		}
	}
}
