package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRelDiff(t *testing.T) {
	if d := RelDiff(0, 0); d != 0 {
		t.Fatalf("RelDiff(0,0) = %v, want 0", d)
	}
	if d := RelDiff(100, 101); math.Abs(d-1.0/101) > 1e-15 {
		t.Fatalf("RelDiff(100,101) = %v", d)
	}
	RequireRelNear(t, 1e6, 1e6+1e-4, 1e-9)
}
