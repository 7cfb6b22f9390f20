// Package amplitude estimates the initial count rate N0 of a single
// histogram and seeds the fit parameter table with it.
package amplitude

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/internal/logging"
	"github.com/cwbudde/algo-musr/musr"
)

// Estimate returns the weighted least squares amplitude of a pure decay
// N0·exp(-(i-t0)·dt/tau) fitted to hist from bin t0 on. hist must already
// be background corrected. Bins with non-positive counts are skipped.
// The result is in counts per raw bin.
func Estimate(hist []float64, t0, dt, tau float64) float64 {
	if tau <= 0 {
		tau = musr.MuonLifetime
	}
	start := max(int(t0), 0)

	var num, den float64
	for i := start; i < len(hist); i++ {
		n := hist[i]
		if n <= 0 {
			continue
		}
		x := math.Exp(-(float64(i) - t0) * dt / tau)
		num += x
		den += x * x / n
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Scale converts a per raw bin amplitude into the normalization used by
// the fit: counts per ns, or counts per packed bin.
func Scale(n0 float64, norm musr.Normalization, packing int, dtNs float64) float64 {
	if norm == musr.PerBin {
		return n0 * float64(max(packing, 1))
	}
	return n0 / dtNs
}

// Apply writes n0 as start value of the normalization parameter. It only
// acts when norm refers directly to a free parameter. The step becomes
// sqrt(|n0|), and a free non-zero background parameter is rescaled by the
// same factor as the normalization. It reports whether the table changed.
func Apply(table musr.ParameterTable, norm, bkg musr.ParamRef, n0 float64, log logrus.FieldLogger) bool {
	log = logging.OrDiscard(log)
	if !norm.IsParam() || norm.Index() >= table.Len() {
		return false
	}
	idx := norm.Index()
	if table.Step(idx) == 0 {
		return false
	}

	old := table.Value(idx)
	table.SetValue(idx, n0)
	table.SetStep(idx, math.Sqrt(math.Abs(n0)))

	fields := logrus.Fields{"param": idx + 1, "old": old, "n0": n0}
	if bkg.IsParam() && bkg.Index() < table.Len() && old != 0 {
		b := bkg.Index()
		if v := table.Value(b); table.Step(b) != 0 && v != 0 {
			table.SetValue(b, v*n0/old)
			fields["bkg"] = table.Value(b)
		}
	}
	log.WithFields(fields).Info("N0 start value estimated")
	return true
}
