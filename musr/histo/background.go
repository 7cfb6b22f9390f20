package histo

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/internal/logging"
	"github.com/cwbudde/algo-musr/musr"
)

// Policy selects how the background of a run is handled.
type Policy int

const (
	// BkgFitted leaves the histogram untouched; the background is a fit
	// parameter added to the theory.
	BkgFitted Policy = iota
	// BkgFixed subtracts a user supplied constant from every bin.
	BkgFixed
	// BkgEstimated subtracts the mean over a background interval.
	BkgEstimated
)

func (p Policy) String() string {
	switch p {
	case BkgFitted:
		return "fitted"
	case BkgFixed:
		return "fixed"
	case BkgEstimated:
		return "estimated"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Background is the outcome of background handling.
type Background struct {
	Policy Policy
	// Value is the per-bin background subtracted from the histogram.
	Value float64
	// Err is the sample standard deviation over the estimate interval.
	Err float64
	// Range is the half-open bin interval the estimate was taken from.
	Range musr.BinRange
}

// PolicyFor decides the policy of a run. A fitted background parameter
// wins, then a fixed value (run, then global), then estimation.
func PolicyFor(run *musr.RunBlock, global *musr.GlobalBlock) Policy {
	if run.BkgFit.IsSet() {
		return BkgFitted
	}
	if fixedValue(run, global) != nil {
		return BkgFixed
	}
	return BkgEstimated
}

func fixedValue(run *musr.RunBlock, global *musr.GlobalBlock) *float64 {
	if run.BkgFix != nil {
		return run.BkgFix
	}
	if global != nil && global.BkgFix != nil {
		return global.BkgFix
	}
	return nil
}

// Handle applies the run's background policy to hist in place. An estimated
// background is back-filled into run.BkgEstimated and a heuristic estimate
// range into run.BkgRange. dt is the raw bin width in µs.
func Handle(hist []float64, run *musr.RunBlock, global *musr.GlobalBlock, t0, dt float64, log logrus.FieldLogger) (Background, error) {
	log = logging.OrDiscard(log)
	switch PolicyFor(run, global) {
	case BkgFitted:
		return Background{Policy: BkgFitted}, nil
	case BkgFixed:
		v := *fixedValue(run, global)
		SubtractFixed(hist, v)
		return Background{Policy: BkgFixed, Value: v}, nil
	}

	rng, ok := estimateRange(run, global)
	if !ok {
		rng = musr.BinRange{Start: int(0.1 * t0), End: int(0.6 * t0)}
		log.WithFields(logrus.Fields{
			"run":   run.Name(),
			"start": rng.Start,
			"end":   rng.End,
		}).Warn("no background range given, using [0.1, 0.6]*t0")
		r := rng
		run.BkgRange = &r
	}

	bkg, err := EstimateBackground(hist, rng, run.Facility.BeamPeriod(), dt, log)
	if err != nil {
		return Background{}, fmt.Errorf("run %s: %w", run.Name(), err)
	}
	SubtractFixed(hist, bkg.Value)
	v := bkg.Value
	run.BkgEstimated = &v
	return bkg, nil
}

func estimateRange(run *musr.RunBlock, global *musr.GlobalBlock) (musr.BinRange, bool) {
	if run.BkgRange != nil {
		return *run.BkgRange, true
	}
	if global != nil && global.BkgRange != nil {
		return *global.BkgRange, true
	}
	return musr.BinRange{}, false
}

// SubtractFixed subtracts v from every bin of hist.
func SubtractFixed(hist []float64, v float64) {
	for i := range hist {
		hist[i] -= v
	}
}

// EstimateBackground averages hist over the half-open bin interval rng.
// With a non-zero beam period (µs) the interval end is snapped so it spans
// a whole number of beam cycles; if no full cycle fits, the range is kept.
func EstimateBackground(hist []float64, rng musr.BinRange, period, dt float64, log logrus.FieldLogger) (Background, error) {
	start, end := rng.Start, rng.End
	if end < start {
		log.WithFields(logrus.Fields{"start": start, "end": end}).Warn("background range inverted, swapping")
		start, end = end, start
	}
	if start < 0 || start >= len(hist) {
		return Background{}, fmt.Errorf("%w: start %d, histogram length %d", ErrBackgroundRange, start, len(hist))
	}

	if period > 0 && dt > 0 {
		cycles := int(float64(end-start) * dt / period)
		snapped := start + int(float64(cycles)*period/dt)
		if snapped != start {
			log.WithFields(logrus.Fields{"end": end, "snapped": snapped, "cycles": cycles}).Debug("background range snapped to beam period")
			end = snapped
		}
	}

	if end > len(hist) {
		log.WithFields(logrus.Fields{"end": end, "len": len(hist)}).Warn("background range end beyond histogram, clamping")
		end = len(hist)
	}
	if end <= start {
		end = start + 1
	}

	data := stats.Float64Data(hist[start:end])
	mean, err := stats.Mean(data)
	if err != nil {
		return Background{}, fmt.Errorf("%w: %v", ErrBackgroundRange, err)
	}
	sd := 0.0
	if data.Len() > 1 {
		if sd, err = stats.StandardDeviationSample(data); err != nil {
			sd = 0
		}
	}

	return Background{
		Policy: BkgEstimated,
		Value:  mean,
		Err:    sd,
		Range:  musr.BinRange{Start: start, End: end},
	}, nil
}
