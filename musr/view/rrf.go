package view

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/dsp/filter/fir"
	"github.com/cwbudde/algo-musr/dsp/spectrum"
	"github.com/cwbudde/algo-musr/internal/logging"
	"github.com/cwbudde/algo-musr/musr"
)

// maxCutoff bounds the theory low-pass cutoff as a fraction of the RRF
// Nyquist frequency.
const maxCutoff = 0.95

// LowPass smooths the demodulated theory. cutoff is a fraction of the
// Nyquist frequency of the RRF grid.
type LowPass interface {
	Configure(cutoff, attenuationDB, width float64) error
	Apply(x []float64) ([]float64, error)
}

// BuildRRF returns the display data set in the rotating reference frame.
// The lifetime corrected asymmetry A(t) is multiplied by 2cos(ωt+φ),
// averaged over groups of the RRF packing (errors sqrt(2Σe²)/p), and the
// theory A(t)·2cos(ωt+φ) is averaged on the same grid and then low-pass
// filtered at the RRF frequency. A nil lp selects a Kaiser windowed-sinc.
func BuildRRF(src Source, m Model, rrf *musr.RRFSettings, lp LowPass, log logrus.FieldLogger) (*musr.DataSet, error) {
	log = logging.OrDiscard(log)
	if rrf == nil || rrf.Frequency == 0 {
		return nil, ErrNoRRF
	}
	if rrf.Packing < 1 {
		return nil, fmt.Errorf("%w: %d", ErrRRFPacking, rrf.Packing)
	}
	if lp == nil {
		lp = &fir.Lowpass{}
	}

	p := rrf.Packing
	dt := src.dt()
	lgb := min(src.LGB, len(src.Hist), len(src.Raw))
	n := 0
	if lgb > src.FGB {
		n = (lgb - src.FGB) / p
	}
	if src.FGB < 0 || n == 0 {
		return nil, ErrEmptyView
	}

	env, err := m.Refs.Resolve(m.Par, m.Funcs)
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}
	n0 := src.perRawBin(env.N0)
	bkg := src.perRawBin(env.Bkg)
	if n0 == 0 {
		return nil, ErrZeroNorm
	}

	omega := musr.AngularFrequency(rrf.Frequency, rrf.Unit)
	phi := rrf.Phase * math.Pi / 180

	m.Theory.Prime(m.Par, m.Funcs)

	asym := make([]float64, n*p)
	ds := &musr.DataSet{
		DataTimeStart: dt * (float64(src.FGB) - src.T0 + float64(p-1)/2),
		DataTimeStep:  dt * float64(p),
		Value:         make([]float64, n),
		Error:         make([]float64, n),
	}
	theory := make([]float64, n)
	for k := range n {
		var sum, errSq, th float64
		for j := src.FGB + k*p; j < src.FGB+(k+1)*p; j++ {
			t := (float64(j) - src.T0) * dt
			ex := math.Exp(t / env.Tau)
			a := (src.Hist[j]-bkg)*ex/n0 - 1
			asym[j-src.FGB] = a
			carrier := 2 * math.Cos(omega*t+phi)

			sum += a * carrier
			e := ex / n0
			errSq += e * e * math.Max(src.Raw[j], 1)
			th += m.Theory.Func(t, m.Par, m.Funcs) * carrier
		}
		ds.Value[k] = sum / float64(p)
		ds.Error[k] = math.Sqrt(2*errSq) / float64(p)
		theory[k] = th / float64(p)
	}

	cutoff := omega * ds.DataTimeStep / math.Pi
	if cutoff >= maxCutoff {
		log.WithFields(logrus.Fields{"cutoff": cutoff, "packing": p}).
			Warn("RRF frequency at or above the Nyquist frequency of the RRF grid, clamping the theory low pass")
		cutoff = maxCutoff
	}
	if err := lp.Configure(cutoff, rrf.Attenuation, rrf.TransitionWidth); err != nil {
		return nil, fmt.Errorf("view: low pass: %w", err)
	}
	if ds.Theory, err = lp.Apply(theory); err != nil {
		return nil, fmt.Errorf("view: low pass: %w", err)
	}
	ds.TheoryTimeStart = ds.DataTimeStart
	ds.TheoryTimeStep = ds.DataTimeStep

	logMainFrequency(asym, dt, omega, log)
	return ds, nil
}

// logMainFrequency reports the dominant precession frequency of the
// asymmetry and the RRF packing that samples the remaining beat with a few
// points per period.
func logMainFrequency(asym []float64, dt, omega float64, log logrus.FieldLogger) {
	fMax, err := spectrum.MainFrequency(asym, dt)
	if err != nil {
		log.WithError(err).Debug("main frequency not determined")
		return
	}

	fields := logrus.Fields{"freq_mhz": fMax}
	points := 8.0
	if fMax < 271 {
		points = 5
	}
	if beat := fMax - omega/(2*math.Pi); beat > 0 {
		fields["suggested_packing"] = int(1 / (dt * beat) / points)
	}
	log.WithFields(fields).Info("main precession frequency")
}
