package singlehisto

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/internal/logging"
	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/musr/amplitude"
	"github.com/cwbudde/algo-musr/musr/histo"
	"github.com/cwbudde/algo-musr/musr/resolve"
	"github.com/cwbudde/algo-musr/musr/view"
	"github.com/cwbudde/algo-musr/stats/objective"
)

var (
	ErrRunNotFound = errors.New("singlehisto: run not found")
	ErrNoRunName   = errors.New("singlehisto: run block names no run")
)

// Run is a prepared single histogram run.
type Run struct {
	cfg    config
	log    logrus.FieldLogger
	block  *musr.RunBlock
	global *musr.GlobalBlock
	theory musr.Theory
	funcs  musr.FunctionEvaluator

	raw     *musr.RawRun
	t0      float64
	dt      float64
	fgb     int
	lgb     int
	packing int
	norm    musr.Normalization
	// hist is the grouped histogram after background handling, counts the
	// same histogram before it.
	hist   []float64
	counts []float64
	bkg    histo.Background

	window   resolve.Window
	original resolve.Window
	fit      *musr.DataSet
	eval     *objective.Evaluator
}

// New prepares the run described by block. global may be nil. funcs may be
// nil when the theory uses no functions.
func New(repo musr.RunRepository, block *musr.RunBlock, global *musr.GlobalBlock, theory musr.Theory, funcs musr.FunctionEvaluator, opts ...Option) (*Run, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Run{
		cfg:    cfg,
		log:    logging.OrDiscard(cfg.log).WithField("run", block.Name()),
		block:  block,
		global: global,
		theory: theory,
		funcs:  funcs,
		norm:   musr.PerNanosecond,
	}
	if global != nil {
		r.norm = global.Normalization
	}

	if err := r.prepare(repo); err != nil {
		return nil, err
	}
	if cfg.table != nil {
		r.EstimateN0()
	}
	return r, nil
}

func (r *Run) prepare(repo musr.RunRepository) error {
	if len(r.block.RunNames) == 0 {
		return ErrNoRunName
	}

	runs := make([]*musr.RawRun, len(r.block.RunNames))
	for i, name := range r.block.RunNames {
		raw, ok := repo.Run(name)
		if !ok || raw == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, name)
		}
		runs[i] = raw
	}
	r.raw = runs[0]
	r.dt = r.raw.TimeStep()

	t0s, err := resolve.T0s(r.block, r.global, r.raw, r.log)
	if err != nil {
		return err
	}
	addT0s := make([][]float64, len(runs)-1)
	for k, add := range runs[1:] {
		if addT0s[k], err = resolve.AddRunT0s(r.block, k, add, r.log); err != nil {
			return err
		}
	}

	hist, err := histo.Assemble(r.raw, runs[1:], r.block.ForwardChannels, t0s, addT0s)
	if err != nil {
		return err
	}
	r.t0 = t0s[0]
	r.counts = append([]float64(nil), hist...)

	if r.fgb, r.lgb, err = resolve.DataRange(r.block, r.global, r.t0, len(hist), r.dt, r.log); err != nil {
		return err
	}

	r.packing = r.resolvePacking()
	if r.bkg, err = histo.Handle(hist, r.block, r.global, r.t0, r.dt, r.log); err != nil {
		return err
	}
	r.hist = hist

	normalizer := histo.Normalizer(r.norm, r.packing, r.raw.TimeResolution)
	r.fit = histo.Pack(r.hist, r.counts, r.fgb, r.lgb, r.t0, r.packing, r.dt).DataSet(normalizer)

	r.window = resolve.FitRange(r.block, r.global, r.fgb, r.lgb, r.t0, r.dt, r.log)
	r.original = r.window
	r.rebuildEvaluator()

	r.log.WithFields(logrus.Fields{
		"t0":         r.t0,
		"fgb":        r.fgb,
		"lgb":        r.lgb,
		"packing":    r.packing,
		"background": r.bkg.Policy.String(),
		"fit_bins":   r.eval.Len(),
	}).Debug("run prepared")
	return nil
}

func (r *Run) resolvePacking() int {
	if r.block.Packing > 0 {
		return r.block.Packing
	}
	if r.global != nil && r.global.Packing > 0 {
		return r.global.Packing
	}
	r.log.Warn("no packing given, using 1")
	return 1
}

func (r *Run) rebuildEvaluator() {
	start, end := objective.FitBins(r.fit, r.window.Start, r.window.End)
	r.eval = objective.New(r.fit, r.theory, r.refs(),
		objective.WithFitBins(start, end),
		objective.WithNormalizer(histo.Normalizer(r.norm, r.packing, r.raw.TimeResolution)),
		objective.WithFunctions(r.funcs, r.block.Map, r.raw.Metadata()),
		objective.WithWorkers(r.cfg.workers),
		objective.WithLogger(r.log),
	)
}

func (r *Run) refs() objective.Refs {
	return objective.Refs{Norm: r.block.Norm, Lifetime: r.block.Lifetime, Bkg: r.block.BkgFit}
}

// Evaluate returns the statistic of the given kind for par.
func (r *Run) Evaluate(kind objective.Kind, par []float64) (float64, error) {
	return r.eval.Evaluate(kind, par)
}

// FitBinCount returns the number of packed bins inside the fit window.
func (r *Run) FitBinCount() int { return r.eval.Len() }

// FitWindow returns the current fit window in µs relative to t0.
func (r *Run) FitWindow() resolve.Window { return r.window }

// Background reports how the background was handled.
func (r *Run) Background() histo.Background { return r.bkg }

// T0 returns the time-zero bin of the grouped histogram.
func (r *Run) T0() float64 { return r.t0 }

// DataRange returns the first and last good bin.
func (r *Run) DataRange() (fgb, lgb int) { return r.fgb, r.lgb }

// SetFitRange applies a FIT_RANGE command. A malformed command is logged
// and returned; the previous window stays in effect.
func (r *Run) SetFitRange(cmd string) error {
	c, err := resolve.ParseFitRangeCommand(cmd)
	if err != nil {
		r.log.WithError(err).Warn("ignoring FIT_RANGE command")
		return err
	}

	w := r.original
	if !c.Reset {
		pair, err := c.Select(r.cfg.runIndex)
		if err != nil {
			r.log.WithError(err).Warn("ignoring FIT_RANGE command")
			return err
		}
		w = pair.Window(r.fgb, r.lgb, r.t0, r.dt)
	}

	r.window = w
	r.rebuildEvaluator()
	r.log.WithFields(logrus.Fields{"start": w.Start, "end": w.End, "fit_bins": r.eval.Len()}).
		Info("fit range changed")
	return nil
}

// FitData returns the prepared fit data set. It must not be modified.
func (r *Run) FitData() *musr.DataSet { return r.fit }

// ViewData returns the display data set for par, in the rotating reference
// frame when the view settings carry a non-zero RRF frequency.
func (r *Run) ViewData(par []float64) (*musr.DataSet, error) {
	return r.ViewDataWith(par, r.cfg.view)
}

// ViewDataWith is ViewData with explicit settings.
func (r *Run) ViewDataWith(par []float64, settings musr.ViewSettings) (*musr.DataSet, error) {
	var funcs []float64
	if r.funcs != nil {
		funcs = make([]float64, r.funcs.Len())
		musr.EvalFunctions(r.funcs, funcs, r.block.Map, par, r.raw.Metadata())
	}

	src := view.Source{
		Hist:           r.hist,
		Raw:            r.counts,
		T0:             r.t0,
		FGB:            r.fgb,
		LGB:            r.lgb,
		TimeResolution: r.raw.TimeResolution,
		Packing:        r.packing,
		Normalization:  r.norm,
	}
	m := view.Model{Refs: r.refs(), Theory: r.theory, Par: par, Funcs: funcs}

	if rrf := settings.RRF; rrf != nil && rrf.Frequency != 0 {
		return view.BuildRRF(src, m, rrf, r.cfg.lowpass, r.log)
	}
	return view.Build(src, m, settings, r.log)
}

// EstimateN0 estimates the amplitude from the data range and writes it into
// the parameter table given by WithParameterTable. It returns the estimate
// in the fit normalization and whether the table changed.
func (r *Run) EstimateN0() (float64, bool) {
	tau := musr.MuonLifetime
	if t := r.cfg.table; t != nil && r.block.Lifetime.IsParam() && r.block.Lifetime.Index() < t.Len() {
		tau = t.Value(r.block.Lifetime.Index())
	}

	n0 := amplitude.Estimate(r.hist[r.fgb:r.lgb], r.t0-float64(r.fgb), r.dt, tau)
	n0 = amplitude.Scale(n0, r.norm, r.packing, r.raw.TimeResolution)
	if r.cfg.table == nil {
		return n0, false
	}
	return n0, amplitude.Apply(r.cfg.table, r.block.Norm, r.block.BkgFit, n0, r.log)
}

// Quality evaluates kind at par and derives the degrees of freedom and
// goodness of fit for nFree free parameters.
func (r *Run) Quality(kind objective.Kind, par []float64, nFree int) (objective.Quality, error) {
	v, err := r.Evaluate(kind, par)
	if err != nil {
		return objective.Quality{}, err
	}
	return objective.Assess(kind, v, r.FitBinCount(), nFree), nil
}

// Residuals returns the normalized residuals of the fit window at par.
func (r *Run) Residuals(par []float64) ([]float64, error) {
	return r.eval.Residuals(par)
}
