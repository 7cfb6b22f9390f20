package objective

import (
	"fmt"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-musr/internal/logging"
	"github.com/cwbudde/algo-musr/musr"
)

const (
	// minChunk is the smallest number of bins handed to one goroutine.
	minChunk = 10
	// dataThreshold separates empty from populated bins in the
	// likelihood deviance.
	dataThreshold = 1e-9
)

// Refs names the parameters feeding the decay envelope. An unset Lifetime
// uses the muon lifetime; an unset Bkg means no background term.
type Refs struct {
	Norm     musr.ParamRef
	Lifetime musr.ParamRef
	Bkg      musr.ParamRef
}

// Evaluator computes fit statistics of a prepared data set against a
// theory. Data must not be modified while Evaluate runs.
type Evaluator struct {
	data   *musr.DataSet
	theory musr.Theory
	refs   Refs

	start, end int
	normalizer float64

	funcs   musr.FunctionEvaluator
	mapping []int
	meta    musr.Metadata

	workers int
	log     logrus.FieldLogger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFitBins limits the reduction to data points [start, end).
func WithFitBins(start, end int) Option {
	return func(e *Evaluator) {
		e.start, e.end = start, end
	}
}

// WithNormalizer sets the factor the data were divided by during packing.
// The chi-square kinds are multiplied by it; the likelihood kinds scale
// data and theory back to counts with it. The default is 1.
func WithNormalizer(n float64) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.normalizer = n
		}
	}
}

// WithFunctions supplies the auxiliary function evaluator together with
// the run's parameter map and metadata.
func WithFunctions(fe musr.FunctionEvaluator, mapping []int, meta musr.Metadata) Option {
	return func(e *Evaluator) {
		e.funcs = fe
		e.mapping = mapping
		e.meta = meta
	}
}

// WithWorkers sets the number of goroutines of the reduction. Values < 1
// select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		e.workers = n
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Evaluator) {
		e.log = log
	}
}

// New returns an evaluator over the whole data set unless WithFitBins
// narrows it.
func New(data *musr.DataSet, theory musr.Theory, refs Refs, opts ...Option) *Evaluator {
	e := &Evaluator{
		data:       data,
		theory:     theory,
		refs:       refs,
		end:        data.Len(),
		normalizer: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	e.log = logging.OrDiscard(e.log)
	e.start = max(e.start, 0)
	e.end = min(e.end, data.Len())
	return e
}

// FitBins returns the fit window [start, end) in data points.
func (e *Evaluator) FitBins() (start, end int) { return e.start, e.end }

// Len returns the number of data points in the fit window.
func (e *Evaluator) Len() int { return max(e.end-e.start, 0) }

// Evaluate returns the statistic of the given kind for parameter vector par.
func (e *Evaluator) Evaluate(kind Kind, par []float64) (float64, error) {
	if kind < ChiSquare || kind > MaxLogLikelihoodExpected {
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	n := e.Len()
	if n == 0 {
		return 0, ErrEmptyFitRange
	}

	env, funcs, err := e.prime(par)
	if err != nil {
		return 0, err
	}

	chunk := max(minChunk, n/e.workers)
	nChunks := (n + chunk - 1) / chunk
	partial := make([]float64, nChunks)
	skipped := make([]int, nChunks)

	var g errgroup.Group
	g.SetLimit(e.workers)
	for c := range nChunks {
		lo := e.start + c*chunk
		hi := min(lo+chunk, e.end)
		g.Go(func() error {
			partial[c], skipped[c] = e.reduce(kind, env, lo, hi, par, funcs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	sum := floats.Sum(partial)
	if kind.IsChiSquare() {
		sum *= e.normalizer
	}

	if s := sumInts(skipped); s > 0 {
		e.log.WithFields(logrus.Fields{"kind": kind.String(), "skipped": s, "bins": n}).
			Warn("bins with non-positive theory or zero error skipped")
	}
	return sum, nil
}

// Residuals returns (data-theory)/error for every point of the fit window,
// scaled by the square root of the normalizer so that their squares sum to
// the chi-square. Points with zero error are left out.
func (e *Evaluator) Residuals(par []float64) ([]float64, error) {
	if e.Len() == 0 {
		return nil, ErrEmptyFitRange
	}
	env, funcs, err := e.prime(par)
	if err != nil {
		return nil, err
	}

	scale := math.Sqrt(e.normalizer)
	r := make([]float64, 0, e.Len())
	for i := e.start; i < e.end; i++ {
		sigma := e.data.Error[i]
		if sigma == 0 {
			continue
		}
		t := e.data.Time(i)
		theo := env.At(t, e.theory.Func(t, par, funcs))
		r = append(r, (e.data.Value[i]-theo)/sigma*scale)
	}
	return r, nil
}

// prime evaluates the user functions, resolves the envelope and primes the
// theory for par.
func (e *Evaluator) prime(par []float64) (Envelope, []float64, error) {
	var funcs []float64
	if e.funcs != nil {
		funcs = make([]float64, e.funcs.Len())
		musr.EvalFunctions(e.funcs, funcs, e.mapping, par, e.meta)
	}

	env, err := e.refs.Resolve(par, funcs)
	if err != nil {
		return Envelope{}, nil, err
	}

	e.theory.Prime(par, funcs)
	return env, funcs, nil
}

// Envelope holds the resolved decay parameters of one evaluation.
type Envelope struct {
	N0, Tau, Bkg float64
}

// At returns N0·exp(-t/tau)·(1+shape) + bkg.
func (env Envelope) At(t, shape float64) float64 {
	return env.N0*math.Exp(-t/env.Tau)*(1+shape) + env.Bkg
}

// Resolve reads the decay parameters from par and funcs. An unset lifetime
// selects the muon lifetime, an unset background zero.
func (r Refs) Resolve(par, funcs []float64) (Envelope, error) {
	n0, ok := r.Norm.Resolve(par, funcs)
	if !ok {
		return Envelope{}, fmt.Errorf("%w: norm %s", ErrParamIndex, r.Norm)
	}

	env := Envelope{N0: n0, Tau: musr.MuonLifetime}
	if r.Lifetime.IsSet() {
		if env.Tau, ok = r.Lifetime.Resolve(par, funcs); !ok {
			return Envelope{}, fmt.Errorf("%w: lifetime %s", ErrParamIndex, r.Lifetime)
		}
	}
	if r.Bkg.IsSet() {
		if env.Bkg, ok = r.Bkg.Resolve(par, funcs); !ok {
			return Envelope{}, fmt.Errorf("%w: background %s", ErrParamIndex, r.Bkg)
		}
	}
	return env, nil
}

func (e *Evaluator) reduce(kind Kind, env Envelope, lo, hi int, par, funcs []float64) (sum float64, skipped int) {
	for i := lo; i < hi; i++ {
		t := e.data.Time(i)
		theo := env.At(t, e.theory.Func(t, par, funcs))
		d := e.data.Value[i]

		switch kind {
		case ChiSquare:
			sigma := e.data.Error[i]
			if sigma == 0 {
				skipped++
				continue
			}
			diff := d - theo
			sum += diff * diff / (sigma * sigma)

		case ChiSquareExpected:
			if theo <= 0 {
				skipped++
				continue
			}
			diff := d - theo
			sum += diff * diff / theo

		case MaxLogLikelihood:
			if theo <= 0 {
				skipped++
				continue
			}
			d *= e.normalizer
			theo *= e.normalizer
			if d > dataThreshold {
				sum += 2 * ((theo - d) + d*math.Log(d/theo))
			} else {
				sum += 2 * (theo - d)
			}

		case MaxLogLikelihoodExpected:
			if theo <= 0 {
				skipped++
				continue
			}
			d *= e.normalizer
			theo *= e.normalizer
			if d > dataThreshold {
				sum += 2 * d * math.Log(d/theo)
			}
		}
	}
	return sum, skipped
}

func sumInts(s []int) int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// binEpsilon absorbs rounding when a window edge lies on a data point.
const binEpsilon = 1e-9

// FitBins converts a fit window in µs into data point indices [start, end)
// of d, clamped to the data set. Edges within binEpsilon of a data point
// include that point.
func FitBins(d *musr.DataSet, tStart, tEnd float64) (start, end int) {
	if d.DataTimeStep <= 0 {
		return 0, 0
	}
	start = int(math.Ceil((tStart-d.DataTimeStart)/d.DataTimeStep - binEpsilon))
	end = int(math.Floor((tEnd-d.DataTimeStart)/d.DataTimeStep+binEpsilon)) + 1
	start = max(start, 0)
	end = min(end, d.Len())
	if end < start {
		end = start
	}
	return start, end
}
