package singlehisto

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-musr/internal/testutil"
	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/musr/histo"
	"github.com/cwbudde/algo-musr/musr/resolve"
	"github.com/cwbudde/algo-musr/stats/objective"
)

type flat struct{}

func (flat) Prime(_, _ []float64)                   {}
func (flat) Func(_ float64, _, _ []float64) float64 { return 0 }

var truePar = []float64{1000, 2.2}

func decayRun(name string) *musr.RawRun {
	d := testutil.Decay{Bins: 100, T0: 10, Dt: 0.01, N0: truePar[0], Tau: truePar[1], Bkg: 5}
	return &musr.RawRun{
		Name:           name,
		TimeResolution: 10,
		Channels:       map[int]*musr.Channel{1: {T0: 10, Bins: d.Histogram()}},
	}
}

func fixedBlock() *musr.RunBlock {
	bkg := 5.0
	return &musr.RunBlock{
		Block: musr.Block{
			T0:        []float64{10},
			DataRange: &musr.BinRange{Start: 10, End: 90},
			Packing:   1,
			BkgFix:    &bkg,
		},
		RunNames:        []string{"r"},
		ForwardChannels: []int{1},
		Norm:            musr.Param(0),
		Lifetime:        musr.Param(1),
	}
}

var perBin = &musr.GlobalBlock{Normalization: musr.PerBin}

func newRun(t *testing.T, block *musr.RunBlock, opts ...Option) *Run {
	t.Helper()
	r, err := New(musr.NewMemoryRepository(decayRun("r"), decayRun("r2")), block, perBin, flat{}, nil, opts...)
	require.NoError(t, err)
	return r
}

func TestEndToEndTrueParametersGiveZeroChiSquare(t *testing.T) {
	r := newRun(t, fixedBlock())

	assert.Equal(t, 80, r.FitData().Len())
	assert.Equal(t, 80, r.FitBinCount())
	assert.Equal(t, histo.BkgFixed, r.Background().Policy)

	for _, kind := range []objective.Kind{objective.ChiSquare, objective.ChiSquareExpected, objective.MaxLogLikelihood} {
		got, err := r.Evaluate(kind, truePar)
		require.NoError(t, err)
		assert.Less(t, math.Abs(got), 1e-6, kind.String())
	}

	got, err := r.Evaluate(objective.ChiSquare, []float64{1010, 2.2})
	require.NoError(t, err)
	assert.Greater(t, got, 1.0)
}

func TestPerNanosecondMatchesPerBin(t *testing.T) {
	bin := newRun(t, fixedBlock())
	ns, err := New(musr.NewMemoryRepository(decayRun("r")), fixedBlock(), &musr.GlobalBlock{}, flat{}, nil)
	require.NoError(t, err)

	par := []float64{1010, 2.2}
	want, err := bin.Evaluate(objective.ChiSquare, par)
	require.NoError(t, err)
	got, err := ns.Evaluate(objective.ChiSquare, []float64{par[0] / 10, par[1]})
	require.NoError(t, err)
	testutil.RequireRelNear(t, got, want, 1e-9)
}

func TestSetFitRangeOffsets(t *testing.T) {
	r := newRun(t, fixedBlock())

	require.NoError(t, r.SetFitRange("FIT_RANGE fgb+5 lgb-3"))
	assert.InDelta(t, 0.05, r.FitWindow().Start, 1e-12)
	assert.InDelta(t, 0.77, r.FitWindow().End, 1e-12)
	assert.Less(t, r.FitBinCount(), 80)

	require.NoError(t, r.SetFitRange("FIT_RANGE 0.1 0.5"))
	assert.Equal(t, resolve.Window{Start: 0.1, End: 0.5}, r.FitWindow())

	require.NoError(t, r.SetFitRange("FIT_RANGE RESET"))
	assert.InDelta(t, 0.0, r.FitWindow().Start, 1e-12)
	assert.InDelta(t, 0.8, r.FitWindow().End, 1e-12)
	assert.Equal(t, 80, r.FitBinCount())
}

func TestSetFitRangeOffsetsSelectExactBins(t *testing.T) {
	r := newRun(t, fixedBlock())

	require.NoError(t, r.SetFitRange("FIT_RANGE fgb+0 lgb-21"))
	assert.Equal(t, 60, r.FitBinCount())

	// The window end lies on data point 80-n1, which is past the last point
	// only for n1 = 0.
	for n0 := range 40 {
		for n1 := range 30 {
			cmd := fmt.Sprintf("FIT_RANGE fgb+%d lgb-%d", n0, n1)
			require.NoError(t, r.SetFitRange(cmd))
			want := min(81-n1, 80) - n0
			require.Equal(t, want, r.FitBinCount(), cmd)
		}
	}
}

func TestSetFitRangePerRun(t *testing.T) {
	r := newRun(t, fixedBlock(), WithRunIndex(1))

	require.NoError(t, r.SetFitRange("FIT_RANGE fgb lgb fgb+2 lgb-2"))
	assert.InDelta(t, 0.02, r.FitWindow().Start, 1e-12)
	assert.InDelta(t, 0.78, r.FitWindow().End, 1e-12)

	r = newRun(t, fixedBlock(), WithRunIndex(2))
	var cmdErr *resolve.CommandError
	require.ErrorAs(t, r.SetFitRange("FIT_RANGE fgb lgb fgb+2 lgb-2"), &cmdErr)
	assert.InDelta(t, 0.8, r.FitWindow().End, 1e-12)
}

func TestSetFitRangeMalformedKeepsWindow(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	r := newRun(t, fixedBlock(), WithLogger(log))
	before := r.FitWindow()
	bins := r.FitBinCount()
	hook.Reset()

	err := r.SetFitRange("FIT_RANGE fgb+5")
	var cmdErr *resolve.CommandError
	require.True(t, errors.As(err, &cmdErr))

	assert.Equal(t, before, r.FitWindow())
	assert.Equal(t, bins, r.FitBinCount())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "r", hook.LastEntry().Data["run"])
}

func TestNewMissingRun(t *testing.T) {
	repo := musr.NewMemoryRepository(decayRun("r"))

	block := fixedBlock()
	block.RunNames = []string{"missing"}
	_, err := New(repo, block, perBin, flat{}, nil)
	require.ErrorIs(t, err, ErrRunNotFound)

	block = fixedBlock()
	block.RunNames = []string{"r", "missing"}
	_, err = New(repo, block, perBin, flat{}, nil)
	require.ErrorIs(t, err, ErrRunNotFound)

	block = fixedBlock()
	block.RunNames = nil
	_, err = New(repo, block, perBin, flat{}, nil)
	require.ErrorIs(t, err, ErrNoRunName)

	block = fixedBlock()
	block.T0 = []float64{500}
	_, err = New(repo, block, perBin, flat{}, nil)
	require.ErrorIs(t, err, resolve.ErrT0OutOfRange)
}

func TestAddRunDoublesCounts(t *testing.T) {
	block := fixedBlock()
	block.BkgFix = nil
	block.BkgFit = musr.Param(2)
	single := newRun(t, block)

	block = fixedBlock()
	block.BkgFix = nil
	block.BkgFit = musr.Param(2)
	block.RunNames = []string{"r", "r2"}
	added := newRun(t, block)

	want := single.FitData().Value
	for i, v := range added.FitData().Value {
		assert.InDelta(t, 2*want[i], v, 1e-9)
	}

	got, err := added.Evaluate(objective.ChiSquare, []float64{2000, 2.2, 10})
	require.NoError(t, err)
	assert.Less(t, got, 1e-6)
}

func TestEstimateN0WritesParameterTable(t *testing.T) {
	table := musr.ParamList{
		{Name: "N0", Value: 1, Step: 1},
		{Name: "tau", Value: 2.2},
	}
	newRun(t, fixedBlock(), WithParameterTable(table))

	testutil.RequireRelNear(t, table[0].Value, 1000, 1e-9)
	assert.InDelta(t, math.Sqrt(table[0].Value), table[0].Step, 1e-12)

	ns, err := New(musr.NewMemoryRepository(decayRun("r")), fixedBlock(), nil, flat{}, nil)
	require.NoError(t, err)
	n0, applied := ns.EstimateN0()
	assert.False(t, applied)
	testutil.RequireRelNear(t, n0, 100, 1e-3)
}

func TestEstimateN0SkipsFixedNorm(t *testing.T) {
	table := musr.ParamList{{Name: "N0", Value: 1}, {Name: "tau", Value: 2.2}}
	r := newRun(t, fixedBlock(), WithParameterTable(table))

	_, applied := r.EstimateN0()
	assert.False(t, applied)
	assert.InDelta(t, 1.0, table[0].Value, 0)
}

func TestViewDataLifetimeCorrected(t *testing.T) {
	r := newRun(t, fixedBlock(), WithView(musr.ViewSettings{LifetimeCorrection: true, TheoryAsData: true}))

	ds, err := r.ViewData(truePar)
	require.NoError(t, err)
	require.Equal(t, 80, ds.Len())
	for i := range ds.Len() {
		assert.InDelta(t, 0.0, ds.Value[i], 1e-9)
		assert.InDelta(t, 0.0, ds.Theory[i], 0)
	}
}

func TestViewDataRRF(t *testing.T) {
	rrf := &musr.RRFSettings{Frequency: 5, Unit: musr.UnitMHz, Packing: 4}
	r := newRun(t, fixedBlock(), WithView(musr.ViewSettings{RRF: rrf}))

	ds, err := r.ViewData(truePar)
	require.NoError(t, err)
	assert.Equal(t, 20, ds.Len())
	assert.InDelta(t, 0.04, ds.DataTimeStep, 1e-15)
	assert.InDelta(t, 0.015, ds.DataTimeStart, 1e-15)
	testutil.RequireFinite(t, ds.Theory)
}

func TestQuality(t *testing.T) {
	r := newRun(t, fixedBlock())
	q, err := r.Quality(objective.ChiSquare, truePar, 2)
	require.NoError(t, err)
	assert.Equal(t, 78, q.NDF)
	assert.InDelta(t, 0.0, q.Reduced, 1e-6)

	res, err := r.Residuals(truePar)
	require.NoError(t, err)
	assert.Len(t, res, 78+2)
	for _, v := range res {
		assert.InDelta(t, 0.0, v, 1e-6)
	}
}

func TestWorkerCountInvariance(t *testing.T) {
	d := testutil.Decay{Bins: 5000, T0: 100, Dt: 0.001, N0: 50, Tau: musr.MuonLifetime, Bkg: 2}
	raw := &musr.RawRun{Name: "p", TimeResolution: 1, Channels: map[int]*musr.Channel{
		3: {T0: 100, Bins: d.PoissonHistogram(7)},
	}}
	block := &musr.RunBlock{
		Block:           musr.Block{Packing: 2},
		RunNames:        []string{"p"},
		ForwardChannels: []int{3},
		Norm:            musr.Param(0),
		BkgFit:          musr.Param(1),
	}
	par := []float64{50, 2}

	var ref float64
	for i, workers := range []int{1, 3, 8} {
		r, err := New(musr.NewMemoryRepository(raw), block, nil, flat{}, nil, WithWorkers(workers))
		require.NoError(t, err)
		got, err := r.Evaluate(objective.MaxLogLikelihood, par)
		require.NoError(t, err)
		if i == 0 {
			ref = got
			continue
		}
		testutil.RequireRelNear(t, got, ref, 1e-9)
	}
}

func TestOptimizerRecoversAmplitude(t *testing.T) {
	r := newRun(t, fixedBlock())

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v, err := r.Evaluate(objective.ChiSquare, x)
			if err != nil {
				return math.Inf(1)
			}
			return v
		},
	}
	res, err := optimize.Minimize(problem, []float64{800, 2.0}, nil, &optimize.NelderMead{})
	require.NoError(t, err)

	testutil.RequireRelNear(t, res.X[0], truePar[0], 1e-3)
	testutil.RequireRelNear(t, res.X[1], truePar[1], 1e-3)
}
