package singlehisto_test

import (
	"fmt"

	"github.com/cwbudde/algo-musr/internal/testutil"
	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/musr/singlehisto"
	"github.com/cwbudde/algo-musr/musr/theory"
	"github.com/cwbudde/algo-musr/stats/objective"
)

func ExampleRun_SetFitRange() {
	d := testutil.Decay{Bins: 100, T0: 10, Dt: 0.01, N0: 1000, Tau: 2.2}
	repo := musr.NewMemoryRepository(&musr.RawRun{
		Name:           "2024-0815",
		TimeResolution: 10,
		Channels:       map[int]*musr.Channel{1: {T0: 10, Bins: d.Histogram()}},
	})

	zero := 0.0
	block := &musr.RunBlock{
		Block: musr.Block{
			DataRange: &musr.BinRange{Start: 10, End: 90},
			Packing:   1,
			BkgFix:    &zero,
		},
		RunNames:        []string{"2024-0815"},
		ForwardChannels: []int{1},
		Norm:            musr.Param(0),
		Lifetime:        musr.Param(1),
	}
	global := &musr.GlobalBlock{Normalization: musr.PerBin}

	run, err := singlehisto.New(repo, block, global, theory.New(), nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := run.SetFitRange("FIT_RANGE fgb+5 lgb-3"); err != nil {
		fmt.Println(err)
		return
	}

	chisq, _ := run.Evaluate(objective.ChiSquare, []float64{1000, 2.2})
	w := run.FitWindow()
	fmt.Printf("window [%.2f, %.2f] µs, chisq %.1f\n", w.Start, w.End, chisq)
	// Output: window [0.05, 0.77] µs, chisq 0.0
}
