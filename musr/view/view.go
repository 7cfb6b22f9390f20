// Package view builds display data sets: the packed histogram or its
// lifetime corrected asymmetry together with a dense theory curve, and the
// rotating reference frame (RRF) variant where data and theory are
// demodulated at a reference frequency and the theory is low-pass filtered.
//
// Both paths place packed point k at dt·(fgb-t0+(p-1)/2) + k·dt·p, so
// plotting code does not need to know which one produced a data set.
package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/internal/logging"
	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/musr/histo"
	"github.com/cwbudde/algo-musr/stats/objective"
)

// DefaultOversampling is the theory grid refinement relative to the data.
const DefaultOversampling = 8

var (
	ErrEmptyView  = errors.New("view: data range holds no complete packing group")
	ErrZeroNorm   = errors.New("view: normalization is zero")
	ErrNoRRF      = errors.New("view: no RRF frequency configured")
	ErrRRFPacking = errors.New("view: RRF packing must be > 0")
)

// Source is the assembled histogram a view is built from.
type Source struct {
	// Hist is the grouped histogram after background subtraction.
	Hist []float64
	// Raw is the grouped histogram before background subtraction.
	Raw []float64
	T0  float64
	// FGB and LGB bound the data range [FGB, LGB).
	FGB, LGB int
	// TimeResolution is the raw bin width in ns.
	TimeResolution float64
	// Packing is the fit packing the normalization refers to.
	Packing       int
	Normalization musr.Normalization
}

func (s Source) dt() float64 { return s.TimeResolution * 1e-3 }

// perRawBin converts a value in the fit normalization into counts per raw
// bin.
func (s Source) perRawBin(v float64) float64 {
	if s.Normalization == musr.PerBin {
		return v / float64(max(s.Packing, 1))
	}
	return v * s.TimeResolution
}

// Model is the fitted model evaluated alongside the data.
type Model struct {
	Refs   objective.Refs
	Theory musr.Theory
	Par    []float64
	Funcs  []float64
}

// Build returns the display data set without demodulation. The view
// packing overrides the fit packing; with lifetime correction the data are
// converted into asymmetry and the theory is the bare shape A(t).
func Build(src Source, m Model, s musr.ViewSettings, log logrus.FieldLogger) (*musr.DataSet, error) {
	log = logging.OrDiscard(log)

	p := src.Packing
	if s.Packing > 0 {
		p = s.Packing
	}
	p = max(p, 1)

	dt := src.dt()
	packed := histo.Pack(src.Hist, src.Raw, src.FGB, src.LGB, src.T0, p, dt)
	if packed.Len() == 0 {
		return nil, ErrEmptyView
	}
	norm := histo.Normalizer(src.Normalization, p, src.TimeResolution)

	env, err := m.Refs.Resolve(m.Par, m.Funcs)
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}
	if src.Normalization == musr.PerBin {
		scale := float64(p) / float64(max(src.Packing, 1))
		env.N0 *= scale
		env.Bkg *= scale
	}
	if s.LifetimeCorrection && env.N0 == 0 {
		return nil, ErrZeroNorm
	}

	n := packed.Len()
	ds := &musr.DataSet{
		DataTimeStart: packed.TimeStart,
		DataTimeStep:  packed.TimeStep,
		Value:         make([]float64, n),
		Error:         make([]float64, n),
	}
	for i := range n {
		v := packed.Sum[i] / norm
		e := math.Sqrt(packed.Variance(i)) / norm
		if s.LifetimeCorrection {
			ex := math.Exp(packed.Time(i) / env.Tau)
			v = (v-env.Bkg)*ex/env.N0 - 1
			e *= ex / env.N0
		}
		ds.Value[i] = v
		ds.Error[i] = e
	}

	over := s.TheoryOversampling
	if over < 1 {
		over = DefaultOversampling
	}
	if s.TheoryAsData {
		over = 1
	}
	ds.TheoryTimeStart = ds.DataTimeStart
	ds.TheoryTimeStep = ds.DataTimeStep / float64(over)
	ds.Theory = make([]float64, n*over)

	m.Theory.Prime(m.Par, m.Funcs)
	for i := range ds.Theory {
		t := ds.TheoryTime(i)
		shape := m.Theory.Func(t, m.Par, m.Funcs)
		if s.LifetimeCorrection {
			ds.Theory[i] = shape
		} else {
			ds.Theory[i] = env.At(t, shape)
		}
	}

	log.WithFields(logrus.Fields{
		"points":   n,
		"packing":  p,
		"theory":   len(ds.Theory),
		"lifetime": s.LifetimeCorrection,
	}).Debug("view data prepared")
	return ds, nil
}
