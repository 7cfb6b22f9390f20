// Package config loads the YAML fit description used by the shfit command
// and turns it into the musr run, parameter, theory and view settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/musr/theory"
	"github.com/cwbudde/algo-musr/stats/objective"
)

var (
	ErrNoRuns        = errors.New("config: no runs given")
	ErrRange         = errors.New("config: range needs two values")
	ErrNormalization = errors.New("config: unknown normalization")
	ErrFitRange      = errors.New("config: fit range needs start/end or bins")
)

// File is a fit description.
type File struct {
	LogLevel      string      `yaml:"log_level"`
	Normalization string      `yaml:"normalization"`
	Statistic     string      `yaml:"statistic"`
	Workers       int         `yaml:"workers"`
	Data          []string    `yaml:"data"`
	Parameters    []Parameter `yaml:"parameters"`
	Theory        string      `yaml:"theory"`
	Global        Block       `yaml:"global"`
	Runs          []Run       `yaml:"runs"`
	View          View        `yaml:"view"`
	Fourier       Fourier     `yaml:"fourier"`

	dir string
}

// Parameter is one fit parameter.
type Parameter struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
	Step  float64 `yaml:"step"`
}

// Block holds the settings shared by runs and the global section.
type Block struct {
	T0              []float64   `yaml:"t0"`
	AddT0           [][]float64 `yaml:"add_t0"`
	DataRange       []int       `yaml:"data_range"`
	FitRange        *FitRange   `yaml:"fit_range"`
	Packing         int         `yaml:"packing"`
	Background      *float64    `yaml:"background"`
	BackgroundRange []int       `yaml:"background_range"`
}

// FitRange is a window in µs, or with Bins the offsets n0, n1 from the
// first and last good bin.
type FitRange struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Bins  []int   `yaml:"bins"`
}

// Run describes one single histogram run. Parameter numbers are one based;
// numbers from musr.FuncOffset on reference functions.
type Run struct {
	Block    `yaml:",inline"`
	Names    []string `yaml:"names"`
	Facility string   `yaml:"facility"`
	Forward  []int    `yaml:"forward"`
	Map      []int    `yaml:"map"`
	Norm     int      `yaml:"norm"`
	Lifetime int      `yaml:"lifetime"`
	BkgFit   int      `yaml:"background_fit"`
}

// View configures display data.
type View struct {
	LifetimeCorrection bool `yaml:"lifetime_correction"`
	Packing            int  `yaml:"packing"`
	TheoryAsData       bool `yaml:"theory_as_data"`
	Oversampling       int  `yaml:"oversampling"`
	RRF                *RRF `yaml:"rrf"`
}

// RRF configures the rotating reference frame.
type RRF struct {
	Frequency       float64 `yaml:"frequency"`
	Unit            string  `yaml:"unit"`
	Phase           float64 `yaml:"phase"`
	Packing         int     `yaml:"packing"`
	Attenuation     float64 `yaml:"attenuation"`
	TransitionWidth float64 `yaml:"transition_width"`
}

// Fourier configures the spectrum of the shfit fourier command.
type Fourier struct {
	Apodization string `yaml:"apodization"`
	ZeroPadding int    `yaml:"zero_padding"`
}

// Load reads and decodes the description at path. Unknown keys are errors.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes a description. Relative data paths resolve against the
// working directory.
func Parse(b []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(f.Runs) == 0 {
		return nil, ErrNoRuns
	}
	return &f, nil
}

// DataPaths returns the run data files relative to the description.
func (f *File) DataPaths() []string {
	out := make([]string, len(f.Data))
	for i, p := range f.Data {
		if !filepath.IsAbs(p) && f.dir != "" {
			p = filepath.Join(f.dir, p)
		}
		out[i] = p
	}
	return out
}

// Kind returns the statistic, chi-square when unset.
func (f *File) Kind() (objective.Kind, error) {
	if f.Statistic == "" {
		return objective.ChiSquare, nil
	}
	return objective.ParseKind(f.Statistic)
}

// ParameterTable returns the parameters as a musr.ParamList.
func (f *File) ParameterTable() musr.ParamList {
	out := make(musr.ParamList, len(f.Parameters))
	for i, p := range f.Parameters {
		out[i] = musr.Parameter{Name: p.Name, Value: p.Value, Step: p.Step}
	}
	return out
}

// FreeParameters counts the parameters with a non-zero step.
func (f *File) FreeParameters() int {
	n := 0
	for _, p := range f.Parameters {
		if p.Step != 0 {
			n++
		}
	}
	return n
}

// BuildTheory parses the theory section with the default registry.
func (f *File) BuildTheory() (*theory.Theory, error) {
	th, err := theory.Parse(strings.Split(f.Theory, "\n"), nil)
	if err != nil {
		return nil, err
	}
	// No function block is read, so function references cannot resolve.
	if err := th.Validate(len(f.Parameters), 0); err != nil {
		return nil, err
	}
	return th, nil
}

// GlobalBlock returns the global section.
func (f *File) GlobalBlock() (*musr.GlobalBlock, error) {
	g := &musr.GlobalBlock{}
	switch strings.ToLower(f.Normalization) {
	case "", "per_ns", "per-ns":
		g.Normalization = musr.PerNanosecond
	case "per_bin", "per-bin":
		g.Normalization = musr.PerBin
	default:
		return nil, fmt.Errorf("%w: %q", ErrNormalization, f.Normalization)
	}
	if err := f.Global.fill(&g.Block); err != nil {
		return nil, fmt.Errorf("global: %w", err)
	}
	return g, nil
}

// RunBlocks returns one block per run.
func (f *File) RunBlocks() ([]*musr.RunBlock, error) {
	out := make([]*musr.RunBlock, len(f.Runs))
	for i, r := range f.Runs {
		b := &musr.RunBlock{
			RunNames:        r.Names,
			Facility:        musr.ParseFacility(r.Facility),
			ForwardChannels: r.Forward,
			Map:             r.Map,
			Norm:            musr.DecodeRef(r.Norm),
			Lifetime:        musr.DecodeRef(r.Lifetime),
			BkgFit:          musr.DecodeRef(r.BkgFit),
		}
		if err := r.fill(&b.Block); err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		out[i] = b
	}
	return out, nil
}

func (b Block) fill(dst *musr.Block) error {
	dst.T0 = b.T0
	dst.AddT0 = b.AddT0
	dst.Packing = b.Packing
	dst.BkgFix = b.Background

	var err error
	if dst.DataRange, err = binRange(b.DataRange); err != nil {
		return fmt.Errorf("data_range: %w", err)
	}
	if dst.BkgRange, err = binRange(b.BackgroundRange); err != nil {
		return fmt.Errorf("background_range: %w", err)
	}

	if fr := b.FitRange; fr != nil {
		switch {
		case len(fr.Bins) == 2:
			dst.FitRange = &musr.FitRange{InBins: true, Offset: [2]int{fr.Bins[0], fr.Bins[1]}}
		case len(fr.Bins) == 0 && fr.End > fr.Start:
			dst.FitRange = &musr.FitRange{Start: fr.Start, End: fr.End}
		default:
			return ErrFitRange
		}
	}
	return nil
}

func binRange(v []int) (*musr.BinRange, error) {
	switch len(v) {
	case 0:
		return nil, nil
	case 2:
		return &musr.BinRange{Start: v[0], End: v[1]}, nil
	default:
		return nil, fmt.Errorf("%w, got %d", ErrRange, len(v))
	}
}

// ViewSettings returns the view section.
func (f *File) ViewSettings() (musr.ViewSettings, error) {
	v := musr.ViewSettings{
		LifetimeCorrection: f.View.LifetimeCorrection,
		Packing:            f.View.Packing,
		TheoryAsData:       f.View.TheoryAsData,
		TheoryOversampling: f.View.Oversampling,
	}
	if r := f.View.RRF; r != nil {
		unit, err := musr.ParseRRFUnit(r.Unit)
		if err != nil {
			return musr.ViewSettings{}, fmt.Errorf("config: %w", err)
		}
		v.RRF = &musr.RRFSettings{
			Frequency:       r.Frequency,
			Unit:            unit,
			Phase:           r.Phase,
			Packing:         r.Packing,
			Attenuation:     r.Attenuation,
			TransitionWidth: r.TransitionWidth,
		}
	}
	return v, nil
}
