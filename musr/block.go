package musr

// BinRange is an inclusive-start bin interval.
type BinRange struct {
	Start int
	End   int
}

// FitRange is the fit window of a block. It is either given as times in µs
// or as bin offsets relative to the data range: start = fgb+Offset[0],
// end = lgb-Offset[1].
type FitRange struct {
	Start  float64
	End    float64
	InBins bool
	Offset [2]int
}

// Normalization is the convention the prepared data are expressed in.
type Normalization int

const (
	// PerNanosecond scales packed counts to counts per ns, so N0 and the
	// background do not depend on the packing.
	PerNanosecond Normalization = iota
	// PerBin keeps counts per packed bin.
	PerBin
)

// Block holds the settings shared by RUN and GLOBAL blocks. Unset values
// fall back from the RUN block to the GLOBAL block.
type Block struct {
	// T0 holds one time-zero bin per forward channel; negative entries are
	// unset.
	T0 []float64
	// AddT0 holds the time-zero bins of the runs to be added, one slice per
	// additional run.
	AddT0     [][]float64
	DataRange *BinRange
	FitRange  *FitRange
	// Packing is the rebinning factor; 0 means unset.
	Packing  int
	BkgFix   *float64
	BkgRange *BinRange
}

// T0At returns the time-zero of channel index i, or -1 if unset.
func (b *Block) T0At(i int) float64 {
	if b == nil || i < 0 || i >= len(b.T0) {
		return -1
	}
	return b.T0[i]
}

// SetT0 stores t0 for channel index i, growing the slice as needed.
func (b *Block) SetT0(i int, t0 float64) {
	for len(b.T0) <= i {
		b.T0 = append(b.T0, -1)
	}
	b.T0[i] = t0
}

// AddT0At returns the time-zero of channel i of additional run k, or -1.
func (b *Block) AddT0At(k, i int) float64 {
	if b == nil || k < 0 || k >= len(b.AddT0) || i < 0 || i >= len(b.AddT0[k]) {
		return -1
	}
	return b.AddT0[k][i]
}

// SetAddT0 stores t0 for channel i of additional run k.
func (b *Block) SetAddT0(k, i int, t0 float64) {
	for len(b.AddT0) <= k {
		b.AddT0 = append(b.AddT0, nil)
	}
	for len(b.AddT0[k]) <= i {
		b.AddT0[k] = append(b.AddT0[k], -1)
	}
	b.AddT0[k][i] = t0
}

// RunBlock is the fit configuration of one run.
type RunBlock struct {
	Block

	// RunNames lists the primary run first, followed by runs to be added.
	RunNames        []string
	Facility        Facility
	ForwardChannels []int
	// Map is handed to auxiliary functions for parameter remapping.
	Map []int

	Norm     ParamRef
	Lifetime ParamRef
	BkgFit   ParamRef

	// BkgEstimated is filled in when the background was estimated.
	BkgEstimated *float64
}

// Name returns the primary run name.
func (r *RunBlock) Name() string {
	if len(r.RunNames) == 0 {
		return ""
	}
	return r.RunNames[0]
}

// GlobalBlock is the fallback configuration shared by all runs.
type GlobalBlock struct {
	Block
	Normalization Normalization
}

// RRFSettings configures the rotating reference frame view.
type RRFSettings struct {
	Frequency float64
	Unit      RRFUnit
	// Phase in degrees.
	Phase   float64
	Packing int
	// Attenuation is the stop band attenuation of the theory low pass in dB.
	Attenuation float64
	// TransitionWidth is the low pass transition width as a fraction of π.
	TransitionWidth float64
}

// ViewSettings configures display data sets.
type ViewSettings struct {
	LifetimeCorrection bool
	// Packing overrides the fit packing when > 0.
	Packing int
	// TheoryAsData evaluates the theory only at the data points.
	TheoryAsData bool
	// TheoryOversampling is the theory grid refinement; 0 means 8.
	TheoryOversampling int
	RRF                *RRFSettings
}
