package spectrum

import (
	"errors"
	"fmt"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-musr/dsp/window"
)

var (
	errEmptyInput = errors.New("spectrum: empty input")
	errTimeStep   = errors.New("spectrum: time step must be > 0")
)

// Result is the non-negative frequency half of a Fourier spectrum.
type Result struct {
	// FreqStep is the bin spacing in MHz times the unit scale.
	FreqStep float64
	// Bins holds X[0..N/2] of the N point transform.
	Bins []complex128
	// Size is the transform length N after zero padding.
	Size int
}

// Frequency returns the frequency of bin i.
func (r Result) Frequency(i int) float64 { return float64(i) * r.FreqStep }

// Power returns |X[k]|^2 of all bins.
func (r Result) Power() []float64 { return Power(r.Bins) }

// Magnitude returns |X[k]| of all bins.
func (r Result) Magnitude() []float64 { return Magnitude(r.Bins) }

// Option configures Transform.
type Option func(*config)

type config struct {
	apodization window.Type
	padPower    int
	dcRemoval   bool
	unitScale   float64
}

func defaultConfig() config {
	return config{apodization: window.TypeRectangular, unitScale: 1}
}

// WithApodization tapers the record with the given window before the FFT.
func WithApodization(t window.Type) Option {
	return func(c *config) {
		c.apodization = t
	}
}

// WithZeroPadding pads the record to at least 2^power samples.
func WithZeroPadding(power int) Option {
	return func(c *config) {
		if power >= 0 && power < 31 {
			c.padPower = power
		}
	}
}

// WithDCRemoval subtracts the record mean before windowing.
func WithDCRemoval() Option {
	return func(c *config) {
		c.dcRemoval = true
	}
}

// WithUnitScale multiplies the frequency axis, e.g. 1/γ_µ to express the
// spectrum in Gauss.
func WithUnitScale(scale float64) Option {
	return func(c *config) {
		if scale > 0 {
			c.unitScale = scale
		}
	}
}

// Transform returns the spectrum of data sampled every dt µs.
func Transform(data []float64, dt float64, opts ...Option) (Result, error) {
	res, _, err := transform(data, dt, newConfig(opts))
	return res, err
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// transform also returns the prepared time record.
func transform(data []float64, dt float64, cfg config) (Result, []float64, error) {
	if len(data) == 0 {
		return Result{}, nil, errEmptyInput
	}
	if dt <= 0 {
		return Result{}, nil, fmt.Errorf("%w: %g", errTimeStep, dt)
	}

	buf, err := prepare(data, cfg)
	if err != nil {
		return Result{}, nil, err
	}

	size := max(nextPow2(len(buf)), 1<<cfg.padPower)
	in := make([]complex128, size)
	for i, x := range buf {
		in[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return Result{}, nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, nil, fmt.Errorf("spectrum: fft: %w", err)
	}

	return Result{
		FreqStep: cfg.unitScale / (float64(size) * dt),
		Bins:     out[:size/2+1],
		Size:     size,
	}, buf, nil
}

// prepare returns the windowed, optionally mean-free copy of data.
func prepare(data []float64, cfg config) ([]float64, error) {
	buf := append([]float64(nil), data...)
	if cfg.dcRemoval {
		mean, err := stats.Mean(stats.Float64Data(buf))
		if err != nil {
			return nil, fmt.Errorf("spectrum: %w", err)
		}
		for i := range buf {
			buf[i] -= mean
		}
	}
	window.Apply(cfg.apodization, buf)
	return buf, nil
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
