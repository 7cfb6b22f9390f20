package fir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-musr/dsp/window"
)

// Default design parameters of Lowpass.
const (
	DefaultAttenuation     = 60.0
	DefaultTransitionWidth = 0.2
)

var (
	errCutoff      = errors.New("fir: cutoff must be in (0, 1) of Nyquist")
	errNotDesigned = errors.New("fir: low pass not configured")
)

// Lowpass is a Kaiser windowed-sinc low pass applied with zero phase.
type Lowpass struct {
	filter *Filter
	cutoff float64
	beta   float64
}

// Configure designs the filter. cutoff is the pass band edge as a fraction
// of the Nyquist frequency, attenuationDB the stop band attenuation and
// width the transition width as a fraction of π rad/sample. Zero
// attenuation or width select the defaults.
func (l *Lowpass) Configure(cutoff, attenuationDB, width float64) error {
	if cutoff <= 0 || cutoff >= 1 || math.IsNaN(cutoff) {
		return fmt.Errorf("%w: %g", errCutoff, cutoff)
	}
	if attenuationDB <= 0 {
		attenuationDB = DefaultAttenuation
	}
	if width <= 0 {
		width = DefaultTransitionWidth
	}

	taps, err := window.KaiserLength(attenuationDB, width)
	if err != nil {
		return fmt.Errorf("fir: %w", err)
	}
	beta := window.KaiserBeta(attenuationDB)
	w, err := window.Kaiser(taps, beta)
	if err != nil {
		return fmt.Errorf("fir: %w", err)
	}

	mid := float64(taps-1) / 2
	coeffs := make([]float64, taps)
	sum := 0.0
	for i := range coeffs {
		coeffs[i] = cutoff * sinc(cutoff*(float64(i)-mid)) * w[i]
		sum += coeffs[i]
	}
	for i := range coeffs {
		coeffs[i] /= sum
	}

	l.filter = New(coeffs)
	l.cutoff = cutoff
	l.beta = beta
	return nil
}

// Apply returns the filtered copy of x. It fails if Configure has not
// succeeded yet.
func (l *Lowpass) Apply(x []float64) ([]float64, error) {
	if l.filter == nil {
		return nil, errNotDesigned
	}
	return l.filter.ApplyCentered(x), nil
}

// Filter returns the designed FIR runtime, or nil before Configure.
func (l *Lowpass) Filter() *Filter { return l.filter }

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
