package histo

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-musr/musr"
)

// AddShifted adds src[j+shift] onto dst[j] for every j where both indices
// are in range. Bins that would fall outside either slice are dropped.
func AddShifted(dst, src []float64, shift int) {
	lo := max(0, -shift)
	hi := min(len(dst), len(src)-shift)
	if hi <= lo {
		return
	}
	vecmath.AddBlockInPlace(dst[lo:hi], src[lo+shift:hi+shift])
}

// AddRuns adds the channels of an additional run onto the primary run's
// channels. Channel k of the additional run is shifted by
// addT0s[k]-t0s[k] so both time-zero bins coincide.
func AddRuns(channels [][]float64, t0s []float64, add [][]float64, addT0s []float64) error {
	if len(add) != len(channels) {
		return fmt.Errorf("%w: %d primary channels, %d added", ErrNoChannels, len(channels), len(add))
	}
	if len(t0s) != len(channels) || len(addT0s) != len(channels) {
		return ErrT0Count
	}
	for k := range channels {
		AddShifted(channels[k], add[k], int(addT0s[k])-int(t0s[k]))
	}
	return nil
}

// Group sums all channels onto a copy of the first one. Channel i is
// shifted by t0s[i]-t0s[0].
func Group(channels [][]float64, t0s []float64) ([]float64, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if len(t0s) != len(channels) {
		return nil, ErrT0Count
	}

	out := make([]float64, len(channels[0]))
	copy(out, channels[0])
	for i := 1; i < len(channels); i++ {
		AddShifted(out, channels[i], int(t0s[i])-int(t0s[0]))
	}
	return out, nil
}

// Assemble copies the forward channels of primary, adds the additional runs
// and groups the result. addT0s[k] holds the t0s of adds[k].
func Assemble(primary *musr.RawRun, adds []*musr.RawRun, channels []int, t0s []float64, addT0s [][]float64) ([]float64, error) {
	fwd, err := copyChannels(primary, channels)
	if err != nil {
		return nil, err
	}

	for k, run := range adds {
		if k >= len(addT0s) {
			return nil, fmt.Errorf("%w: addrun %s", ErrT0Count, run.Name)
		}
		add, err := channelBins(run, channels)
		if err != nil {
			return nil, err
		}
		if err := AddRuns(fwd, t0s, add, addT0s[k]); err != nil {
			return nil, fmt.Errorf("addrun %s: %w", run.Name, err)
		}
	}

	return Group(fwd, t0s)
}

func copyChannels(run *musr.RawRun, channels []int) ([][]float64, error) {
	bins, err := channelBins(run, channels)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(bins))
	for i, b := range bins {
		out[i] = append([]float64(nil), b...)
	}
	return out, nil
}

func channelBins(run *musr.RawRun, channels []int) ([][]float64, error) {
	out := make([][]float64, len(channels))
	for i, no := range channels {
		ch := run.Channel(no)
		if ch == nil {
			return nil, fmt.Errorf("%w: run %s, channel %d", ErrMissingChannel, run.Name, no)
		}
		out[i] = ch.Bins
	}
	return out, nil
}
