package resolve

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/musr"
)

// T0s resolves the time-zero bin of every forward channel of run. The
// sources are tried in order: RUN block, GLOBAL block, data file, reader
// estimate. Values taken from the data file or the estimate are written
// back into the RUN block so a second call returns the same result.
func T0s(run *musr.RunBlock, global *musr.GlobalBlock, raw *musr.RawRun, log logrus.FieldLogger) ([]float64, error) {
	if len(run.ForwardChannels) == 0 {
		return nil, ErrNoChannels
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingRun, run.Name())
	}

	t0s := make([]float64, len(run.ForwardChannels))
	for i, no := range run.ForwardChannels {
		ch := raw.Channel(no)
		if ch == nil {
			return nil, fmt.Errorf("%w: run %s, channel %d", ErrMissingChannel, raw.Name, no)
		}

		t0 := run.T0At(i)
		if t0 < 0 && global != nil {
			t0 = global.T0At(i)
		}
		if t0 < 0 && ch.T0 > 0 {
			t0 = ch.T0
			run.SetT0(i, t0)
		}
		if t0 < 0 {
			t0 = ch.T0Estimated
			run.SetT0(i, t0)
			log.WithFields(logrus.Fields{"run": raw.Name, "channel": no, "t0": t0}).
				Warn("no t0 in run block, global block or data file; using the estimated t0")
		}

		if err := checkT0(t0, len(ch.Bins)); err != nil {
			return nil, fmt.Errorf("run %s, channel %d: %w", raw.Name, no, err)
		}
		t0s[i] = t0
	}

	return t0s, nil
}

// AddRunT0s resolves the time-zero bins of additional run k (zero based,
// i.e. run.RunNames[k+1]). The chain is RUN block, data file, estimate.
func AddRunT0s(run *musr.RunBlock, k int, raw *musr.RawRun, log logrus.FieldLogger) ([]float64, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: addrun %d", ErrMissingRun, k+1)
	}

	t0s := make([]float64, len(run.ForwardChannels))
	for i, no := range run.ForwardChannels {
		ch := raw.Channel(no)
		if ch == nil {
			return nil, fmt.Errorf("%w: addrun %s, channel %d", ErrMissingChannel, raw.Name, no)
		}

		t0 := run.AddT0At(k, i)
		if t0 < 0 && ch.T0 > 0 {
			t0 = ch.T0
			run.SetAddT0(k, i, t0)
		}
		if t0 < 0 {
			t0 = ch.T0Estimated
			run.SetAddT0(k, i, t0)
			log.WithFields(logrus.Fields{"run": raw.Name, "channel": no, "t0": t0}).
				Warn("no addrun t0 in run block or data file; using the estimated t0")
		}

		if err := checkT0(t0, len(ch.Bins)); err != nil {
			return nil, fmt.Errorf("addrun %s, channel %d: %w", raw.Name, no, err)
		}
		t0s[i] = t0
	}

	return t0s, nil
}

func checkT0(t0 float64, n int) error {
	if t0 < 0 || t0 > float64(n) {
		return fmt.Errorf("%w: %g not in [0, %d]", ErrT0OutOfRange, t0, n)
	}
	return nil
}
