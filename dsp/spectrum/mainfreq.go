package spectrum

import "fmt"

// refineSteps is the number of Goertzel probes per FFT bin spacing.
const refineSteps = 32

// MainFrequency returns the frequency in MHz of the strongest spectral
// line of data sampled every dt µs. The low frequency slope that falls off
// from DC is skipped, so a decaying or offset signal does not win. The FFT
// peak is refined by scanning ±1 bin with a Goertzel analyzer.
func MainFrequency(data []float64, dt float64, opts ...Option) (float64, error) {
	cfg := newConfig(opts)
	cfg.dcRemoval = true
	res, buf, err := transform(data, dt, cfg)
	if err != nil {
		return 0, err
	}

	power := res.Power()
	if len(power) < 3 {
		return 0, fmt.Errorf("%w: %d samples", errEmptyInput, len(data))
	}

	start := 1
	for start < len(power)-1 && power[start+1] < power[start] {
		start++
	}
	peak := start
	for i := start; i < len(power); i++ {
		if power[i] > power[peak] {
			peak = i
		}
	}

	sampleRate := 1 / dt
	binWidth := sampleRate / float64(res.Size)
	g, err := NewGoertzel(float64(peak)*binWidth, sampleRate)
	if err != nil {
		return float64(peak) * res.FreqStep, nil
	}

	best, bestPower := float64(peak)*binWidth, -1.0
	for k := -refineSteps; k <= refineSteps; k++ {
		f := (float64(peak) + float64(k)/refineSteps) * binWidth
		if g.SetFrequency(f) != nil {
			continue
		}
		g.Reset()
		g.ProcessBlock(buf)
		if p := g.Power(); p > bestPower {
			best, bestPower = f, p
		}
	}

	return best * cfg.unitScale, nil
}
