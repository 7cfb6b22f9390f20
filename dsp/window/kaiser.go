package window

import "math"

// Kaiser returns Kaiser window coefficients.
func Kaiser(size int, beta float64, opts ...Option) ([]float64, error) {
	if size <= 0 || beta < 0 {
		return nil, validateKaiser(size, beta)
	}

	return Generate(TypeKaiser, size, append(opts, WithAlpha(beta))...), nil
}

// KaiserBeta returns the Kaiser shape parameter reaching the given stop band
// attenuation in dB.
func KaiserBeta(attenuationDB float64) float64 {
	a := attenuationDB
	switch {
	case a > 50:
		return 0.1102 * (a - 8.7)
	case a >= 21:
		return 0.5842*math.Pow(a-21, 0.4) + 0.07886*(a-21)
	default:
		return 0
	}
}

// KaiserLength returns the odd tap count of a Kaiser windowed design with
// the given attenuation in dB and transition width as a fraction of π
// rad/sample. An odd length keeps the design centred on a sample.
func KaiserLength(attenuationDB, width float64) (int, error) {
	if width <= 0 || width >= 1 {
		return 0, errTransitionWidth
	}
	m := int(math.Ceil((attenuationDB - 8) / (2.285 * width * math.Pi)))
	m = max(m, 1)
	if m%2 == 0 {
		m++
	}
	return m, nil
}

func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1
	term := math.Sqrt(math.Max(0, 1-r*r))

	return besselI0(beta*term) / besselI0(beta)
}

// besselI0 returns a numerical approximation of the modified Bessel function I0.
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := x / 3.75
		y *= y

		return 1.0 + y*(3.5156229+y*(3.0899424+y*(1.2067492+y*(0.2659732+y*(0.0360768+y*0.0045813)))))
	}

	y := 3.75 / ax

	return (math.Exp(ax) / math.Sqrt(ax)) *
		(0.39894228 + y*(0.01328592+y*(0.00225319+y*(-0.00157565+y*(0.00916281+y*(-0.02057706+y*(0.02635537+y*(-0.01647633+y*0.00392377))))))))
}
