package window

// Apodization polynomial coefficients c_j of q(x) = Σ c_j x^(2j), x = i/N.
// Weak and medium are the three-term Norton-Beer style tapers, strong adds
// the fourth and eighth order terms.
var apodizationPolynomials = map[Type][]float64{
	TypeApodizationWeak:   threeTerm(0.384093, -0.087577, 0.703484),
	TypeApodizationMedium: threeTerm(0.152442, -0.136176, 0.983734),
	TypeApodizationStrong: fiveTerm(0.045335, 0.554883, 0.399782),
}

func threeTerm(a, b, c float64) []float64 {
	return []float64{a + b + c, -(b + 2*c), c}
}

func fiveTerm(a, b, c float64) []float64 {
	return []float64{a + b + c, -2 * (b + 2*c), b + 6*c, -4 * c, c}
}

func polynomialAt(x float64, coeffs []float64) float64 {
	x2 := x * x
	sum := 0.0
	pow := 1.0
	for _, c := range coeffs {
		sum += c * pow
		pow *= x2
	}
	return sum
}

// IsApodization reports whether t is one of the µSR apodization tapers.
func (t Type) IsApodization() bool {
	_, ok := apodizationPolynomials[t]
	return ok
}
