package objective

import (
	"fmt"
	"strings"
)

// Kind selects the statistic computed by Evaluate.
type Kind int

const (
	// ChiSquare weighs residuals with the measured variance.
	ChiSquare Kind = iota
	// ChiSquareExpected weighs residuals with the model prediction.
	ChiSquareExpected
	// MaxLogLikelihood is twice the negative Poisson log-likelihood ratio.
	MaxLogLikelihood
	// MaxLogLikelihoodExpected keeps only the data term of the deviance.
	MaxLogLikelihoodExpected
)

var kindNames = [...]string{
	ChiSquare:                "chisq",
	ChiSquareExpected:        "chisq-expected",
	MaxLogLikelihood:         "mlh",
	MaxLogLikelihoodExpected: "mlh-expected",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsChiSquare reports whether k is one of the chi-square kinds.
func (k Kind) IsChiSquare() bool {
	return k == ChiSquare || k == ChiSquareExpected
}

// ParseKind parses the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if s == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
