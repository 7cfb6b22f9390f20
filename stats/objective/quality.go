package objective

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Quality summarizes a minimum of the objective.
type Quality struct {
	Kind    Kind
	Value   float64
	NDF     int
	Reduced float64
	// PValue is the upper tail probability of Value under a chi-square
	// distribution with NDF degrees of freedom. The likelihood deviance is
	// asymptotically chi-square distributed as well.
	PValue float64
}

// Assess returns the quality of a statistic value obtained from nBins
// fitted points with nFree free parameters. Reduced and PValue are NaN
// when there are no degrees of freedom left.
func Assess(kind Kind, value float64, nBins, nFree int) Quality {
	q := Quality{Kind: kind, Value: value, NDF: nBins - nFree}
	if q.NDF <= 0 {
		q.Reduced = math.NaN()
		q.PValue = math.NaN()
		return q
	}
	q.Reduced = value / float64(q.NDF)
	q.PValue = distuv.ChiSquared{K: float64(q.NDF)}.Survival(value)
	return q
}
