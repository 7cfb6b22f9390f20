package objective_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/stats/objective"
)

type flat struct{}

func (flat) Prime(_, _ []float64)                   {}
func (flat) Func(_ float64, _, _ []float64) float64 { return 0 }

func ExampleEvaluator_Evaluate() {
	data := &musr.DataSet{
		DataTimeStep: 0.1,
		Value:        []float64{12, 8, 10, 10},
		Error:        []float64{2, 2, 2, 2},
	}
	e := objective.New(data, flat{}, objective.Refs{
		Norm:     musr.Param(0),
		Lifetime: musr.Param(1),
	})

	chisq, _ := e.Evaluate(objective.ChiSquare, []float64{10, math.Inf(1)})
	q := objective.Assess(objective.ChiSquare, chisq, e.Len(), 1)
	fmt.Printf("chisq = %.1f, NDF = %d, reduced = %.2f\n", chisq, q.NDF, q.Reduced)
	// Output: chisq = 2.0, NDF = 3, reduced = 0.67
}
