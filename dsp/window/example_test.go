package window

import "fmt"

func ExampleGenerate() {
	w := Generate(TypeHann, 4)
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.75 0.75 0.00
}

func ExampleApply() {
	buf := []float64{1, 1, 1, 1}
	Apply(TypeApodizationMedium, buf)
	fmt.Printf("%.3f %.3f %.3f %.3f\n", buf[0], buf[1], buf[2], buf[3])
	// Output:
	// 1.000 0.889 0.604 0.281
}

func ExampleKaiserLength() {
	taps, _ := KaiserLength(60, 0.2)
	fmt.Printf("taps=%d beta=%.3f\n", taps, KaiserBeta(60))
	// Output:
	// taps=37 beta=5.653
}
