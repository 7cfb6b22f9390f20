// Package objective evaluates the goodness-of-fit statistics of a single
// histogram fit: chi-square, expected chi-square (Neyman vs. Pearson
// variance), the Poisson maximum log-likelihood deviance and its expected
// (G-test) variant.
//
// The reduction over the fit bins runs on a bounded pool of goroutines.
// Each chunk accumulates into its own slot, so the result only depends on
// the chunking, never on scheduling.
package objective
