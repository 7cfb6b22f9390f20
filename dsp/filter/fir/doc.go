// Package fir provides a direct-form FIR filter runtime and the Kaiser
// windowed-sinc low pass used to smooth rotating reference frame theory
// curves.
//
// A [Filter] applies odd-length symmetric coefficients centred on each
// sample so the output is not delayed. [Lowpass] designs the coefficients.
package fir
