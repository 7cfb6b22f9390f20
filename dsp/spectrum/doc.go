// Package spectrum computes Fourier spectra of µSR time series.
//
// [Transform] applies an apodization window and zero padding, runs an FFT
// and returns the non-negative frequency half of the spectrum on a
// frequency axis in MHz (optionally rescaled into field units by the
// caller). [MainFrequency] locates the dominant precession line and
// refines it below the FFT bin spacing with a Goertzel scan.
package spectrum
