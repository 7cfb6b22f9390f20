// Package singlehisto prepares one single histogram run for fitting and
// exposes the objective functions an optimizer minimises.
//
// New resolves t0, data range and fit range, assembles the forward
// histogram from the primary run and its add-runs, applies the background
// policy and packs the result into the fit data set. The returned Run is
// then driven by an optimizer through Evaluate, and by a plotting layer
// through FitData and ViewData.
package singlehisto
