// Package resolve determines the per-run time-zero bins, the data range
// (first/last good bin) and the fit window from the RUN block, the GLOBAL
// block and the raw data, falling back to estimates with a warning when a
// value is given nowhere.
//
// It also parses the FIT_RANGE command used to change the fit window
// between minimisation steps.
package resolve
