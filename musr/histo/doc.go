// Package histo assembles the working histogram of a single-histogram run:
// additional runs are added onto the primary run and detector channels are
// grouped, both aligned on their time-zero bins; the background is fitted,
// subtracted as a fixed value or estimated from a pre-t0 interval; finally
// the histogram is packed (rebinned) for fitting or display.
package histo
