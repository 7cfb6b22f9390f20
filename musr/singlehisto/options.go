package singlehisto

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-musr/musr"
	"github.com/cwbudde/algo-musr/musr/view"
)

type config struct {
	log      logrus.FieldLogger
	workers  int
	table    musr.ParameterTable
	view     musr.ViewSettings
	lowpass  view.LowPass
	runIndex int
}

// Option configures a Run.
type Option func(*config)

// WithLogger sets the diagnostics logger. The default discards output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) { c.log = log }
}

// WithWorkers sets the number of goroutines used by Evaluate. Values < 1
// select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithParameterTable enables the N0 estimate: New writes the estimated
// amplitude into the table when the normalization is a free parameter.
func WithParameterTable(t musr.ParameterTable) Option {
	return func(c *config) { c.table = t }
}

// WithView sets the settings used by ViewData.
func WithView(s musr.ViewSettings) Option {
	return func(c *config) { c.view = s }
}

// WithLowPass replaces the Kaiser low pass of the RRF view.
func WithLowPass(lp view.LowPass) Option {
	return func(c *config) { c.lowpass = lp }
}

// WithRunIndex sets the position of the run in the fit. It selects the
// matching pair of a per-run FIT_RANGE command.
func WithRunIndex(i int) Option {
	return func(c *config) { c.runIndex = i }
}
