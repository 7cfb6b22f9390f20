package histo

import "errors"

var (
	ErrMissingChannel  = errors.New("histo: channel not present in run data")
	ErrNoChannels      = errors.New("histo: no channels to group")
	ErrT0Count         = errors.New("histo: t0 count does not match channel count")
	ErrBackgroundRange = errors.New("histo: background range outside histogram")
)
