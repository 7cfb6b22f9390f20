package resolve

import "errors"

var (
	ErrNoChannels     = errors.New("resolve: no forward channels given")
	ErrMissingChannel = errors.New("resolve: channel not present in run data")
	ErrMissingRun     = errors.New("resolve: run data missing")
	ErrT0OutOfRange   = errors.New("resolve: t0 outside histogram")
	ErrDataRange      = errors.New("resolve: data range outside histogram")
)
