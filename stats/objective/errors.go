package objective

import "errors"

var (
	ErrEmptyFitRange = errors.New("objective: empty fit range")
	ErrParamIndex    = errors.New("objective: parameter reference out of range")
	ErrUnknownKind   = errors.New("objective: unknown statistic kind")
)
