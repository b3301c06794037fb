package bmc

import "errors"

var (
	// ErrUnknownStrategy is returned when an Engine is asked to run a
	// Strategy value it does not recognize.
	ErrUnknownStrategy = errors.New("bmc: unknown strategy")
	// ErrNoInterpolation is returned by the interpolation strategy when
	// the underlying solver backend does not implement
	// solver.InterpolatingBackend.
	ErrNoInterpolation = errors.New("bmc: backend does not support interpolation")
	// ErrAllInconclusive names the case where every concurrent attempt of
	// the All strategy reports Unknown within the given bound. The All
	// strategy itself does not return it: it reports that case as an
	// OutcomeUnknown result with a nil error.
	ErrAllInconclusive = errors.New("bmc: all strategies were inconclusive")
)
