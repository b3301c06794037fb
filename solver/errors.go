package solver

import "errors"

var (
	// ErrNoModel is returned by Solver.Model when called before a Sat
	// CheckSat, or after any Assert/Push/Pop invalidated the last result.
	ErrNoModel = errors.New("solver: no model available")
	// ErrClosed is returned by any call made after Close.
	ErrClosed = errors.New("solver: backend closed")
	// ErrUnbalancedPop is returned when Pop is called with no matching Push.
	ErrUnbalancedPop = errors.New("solver: pop without matching push")
)
