package bmc

// Strategy selects how the BMC engine searches for a counterexample or
// proof at an increasing bound.
type Strategy string

const (
	// Fwd unrolls forward from the initial states toward the bound.
	Fwd Strategy = "FWD"
	// Bwd unrolls backward from the negated property toward the initial
	// states.
	Bwd Strategy = "BWD"
	// ZigZag unrolls from both ends, meeting in the middle.
	ZigZag Strategy = "ZZ"
	// Interpolation strengthens an over-approximation of the reachable
	// states with Craig interpolants instead of unrolling to the bound.
	Interpolation Strategy = "INT"
	// NoUnroll picks concrete states satisfying init and the invariant
	// without building a transition trace; used for bare simulation.
	NoUnroll Strategy = "NU"
	// LTL reduces a temporal-logic property to a safety check on an
	// augmented system before running the underlying bound search.
	LTL Strategy = "LTL"
	// Auto tries Fwd first and falls back through Bwd, ZigZag and
	// Interpolation on an inconclusive outcome at the bound.
	Auto Strategy = "AUTO"
	// All runs every incremental strategy concurrently and returns the
	// first conclusive answer.
	All Strategy = "ALL"
	// KInd proves a property by k-induction instead of bounding the search
	// at a fixed depth.
	KInd Strategy = "KIND"
)

func (s Strategy) String() string { return string(s) }

// autoFallback is the precedence Auto walks when an attempt is
// inconclusive at the current bound.
var autoFallback = []Strategy{Fwd, Bwd, ZigZag, Interpolation}
