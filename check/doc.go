// Package check implements the property checkers built on top of the
// bounded model-checking engine: safety, eventually-never, liveness via
// lasso detection, an LTL tableau reduced to safety/liveness, equivalence
// between two transition systems, and reachability simulation.
package check
