// Package bmc turns a flattened transition system and a property into a
// yes/no/unknown answer by asserting successive unrollings of the
// transition relation to an SMT solver and inspecting satisfiability.
//
// Engine holds the pieces shared across every search: the expression
// manager used to build timed formulas, the transition system being
// unrolled, and the solver instance accumulating assertions. Which search
// runs is chosen by Strategy (forward, backward, zigzag, interpolation,
// auto-fallback, or all of them racing concurrently) or, when Config.Prove
// is set, by k-induction instead of a bounded search. Simulate and
// FindLasso answer a different kind of question — does a reachable state
// exist, does a fair cycle exist — reusing the same timing and unrolling
// machinery.
package bmc
