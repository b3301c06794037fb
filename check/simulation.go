package check

import (
	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/expr"
)

// Simulation checks whether a concrete state satisfying goal is reachable
// within the engine's configured bound — the smallest k for which
// I ∧ unroll(0..k) ∧ goal@k is satisfiable.
func Simulation(e *bmc.Engine, goal *expr.Expr) (*Result, error) {
	sr, err := e.Simulate(goal)
	if err != nil {
		return nil, err
	}
	r := &Result{K: sr.K, Model: sr.Model, Strategy: bmc.NoUnroll}
	if sr.Found {
		r.Verdict = True
	} else {
		r.Verdict = Unknown
	}
	return r, nil
}
