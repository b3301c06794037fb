package bmc

import (
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/symbol"
)

// SimResult is the outcome of Simulate: whether a trace
// matching the goal was found, the step at which it was found, and the
// witnessing model. Unlike CheckResult, finding something here is success
// rather than a counterexample, so the polarity is inverted.
type SimResult struct {
	Found bool
	K     int
	Model map[symbol.Symbol]*expr.Expr
}

// Simulate picks a concrete state reachable within KMax steps that
// satisfies goal, growing the unrolling one step at a time starting from
// init ∧ invar. Unlike CheckSafety it makes no claim about every
// reachable state, only about whether one matching goal exists.
func (e *Engine) Simulate(goal *expr.Expr) (*SimResult, error) {
	tt := BuildTimingTable(e.m, e.h.AllVars(), e.cfg.KMax)

	if err := e.s.Push(); err != nil {
		return nil, err
	}
	defer e.s.Pop()

	init0 := tt.AtTime(e.m, e.single.init, 0)
	invar0 := tt.AtTime(e.m, e.single.invar, 0)
	if err := e.s.Assert(e.m.MustAnd(init0, invar0)); err != nil {
		return nil, err
	}

	for k := 0; k <= e.cfg.KMax; k++ {
		if k > 0 {
			trans := tt.AtTime(e.m, e.single.trans, k-1)
			invar := tt.AtTime(e.m, e.single.invar, k)
			if err := e.s.Assert(e.m.MustAnd(trans, invar)); err != nil {
				return nil, err
			}
		}

		goalK := tt.AtTime(e.m, goal, k)
		res, model, err := e.checkUnderScope(goalK, nil)
		if err != nil {
			return nil, err
		}
		if res == solver.Sat {
			return &SimResult{Found: true, K: k, Model: model}, nil
		}
	}
	return &SimResult{Found: false, K: e.cfg.KMax}, nil
}
