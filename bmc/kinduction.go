package bmc

import (
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
)

// kInduction proves prop by induction with a k-step lookahead rather than
// unrolling to a fixed bound: at each k it first checks the base case
// (does a concrete trace of length k starting at init violate prop), then
// the step case (can k consecutive states satisfying prop be followed by
// one that doesn't, with no constraint on how the trace started).
func (e *Engine) kInduction(prop *expr.Expr) (*CheckResult, error) {
	tt := BuildTimingTable(e.m, e.h.AllVars(), e.cfg.KMax)

	for k := 0; k <= e.cfg.KMax; k++ {
		unrolled, err := UnrollFormula(e.m, tt, e.single.trans, e.single.invar, 0, k)
		if err != nil {
			return nil, err
		}
		notPk := e.m.MustNot(tt.AtTime(e.m, prop, k))

		init0 := tt.AtTime(e.m, e.single.init, 0)
		invar0 := tt.AtTime(e.m, e.single.invar, 0)
		base, err := e.m.And(init0, invar0, unrolled, notPk)
		if err != nil {
			return nil, err
		}
		res, model, err := e.checkUnderScope(base, nil)
		if err != nil {
			return nil, err
		}
		if res == solver.Sat {
			return &CheckResult{Outcome: OutcomeUnsafe, K: k, Model: model, Strategy: KInd}, nil
		}

		if k == 0 {
			continue
		}
		pPrefix := e.m.True()
		for i := 0; i < k; i++ {
			var err error
			pPrefix, err = e.m.And(pPrefix, tt.AtTime(e.m, prop, i))
			if err != nil {
				return nil, err
			}
		}
		step, err := e.m.And(unrolled, pPrefix, notPk)
		if err != nil {
			return nil, err
		}
		stepRes, _, err := e.checkUnderScope(step, nil)
		if err != nil {
			return nil, err
		}
		if stepRes == solver.Unsat {
			return &CheckResult{Outcome: OutcomeSafe, K: k, Strategy: KInd}, nil
		}
	}
	return &CheckResult{Outcome: OutcomeUnknown, K: e.cfg.KMax, Strategy: KInd}, nil
}
