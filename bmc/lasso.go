package bmc

import (
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/symbol"
)

// FindLasso searches for a fair counterexample to the liveness property
// "prop holds infinitely often": a finite prefix reaching some state at
// step j, a cycle back to that same state (restricted to state variables)
// at a later step k, with prop false throughout the cycle [j, k-1]. The
// first such lasso found, at the smallest k and then the smallest j, is
// returned as a counterexample.
func (e *Engine) FindLasso(prop *expr.Expr) (*CheckResult, error) {
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

	for k := 1; k <= e.cfg.KMax; k++ {
		trans := tt.AtTime(e.m, e.single.trans, k-1)
		invar := tt.AtTime(e.m, e.single.invar, k)
		if err := e.s.Assert(e.m.MustAnd(trans, invar)); err != nil {
			return nil, err
		}

		for j := 0; j < k; j++ {
			loopBack, err := e.stateEquality(tt, j, k)
			if err != nil {
				return nil, err
			}

			notPCycle := e.m.True()
			for i := j; i < k; i++ {
				var err error
				notPCycle, err = e.m.And(notPCycle, e.m.MustNot(tt.AtTime(e.m, prop, i)))
				if err != nil {
					return nil, err
				}
			}

			lasso, err := e.m.And(loopBack, notPCycle)
			if err != nil {
				return nil, err
			}
			res, model, err := e.checkUnderScope(lasso, nil)
			if err != nil {
				return nil, err
			}
			if res == solver.Sat {
				return &CheckResult{Outcome: OutcomeUnsafe, K: k, Model: model, Strategy: LTL}, nil
			}
		}
	}
	return &CheckResult{Outcome: OutcomeUnknown, K: e.cfg.KMax, Strategy: LTL}, nil
}

func (e *Engine) stateEquality(tt *TimingTable, j, k int) (*expr.Expr, error) {
	acc := e.m.True()
	for v := range e.h.StateVars {
		atJ := e.m.Sym(symbol.AtTime(v, j))
		atK := e.m.Sym(symbol.AtTime(v, k))
		eq := e.m.MustEquals(atJ, atK)
		var err error
		acc, err = e.m.And(acc, eq)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
