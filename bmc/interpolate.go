package bmc

import (
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
)

// interpolate implements property-directed reachability via Craig
// interpolation: at each bound k it first looks for a concrete
// counterexample (plain BMC at k), and failing that strengthens an
// over-approximation R of the reachable states with an interpolant split
// at the midpoint of the unrolling, continuing until R implies prop or a
// counterexample turns up at a larger k.
func (e *Engine) interpolate(prop *expr.Expr) (*CheckResult, error) {
	ib, ok := e.s.Backend().(solver.InterpolatingBackend)
	if !ok {
		return nil, ErrNoInterpolation
	}

	tt := BuildTimingTable(e.m, e.h.AllVars(), e.cfg.KMax)
	reach := e.single.init

	for k := e.kMin(); k <= e.cfg.KMax; k++ {
		bmcFormula, err := UnrollFormula(e.m, tt, e.single.trans, e.single.invar, 0, k)
		if err != nil {
			return nil, err
		}
		init0 := tt.AtTime(e.m, e.single.init, 0)
		invar0 := tt.AtTime(e.m, e.single.invar, 0)
		notPk := e.m.MustNot(tt.AtTime(e.m, prop, k))

		cex, err := e.m.And(init0, invar0, bmcFormula, notPk)
		if err != nil {
			return nil, err
		}
		res, model, err := e.checkUnderScope(cex, nil)
		if err != nil {
			return nil, err
		}
		if res == solver.Sat {
			return &CheckResult{Outcome: OutcomeUnsafe, K: k, Model: model, Strategy: Interpolation}, nil
		}

		mid := k / 2
		a, err := e.m.And(tt.AtTime(e.m, reach, 0), invar0, bmcPrefix(e.m, tt, e.single.trans, e.single.invar, 0, mid))
		if err != nil {
			return nil, err
		}
		b, err := e.m.And(bmcPrefix(e.m, tt, e.single.trans, e.single.invar, mid, k), notPk)
		if err != nil {
			return nil, err
		}

		unsatRes, _, err := e.checkUnderScope(e.m.MustAnd(a, b), nil)
		if err != nil {
			return nil, err
		}
		if unsatRes != solver.Unsat {
			continue
		}

		itp, err := ib.Interpolate(a, b)
		if err != nil {
			return nil, err
		}

		// Fixpoint: the interpolant adds nothing reach doesn't already
		// cover, so no larger k can uncover a new reachable state.
		notReach := e.m.MustNot(reach)
		newStates, _, err := e.checkUnderScope(e.m.MustAnd(itp, notReach), nil)
		if err != nil {
			return nil, err
		}
		if newStates != solver.Sat {
			return &CheckResult{Outcome: OutcomeSafe, K: k, Strategy: Interpolation}, nil
		}

		reach, err = e.m.Or(reach, itp)
		if err != nil {
			return nil, err
		}
	}
	return &CheckResult{Outcome: OutcomeUnknown, K: e.cfg.KMax, Strategy: Interpolation}, nil
}

func bmcPrefix(m *expr.Manager, tt *TimingTable, trans, invar *expr.Expr, kStart, kEnd int) *expr.Expr {
	f, err := UnrollFormula(m, tt, trans, invar, kStart, kEnd)
	if err != nil {
		panic(err)
	}
	return f
}
