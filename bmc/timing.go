package bmc

import (
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

// TimingTable holds, for every step in [0, horizon+1], the variable
// substitution that projects an untimed formula onto that step: a current
// symbol v becomes timed(v,t), its prime becomes timed(v,t+1), and its
// prev becomes timed(v,t-1). A backward table is built the same way but
// onto ptimed symbols, with prime/prev swapped, for strategies that
// unroll from the target state back toward the initial one.
type TimingTable struct {
	forward  []map[symbol.Symbol]*expr.Expr
	backward []map[symbol.Symbol]*expr.Expr
}

// BuildTimingTable constructs both the forward and backward substitution
// tables for every step in [0, horizon+1], over vars (every current-view
// symbol of the system being unrolled).
func BuildTimingTable(m *expr.Manager, vars ts.VarSet, horizon int) *TimingTable {
	tt := &TimingTable{
		forward:  make([]map[symbol.Symbol]*expr.Expr, horizon+2),
		backward: make([]map[symbol.Symbol]*expr.Expr, horizon+2),
	}
	for t := 0; t <= horizon+1; t++ {
		fwd := make(map[symbol.Symbol]*expr.Expr, 3*len(vars))
		bwd := make(map[symbol.Symbol]*expr.Expr, 3*len(vars))
		for v := range vars {
			fwd[v] = m.Sym(symbol.AtTime(v, t))
			fwd[v.Prime()] = m.Sym(symbol.AtTime(v, t+1))
			if t > 0 {
				fwd[v.PrevOf()] = m.Sym(symbol.AtTime(v, t-1))
			}

			bwd[v] = m.Sym(symbol.AtPtime(v, t))
			if t > 0 {
				bwd[v.Prime()] = m.Sym(symbol.AtPtime(v, t-1))
			}
			bwd[v.PrevOf()] = m.Sym(symbol.AtPtime(v, t+1))
		}
		tt.forward[t] = fwd
		tt.backward[t] = bwd
	}
	return tt
}

// AtTime substitutes phi into its forward-timed view at step t.
func (tt *TimingTable) AtTime(m *expr.Manager, phi *expr.Expr, t int) *expr.Expr {
	return expr.Substitute(m, phi, tt.forward[t])
}

// AtPtime substitutes phi into its backward-timed view at step t.
func (tt *TimingTable) AtPtime(m *expr.Manager, phi *expr.Expr, t int) *expr.Expr {
	return expr.Substitute(m, phi, tt.backward[t])
}
