package bmc

import "github.com/htsmc/htsmc/expr"

// Unroll builds the list of conjuncts unrolling trans and invar from
// kStart to kEnd. When kStart <= kEnd it walks forward using AtTime;
// otherwise it walks backward using AtPtime with the time offsets
// reversed. The caller conjoins the result (via UnrollFormula) or pushes
// each conjunct incrementally, one solver assertion per step.
func Unroll(m *expr.Manager, tt *TimingTable, trans, invar *expr.Expr, kStart, kEnd int) []*expr.Expr {
	fwd := kStart <= kEnd
	lo, hi := kStart, kEnd
	if !fwd {
		lo, hi = kEnd, kStart
	}

	var out []*expr.Expr
	for t := lo; t < hi; t++ {
		if fwd {
			out = append(out, tt.AtTime(m, trans, t))
			out = append(out, tt.AtTime(m, invar, t+1))
		} else {
			out = append(out, tt.AtPtime(m, trans, t+1))
			out = append(out, tt.AtPtime(m, invar, t+1))
		}
	}
	return out
}

// UnrollFormula is Unroll, conjoined into a single formula. kStart ==
// kEnd yields the empty conjunction (True).
func UnrollFormula(m *expr.Manager, tt *TimingTable, trans, invar *expr.Expr, kStart, kEnd int) (*expr.Expr, error) {
	conjuncts := Unroll(m, tt, trans, invar, kStart, kEnd)
	if len(conjuncts) == 0 {
		return m.True(), nil
	}
	return m.And(conjuncts...)
}
