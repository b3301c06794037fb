package check

import (
	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/expr"
)

// Liveness checks G F prop — that prop holds infinitely often — by
// searching for a fair lasso in which prop is false throughout the cycle.
// Finding one is a counterexample (Verdict False); exhausting the bound
// without finding one leaves the verdict Unknown, since lasso search is
// one-sided: it refutes but never proves liveness at a finite bound.
func Liveness(e *bmc.Engine, prop *expr.Expr) (*Result, error) {
	cr, err := e.FindLasso(prop)
	if err != nil {
		return nil, err
	}
	return fromSafety(cr), nil
}
