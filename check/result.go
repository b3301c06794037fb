package check

import (
	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
)

// Verdict is the three-valued answer a checker gives for one property.
type Verdict uint8

const (
	// Unknown means the search was inconclusive at the configured bound.
	Unknown Verdict = iota
	// True means the property was shown to hold.
	True
	// False means a counterexample was found.
	False
)

func (v Verdict) String() string {
	switch v {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of one checker invocation: the verdict, the depth
// at which it was decided, a witnessing model on False, and the strategy
// that produced it.
type Result struct {
	Verdict  Verdict
	K        int
	Model    map[symbol.Symbol]*expr.Expr
	Strategy bmc.Strategy
}

func fromSafety(cr *bmc.CheckResult) *Result {
	r := &Result{K: cr.K, Model: cr.Model, Strategy: cr.Strategy}
	switch cr.Outcome {
	case bmc.OutcomeSafe:
		r.Verdict = True
	case bmc.OutcomeUnsafe:
		r.Verdict = False
	default:
		r.Verdict = Unknown
	}
	return r
}
