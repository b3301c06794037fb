package check

import (
	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/expr"
)

// Safety checks that prop, a Boolean expression over current-state
// symbols, holds at every reachable state within the engine's configured
// bound.
func Safety(e *bmc.Engine, prop *expr.Expr) (*Result, error) {
	cr, err := e.CheckSafety(prop)
	if err != nil {
		return nil, err
	}
	return fromSafety(cr), nil
}

// EventuallyNever checks G ¬bad, i.e. that bad never holds: it is safety
// of the negation of bad.
func EventuallyNever(m *expr.Manager, e *bmc.Engine, bad *expr.Expr) (*Result, error) {
	return Safety(e, m.MustNot(bad))
}
