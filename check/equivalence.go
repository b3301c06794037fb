package check

import (
	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

// OutputsEqual builds the conjunction outputsA[i] = outputsB[i] for every
// paired output, the property an equivalence check proves against the
// product system.
func OutputsEqual(m *expr.Manager, outputsA, outputsB []symbol.Symbol) (*expr.Expr, error) {
	if len(outputsA) != len(outputsB) {
		return nil, ErrOutputArityMismatch
	}
	acc := m.True()
	for i := range outputsA {
		eq := m.MustEquals(m.Sym(outputsA[i]), m.Sym(outputsB[i]))
		var err error
		acc, err = m.And(acc, eq)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// product builds the product HTS of a and b: a fresh HTS unioning both
// members' variable partitions and TS lists. Per ts.HTS.Combine's own
// contract this assumes a and b share their input symbols (the common
// interface) and otherwise use disjoint state/output symbol namespaces;
// callers that instantiated a and b from the same port declarations
// already satisfy this.
func product(a, b *ts.HTS) *ts.HTS {
	p := ts.NewHTS(a.Name + "_vs_" + b.Name)
	p.Combine(a)
	p.Combine(b)
	return p
}

// Equivalence checks that a and b, two HTSs sharing an input interface,
// produce equal values on outputsA/outputsB at every reachable state
// within the engine's configured bound.
func Equivalence(m *expr.Manager, s *solver.Solver, a, b *ts.HTS, outputsA, outputsB []symbol.Symbol, cfg bmc.Config) (*Result, error) {
	prop, err := OutputsEqual(m, outputsA, outputsB)
	if err != nil {
		return nil, err
	}
	e, err := bmc.NewEngine(m, product(a, b), s, cfg, nil)
	if err != nil {
		return nil, err
	}
	return Safety(e, prop)
}
