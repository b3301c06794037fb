package check

import (
	"fmt"

	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

// LTLOp discriminates an LTL formula's top connective.
type LTLOp uint8

const (
	// LTLAtom wraps a Boolean expression over current-state symbols.
	LTLAtom LTLOp = iota
	LTLNot
	LTLAnd
	LTLOr
	// LTLNext is X φ — φ one step from now.
	LTLNext
	// LTLUntil is φ U ψ — φ holds until ψ does, and ψ eventually holds.
	LTLUntil
	// LTLRelease is φ R ψ — the dual of Until: ψ holds up to and
	// including the first state where φ holds, or forever.
	LTLRelease
	// LTLFinally is F φ = true U φ.
	LTLFinally
	// LTLGlobally is G φ = ¬F ¬φ.
	LTLGlobally
)

// LTL is a linear-temporal-logic formula over atomic state predicates.
type LTL struct {
	Op   LTLOp
	Atom *expr.Expr
	Sub  []*LTL
}

func Atom(e *expr.Expr) *LTL  { return &LTL{Op: LTLAtom, Atom: e} }
func LNot(f *LTL) *LTL        { return &LTL{Op: LTLNot, Sub: []*LTL{f}} }
func LAnd(a, b *LTL) *LTL     { return &LTL{Op: LTLAnd, Sub: []*LTL{a, b}} }
func LOr(a, b *LTL) *LTL      { return &LTL{Op: LTLOr, Sub: []*LTL{a, b}} }
func LNext(f *LTL) *LTL       { return &LTL{Op: LTLNext, Sub: []*LTL{f}} }
func LUntil(a, b *LTL) *LTL   { return &LTL{Op: LTLUntil, Sub: []*LTL{a, b}} }
func LRelease(a, b *LTL) *LTL { return &LTL{Op: LTLRelease, Sub: []*LTL{a, b}} }
func LFinally(f *LTL) *LTL    { return &LTL{Op: LTLFinally, Sub: []*LTL{f}} }
func LGlobally(f *LTL) *LTL   { return &LTL{Op: LTLGlobally, Sub: []*LTL{f}} }

// NNF rewrites f into negation-normal form: negations pushed down to
// atoms, Until/Release and Finally/Globally dualized.
func NNF(m *expr.Manager, f *LTL) *LTL {
	switch f.Op {
	case LTLAtom:
		return f
	case LTLNot:
		return nnfNeg(m, f.Sub[0])
	case LTLAnd:
		return LAnd(NNF(m, f.Sub[0]), NNF(m, f.Sub[1]))
	case LTLOr:
		return LOr(NNF(m, f.Sub[0]), NNF(m, f.Sub[1]))
	case LTLNext:
		return LNext(NNF(m, f.Sub[0]))
	case LTLUntil:
		return LUntil(NNF(m, f.Sub[0]), NNF(m, f.Sub[1]))
	case LTLRelease:
		return LRelease(NNF(m, f.Sub[0]), NNF(m, f.Sub[1]))
	case LTLFinally:
		return LFinally(NNF(m, f.Sub[0]))
	case LTLGlobally:
		return LGlobally(NNF(m, f.Sub[0]))
	default:
		panic(fmt.Sprintf("check: unknown LTL operator %d", f.Op))
	}
}

func nnfNeg(m *expr.Manager, f *LTL) *LTL {
	switch f.Op {
	case LTLAtom:
		return Atom(m.MustNot(f.Atom))
	case LTLNot:
		return NNF(m, f.Sub[0])
	case LTLAnd:
		return LOr(nnfNeg(m, f.Sub[0]), nnfNeg(m, f.Sub[1]))
	case LTLOr:
		return LAnd(nnfNeg(m, f.Sub[0]), nnfNeg(m, f.Sub[1]))
	case LTLNext:
		return LNext(nnfNeg(m, f.Sub[0]))
	case LTLUntil:
		return LRelease(nnfNeg(m, f.Sub[0]), nnfNeg(m, f.Sub[1]))
	case LTLRelease:
		return LUntil(nnfNeg(m, f.Sub[0]), nnfNeg(m, f.Sub[1]))
	case LTLFinally:
		return LGlobally(nnfNeg(m, f.Sub[0]))
	case LTLGlobally:
		return LFinally(nnfNeg(m, f.Sub[0]))
	default:
		panic(fmt.Sprintf("check: unknown LTL operator %d", f.Op))
	}
}

// tableau compiles an NNF formula into fresh Boolean auxiliary state
// variables added to h, one per temporal subformula, each governed by its
// standard fixpoint equation expressed as a transition constraint. Until's
// fixpoint is a least fixpoint — a bare equational encoding admits the
// vacuous solution where the obligation just never gets discharged — so
// each Until subformula also records a "pending" predicate; the caller
// checks liveness of its negation to rule that solution out.
type tableau struct {
	m           *expr.Manager
	h           *ts.HTS
	counter     int
	obligations []*expr.Expr
}

func newTableau(m *expr.Manager, h *ts.HTS) *tableau {
	return &tableau{m: m, h: h}
}

func (tb *tableau) fresh() symbol.Symbol {
	name := fmt.Sprintf("__ltl_%d", tb.counter)
	tb.counter++
	return symbol.New(name, sortkind.BoolSort)
}

func (tb *tableau) addAux(aux symbol.Symbol, eq *expr.Expr) error {
	free := expr.FreeVars(eq)
	vars := make(ts.VarSet, len(free))
	for v := range free {
		if v.View == symbol.Current {
			vars[v] = struct{}{}
		}
	}
	vars[aux] = struct{}{}
	t, err := ts.New(vars, ts.NewVarSet(aux), tb.m.True(), tb.m.True(), eq)
	if err != nil {
		return err
	}
	tb.h.AddTS(t)
	return nil
}

// compile returns a Boolean expression over current-state symbols
// denoting f's truth at the current step.
func (tb *tableau) compile(f *LTL) (*expr.Expr, error) {
	switch f.Op {
	case LTLAtom:
		return f.Atom, nil
	case LTLAnd:
		a, err := tb.compile(f.Sub[0])
		if err != nil {
			return nil, err
		}
		b, err := tb.compile(f.Sub[1])
		if err != nil {
			return nil, err
		}
		return tb.m.And(a, b)
	case LTLOr:
		a, err := tb.compile(f.Sub[0])
		if err != nil {
			return nil, err
		}
		b, err := tb.compile(f.Sub[1])
		if err != nil {
			return nil, err
		}
		return tb.m.Or(a, b)
	case LTLNext:
		inner, err := tb.compile(f.Sub[0])
		if err != nil {
			return nil, err
		}
		return ts.ToNext(tb.m, inner), nil
	case LTLGlobally:
		return tb.compileGlobally(f.Sub[0])
	case LTLUntil:
		return tb.compileUntil(f.Sub[0], f.Sub[1])
	case LTLFinally:
		return tb.compileUntil(Atom(tb.m.True()), f.Sub[0])
	case LTLRelease:
		return tb.compileRelease(f.Sub[0], f.Sub[1])
	case LTLNot:
		return nil, ErrNotInNNF
	default:
		return nil, fmt.Errorf("check: unknown LTL operator %d", f.Op)
	}
}

// compileGlobally encodes aux = φ ∧ X aux — the greatest fixpoint of G,
// safe to use as-is since a greatest fixpoint never needs an eventuality
// witness.
func (tb *tableau) compileGlobally(phiF *LTL) (*expr.Expr, error) {
	phi, err := tb.compile(phiF)
	if err != nil {
		return nil, err
	}
	aux := tb.fresh()
	auxExpr := tb.m.Sym(aux)
	auxNext := ts.ToNext(tb.m, auxExpr)
	rhs, err := tb.m.And(phi, auxNext)
	if err != nil {
		return nil, err
	}
	eq := tb.m.MustEquals(auxExpr, rhs)
	if err := tb.addAux(aux, eq); err != nil {
		return nil, err
	}
	return auxExpr, nil
}

// compileUntil encodes aux = ψ ∨ (φ ∧ X aux). This is Until's least
// fixpoint; the equation alone is satisfied by "aux always true" even when
// ψ never holds, so the pending predicate aux ∧ ¬ψ is recorded — a sound
// check additionally requires that pending does not hold forever.
func (tb *tableau) compileUntil(phiF, psiF *LTL) (*expr.Expr, error) {
	phi, err := tb.compile(phiF)
	if err != nil {
		return nil, err
	}
	psi, err := tb.compile(psiF)
	if err != nil {
		return nil, err
	}
	aux := tb.fresh()
	auxExpr := tb.m.Sym(aux)
	auxNext := ts.ToNext(tb.m, auxExpr)
	step, err := tb.m.And(phi, auxNext)
	if err != nil {
		return nil, err
	}
	rhs, err := tb.m.Or(psi, step)
	if err != nil {
		return nil, err
	}
	eq := tb.m.MustEquals(auxExpr, rhs)
	if err := tb.addAux(aux, eq); err != nil {
		return nil, err
	}
	pending, err := tb.m.And(auxExpr, tb.m.MustNot(psi))
	if err != nil {
		return nil, err
	}
	tb.obligations = append(tb.obligations, pending)
	return auxExpr, nil
}

// compileRelease encodes aux = ψ ∧ (φ ∨ X aux) — Release's greatest
// fixpoint, no eventuality obligation needed.
func (tb *tableau) compileRelease(phiF, psiF *LTL) (*expr.Expr, error) {
	phi, err := tb.compile(phiF)
	if err != nil {
		return nil, err
	}
	psi, err := tb.compile(psiF)
	if err != nil {
		return nil, err
	}
	aux := tb.fresh()
	auxExpr := tb.m.Sym(aux)
	auxNext := ts.ToNext(tb.m, auxExpr)
	step, err := tb.m.Or(phi, auxNext)
	if err != nil {
		return nil, err
	}
	rhs, err := tb.m.And(psi, step)
	if err != nil {
		return nil, err
	}
	eq := tb.m.MustEquals(auxExpr, rhs)
	if err := tb.addAux(aux, eq); err != nil {
		return nil, err
	}
	return auxExpr, nil
}

// LTLResult is an LTL check's outcome: the top-level safety verdict plus
// one liveness sub-result per Until/Finally obligation the formula
// compiled to (empty if the formula contains neither).
type LTLResult struct {
	Top         *Result
	Obligations []*Result
}

// Verdict folds Top and every obligation into a single answer: True only
// if Top is True and every obligation's fairness requirement is also met.
func (r *LTLResult) Verdict() Verdict {
	if r.Top.Verdict != True {
		return r.Top.Verdict
	}
	for _, o := range r.Obligations {
		if o.Verdict != True {
			return o.Verdict
		}
	}
	return True
}

// LTL checks f against h within cfg's bound: f is compiled via a tableau
// into an augmented clone of h, reduced to a safety check on the
// compiled top-level bit plus one liveness check per Until/Finally
// obligation (that the obligation cannot remain pending forever).
func LTL(m *expr.Manager, s *solver.Solver, h *ts.HTS, f *LTL, cfg bmc.Config) (*LTLResult, error) {
	augmented := ts.NewHTS(h.Name + "_ltl")
	augmented.Combine(h)

	tb := newTableau(m, augmented)
	top, err := tb.compile(NNF(m, f))
	if err != nil {
		return nil, err
	}

	e, err := bmc.NewEngine(m, augmented, s, cfg, nil)
	if err != nil {
		return nil, err
	}
	topResult, err := Safety(e, top)
	if err != nil {
		return nil, err
	}

	result := &LTLResult{Top: topResult}
	for _, pending := range tb.obligations {
		notPending := m.MustNot(pending)
		obligationResult, err := Liveness(e, notPending)
		if err != nil {
			return nil, err
		}
		result.Obligations = append(result.Obligations, obligationResult)
	}
	return result, nil
}
