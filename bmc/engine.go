package bmc

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

// Outcome is the tri-state result of a bounded search: a property is
// either disproved by a counterexample, proved (only reachable through
// k-induction or a converged interpolant), or the search exhausted its
// bound without deciding either way.
type Outcome uint8

const (
	// OutcomeUnknown means the bound was exhausted without a decision.
	OutcomeUnknown Outcome = iota
	// OutcomeSafe means the property was proved (k-induction succeeded,
	// or an interpolant fixpoint implied it).
	OutcomeSafe
	// OutcomeUnsafe means a counterexample was found.
	OutcomeUnsafe
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSafe:
		return "safe"
	case OutcomeUnsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// CheckResult is the outcome of one CheckSafety (or FindLasso)
// invocation; Simulate reports a SimResult instead.
type CheckResult struct {
	Outcome  Outcome
	K        int
	Model    map[symbol.Symbol]*expr.Expr
	Strategy Strategy
}

// Config configures one Engine run.
type Config struct {
	Strategy     Strategy
	Prove        bool // enables k-induction instead of strategy dispatch
	Incremental  bool
	KMin         int
	KMax         int
	SymbolicInit bool

	// Logic and Factory are only consulted by the All strategy, which
	// needs to build one independent Solver per concurrent attempt.
	Logic   solver.Logic
	Factory solver.Factory
}

// Engine runs bounded model checking over a flattened HTS using a single
// Solver. Strategy methods assume h is already flattened (ts.Flatten) and
// that h.RemoveInvars has been applied if the caller wants invariants
// folded into init/trans rather than asserted separately at every step.
type Engine struct {
	m      *expr.Manager
	h      *ts.HTS
	s      *solver.Solver
	cfg    Config
	log    *zap.SugaredLogger
	single struct {
		init  *expr.Expr
		invar *expr.Expr
		trans *expr.Expr
	}
}

// NewEngine constructs an Engine over h, sharing m (for expression
// construction) and s (for solving). log may be nil, in which case a
// no-op logger is used.
func NewEngine(m *expr.Manager, h *ts.HTS, s *solver.Solver, cfg Config, log *zap.SugaredLogger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	e := &Engine{m: m, h: h, s: s, cfg: cfg, log: log}
	init, err := h.SingleInit(m)
	if err != nil {
		return nil, errors.Wrap(err, "engine: single_init")
	}
	invar, err := h.SingleInvar(m)
	if err != nil {
		return nil, errors.Wrap(err, "engine: single_invar")
	}
	trans, err := h.SingleTrans(m)
	if err != nil {
		return nil, errors.Wrap(err, "engine: single_trans")
	}
	e.single.init = init
	e.single.invar = invar
	e.single.trans = trans
	return e, nil
}

// CheckSafety decides whether prop (a Boolean expression over
// current-state symbols) holds at every reachable state within the
// configured bound, using cfg.Strategy (or k-induction if cfg.Prove).
func (e *Engine) CheckSafety(prop *expr.Expr) (*CheckResult, error) {
	if e.cfg.Prove {
		return e.kInduction(prop)
	}
	switch e.cfg.Strategy {
	case Fwd:
		return e.fwd(prop)
	case Bwd:
		return e.bwd(prop)
	case ZigZag:
		return e.zigzag(prop)
	case Interpolation:
		return e.interpolate(prop)
	case NoUnroll:
		return e.noUnroll(prop)
	case Auto:
		return e.auto(prop)
	case All:
		return e.all(prop)
	default:
		return nil, errors.Wrapf(ErrUnknownStrategy, "%s", e.cfg.Strategy)
	}
}

// noUnroll checks prop against the initial states alone, asserting no
// transition relation at all: init ∧ invar ∧ ¬prop, all at time 0. It
// proves nothing about any state reached by a transition, so an unsat
// answer is reported as OutcomeUnknown, never OutcomeSafe: it only means
// "no initial state violates prop", not "no reachable state does".
func (e *Engine) noUnroll(prop *expr.Expr) (*CheckResult, error) {
	tt := BuildTimingTable(e.m, e.h.AllVars(), 0)

	init0 := tt.AtTime(e.m, e.single.init, 0)
	invar0 := tt.AtTime(e.m, e.single.invar, 0)
	notP0 := e.m.MustNot(tt.AtTime(e.m, prop, 0))

	goal, err := e.m.And(init0, invar0, notP0)
	if err != nil {
		return nil, err
	}
	res, model, err := e.checkUnderScope(goal, nil)
	if err != nil {
		return nil, err
	}
	if res == solver.Sat {
		return &CheckResult{Outcome: OutcomeUnsafe, K: 0, Model: model, Strategy: NoUnroll}, nil
	}
	return &CheckResult{Outcome: OutcomeUnknown, K: 0, Strategy: NoUnroll}, nil
}

func (e *Engine) kMin() int {
	if e.cfg.KMin > 0 {
		return e.cfg.KMin
	}
	return 0
}

// fwd implements forward bounded model checking: I@0 ∧ V@0, then growing
// the unrolling one step at a time and checking ¬P@k in its own scope.
func (e *Engine) fwd(prop *expr.Expr) (*CheckResult, error) {
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

	for k := 0; k <= e.cfg.KMax; k++ {
		if k > 0 {
			trans := tt.AtTime(e.m, e.single.trans, k-1)
			invar := tt.AtTime(e.m, e.single.invar, k)
			if err := e.s.Assert(e.m.MustAnd(trans, invar)); err != nil {
				return nil, err
			}
		}
		if k < e.kMin() {
			continue
		}

		notP := e.m.MustNot(tt.AtTime(e.m, prop, k))
		res, model, err := e.checkUnderScope(notP, nil)
		if err != nil {
			return nil, err
		}
		if res == solver.Sat {
			return &CheckResult{Outcome: OutcomeUnsafe, K: k, Model: model, Strategy: Fwd}, nil
		}
	}
	return &CheckResult{Outcome: OutcomeUnknown, K: e.cfg.KMax, Strategy: Fwd}, nil
}

// bwd implements backward bounded model checking: the target state
// (¬P, invariant-respecting) is planted at ptime(0), and the engine
// grows the unrolling backward until the initial states are reachable at
// ptime(k).
func (e *Engine) bwd(prop *expr.Expr) (*CheckResult, error) {
	tt := BuildTimingTable(e.m, e.h.AllVars(), e.cfg.KMax)

	if err := e.s.Push(); err != nil {
		return nil, err
	}
	defer e.s.Pop()

	invar0 := tt.AtPtime(e.m, e.single.invar, 0)
	notP0 := e.m.MustNot(tt.AtPtime(e.m, prop, 0))
	if err := e.s.Assert(e.m.MustAnd(invar0, notP0)); err != nil {
		return nil, err
	}

	for k := 0; k <= e.cfg.KMax; k++ {
		if k > 0 {
			trans := tt.AtPtime(e.m, e.single.trans, k)
			invar := tt.AtPtime(e.m, e.single.invar, k)
			if err := e.s.Assert(e.m.MustAnd(trans, invar)); err != nil {
				return nil, err
			}
		}
		if k < e.kMin() {
			continue
		}

		init := tt.AtPtime(e.m, e.single.init, k)
		res, model, err := e.checkUnderScope(init, nil)
		if err != nil {
			return nil, err
		}
		if res == solver.Sat {
			remapped := RemapModel(Bwd, e.h.AllVars(), model, k)
			return &CheckResult{Outcome: OutcomeUnsafe, K: k, Model: remapped, Strategy: Bwd}, nil
		}
	}
	return &CheckResult{Outcome: OutcomeUnknown, K: e.cfg.KMax, Strategy: Bwd}, nil
}

// zigzag unrolls forward from the initial states and backward from the
// target state simultaneously, joining the two frontiers with a
// state-variable equality once they meet at the middle of the horizon.
func (e *Engine) zigzag(prop *expr.Expr) (*CheckResult, error) {
	tt := BuildTimingTable(e.m, e.h.AllVars(), e.cfg.KMax)

	for k := e.kMin(); k <= e.cfg.KMax; k++ {
		mid := k / 2

		if err := e.s.Push(); err != nil {
			return nil, err
		}

		fwdFormula, err := UnrollFormula(e.m, tt, e.single.trans, e.single.invar, 0, mid)
		if err != nil {
			e.s.Pop()
			return nil, err
		}
		init0 := tt.AtTime(e.m, e.single.init, 0)
		invar0 := tt.AtTime(e.m, e.single.invar, 0)

		bwdFormula, err := UnrollFormula(e.m, tt, e.single.trans, e.single.invar, k-mid, 0)
		if err != nil {
			e.s.Pop()
			return nil, err
		}
		invarP0 := tt.AtPtime(e.m, e.single.invar, 0)
		notP0 := e.m.MustNot(tt.AtPtime(e.m, prop, 0))

		meet, err := e.meetingEquality(tt, mid, k-mid)
		if err != nil {
			e.s.Pop()
			return nil, err
		}

		whole, err := e.m.And(init0, invar0, fwdFormula, bwdFormula, invarP0, notP0, meet)
		if err != nil {
			e.s.Pop()
			return nil, err
		}
		res, model, err := e.checkUnderScope(whole, nil)
		if err != nil {
			e.s.Pop()
			return nil, err
		}
		if err := e.s.Pop(); err != nil {
			return nil, err
		}
		if res == solver.Sat {
			remapped := RemapModel(ZigZag, e.h.AllVars(), model, k)
			return &CheckResult{Outcome: OutcomeUnsafe, K: k, Model: remapped, Strategy: ZigZag}, nil
		}
	}
	return &CheckResult{Outcome: OutcomeUnknown, K: e.cfg.KMax, Strategy: ZigZag}, nil
}

func (e *Engine) meetingEquality(tt *TimingTable, fwdT, bwdT int) (*expr.Expr, error) {
	acc := e.m.True()
	for v := range e.h.StateVars {
		fwdSym := e.m.Sym(symbol.AtTime(v, fwdT))
		bwdSym := e.m.Sym(symbol.AtPtime(v, bwdT))
		eq := e.m.MustEquals(fwdSym, bwdSym)
		var err error
		acc, err = e.m.And(acc, eq)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// checkUnderScope pushes a fresh scope, asserts extra, calls CheckSat, and
// if sat fetches the model before popping the scope.
func (e *Engine) checkUnderScope(extra *expr.Expr, vars []symbol.Symbol) (solver.Result, map[symbol.Symbol]*expr.Expr, error) {
	if err := e.s.Push(); err != nil {
		return solver.Unknown, nil, err
	}
	defer e.s.Pop()

	if err := e.s.Assert(extra); err != nil {
		return solver.Unknown, nil, err
	}
	res, err := e.s.CheckSat()
	if err != nil {
		return solver.Unknown, nil, err
	}
	if res != solver.Sat {
		return res, nil, nil
	}
	model, err := e.s.Model(vars)
	if err != nil {
		return solver.Unknown, nil, err
	}
	return res, model, nil
}
