package lemma

import (
	"go.uber.org/zap"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/ts"
)

// Lemma is one candidate auxiliary invariant, named for reporting.
type Lemma struct {
	Name    string
	Formula *expr.Expr
}

// Outcome records whether one candidate lemma was proved.
type Outcome struct {
	Lemma  Lemma
	Proved bool
}

// Result is the terminal output of AddLemmas: every candidate's outcome,
// in the order tried, and whether the proved subset (as assumptions) was
// shown jointly sufficient to imply the target property.
type Result struct {
	Outcomes   []Outcome
	Sufficient bool
}

// Harness proves candidate lemmas against one HTS's current init/trans/
// invar, adding each proved lemma as an assumption before attempting the
// next — so later lemmas benefit from earlier ones without ever being
// allowed to invalidate them (proving adds an assumption; it never
// retracts one).
type Harness struct {
	m   *expr.Manager
	s   *solver.Solver
	h   *ts.HTS
	log *zap.SugaredLogger
}

// NewHarness constructs a Harness over h. log may be nil, in which case a
// no-op logger is used.
func NewHarness(m *expr.Manager, s *solver.Solver, h *ts.HTS, log *zap.SugaredLogger) *Harness {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Harness{m: m, s: s, h: h, log: log}
}

// AddLemmas tries each lemma in order, folding proved ones into h as
// assumptions and testing sufficiency against prop after each success.
// It returns as soon as the proved lemmas are jointly sufficient; failing
// lemmas are recorded in Outcomes but neither retried nor discarded from
// consideration by later lemmas in the list.
func (hn *Harness) AddLemmas(prop *expr.Expr, lemmas []Lemma) (*Result, error) {
	result := &Result{}
	var proved []*expr.Expr

	for i, l := range lemmas {
		ok, err := hn.checkLemma(l.Formula)
		if err != nil {
			return nil, err
		}
		result.Outcomes = append(result.Outcomes, Outcome{Lemma: l, Proved: ok})
		if !ok {
			hn.log.Warnf("lemma %d/%d %q does not hold", i+1, len(lemmas), l.Name)
			continue
		}
		hn.log.Infof("lemma %d/%d %q holds", i+1, len(lemmas), l.Name)
		hn.h.AddAssumption(l.Formula)
		proved = append(proved, l.Formula)

		sufficient, err := hn.sufficient(prop, proved)
		if err != nil {
			return nil, err
		}
		if sufficient {
			result.Sufficient = true
			return result, nil
		}
	}
	return result, nil
}

// checkLemma proves lemma by initiation (I ∧ V ∧ ¬ℓ unsat) followed by
// consecution (V ∧ T ∧ V[next] ∧ ℓ ∧ ¬ℓ[next] unsat); both must hold.
func (hn *Harness) checkLemma(lemma *expr.Expr) (bool, error) {
	ok, err := hn.checkInitiation(lemma)
	if err != nil || !ok {
		return false, err
	}
	return hn.checkConsecution(lemma)
}

func (hn *Harness) checkInitiation(lemma *expr.Expr) (bool, error) {
	init, err := hn.h.SingleInit(hn.m)
	if err != nil {
		return false, err
	}
	invar, err := hn.h.SingleInvar(hn.m)
	if err != nil {
		return false, err
	}
	goal, err := hn.m.And(init, invar, hn.m.MustNot(lemma))
	if err != nil {
		return false, err
	}
	return hn.checkUnsat(goal)
}

func (hn *Harness) checkConsecution(lemma *expr.Expr) (bool, error) {
	invar, err := hn.h.SingleInvar(hn.m)
	if err != nil {
		return false, err
	}
	trans, err := hn.h.SingleTrans(hn.m)
	if err != nil {
		return false, err
	}
	nextInvar := ts.ToNext(hn.m, invar)
	nextLemma := ts.ToNext(hn.m, lemma)
	goal, err := hn.m.And(invar, trans, nextInvar, lemma, hn.m.MustNot(nextLemma))
	if err != nil {
		return false, err
	}
	return hn.checkUnsat(goal)
}

// sufficient checks whether the conjunction of every proved lemma implies
// prop, i.e. whether asserting them alongside ¬prop is unsatisfiable.
func (hn *Harness) sufficient(prop *expr.Expr, proved []*expr.Expr) (bool, error) {
	conj := hn.m.True()
	for _, p := range proved {
		var err error
		conj, err = hn.m.And(conj, p)
		if err != nil {
			return false, err
		}
	}
	goal, err := hn.m.And(conj, hn.m.MustNot(prop))
	if err != nil {
		return false, err
	}
	return hn.checkUnsat(goal)
}

func (hn *Harness) checkUnsat(goal *expr.Expr) (bool, error) {
	if err := hn.s.Push(); err != nil {
		return false, err
	}
	defer hn.s.Pop()

	if err := hn.s.Assert(goal); err != nil {
		return false, err
	}
	res, err := hn.s.CheckSat()
	if err != nil {
		return false, err
	}
	return res == solver.Unsat, nil
}
