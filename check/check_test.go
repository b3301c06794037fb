package check_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/check"
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

func counterHTS(t *testing.T, m *expr.Manager, name string) (*ts.HTS, symbol.Symbol) {
	t.Helper()
	c := symbol.New(name, sortkind.BitVec(4))
	cExpr := m.Sym(c)
	cNext := m.Sym(c.Prime())

	init := m.MustEquals(cExpr, m.BVUint(0, 4))
	trans := m.MustEquals(cNext, m.MustBVAdd(cExpr, m.BVUint(1, 4)))

	tsys, err := ts.New(ts.NewVarSet(c), ts.NewVarSet(c), init, m.True(), trans)
	require.NoError(t, err)

	h := ts.NewHTS(name)
	h.AddTS(tsys)
	return h, c
}

func newFakeSolver(t *testing.T) (*solver.Solver, *solver.FakeBackend) {
	t.Helper()
	s, err := solver.New(solver.NewFake, solver.QF_BV)
	require.NoError(t, err)
	fb, ok := s.Backend().(*solver.FakeBackend)
	require.True(t, ok)
	return s, fb
}

func TestSafetyFalseOnCounterexample(t *testing.T) {
	m := expr.NewManager()
	h, c := counterHTS(t, m, "c")
	s, fb := newFakeSolver(t)

	prop := m.MustNot(m.MustEquals(m.Sym(c), m.BVUint(3, 4)))
	fb.Script(solver.Unknown, nil)
	fb.Script(solver.Unknown, nil)
	fb.Script(solver.Sat, map[symbol.Symbol]*expr.Expr{symbol.AtTime(c, 2): m.BVUint(3, 4)})

	e, err := bmc.NewEngine(m, h, s, bmc.Config{Strategy: bmc.Fwd, KMax: 5}, nil)
	require.NoError(t, err)

	res, err := check.Safety(e, prop)
	require.NoError(t, err)
	require.Equal(t, check.False, res.Verdict)
	require.Equal(t, 2, res.K)
}

func TestEventuallyNeverWrapsSafety(t *testing.T) {
	m := expr.NewManager()
	h, c := counterHTS(t, m, "c")
	s, _ := newFakeSolver(t)

	bad := m.MustEquals(m.Sym(c), m.BVUint(3, 4))
	e, err := bmc.NewEngine(m, h, s, bmc.Config{Strategy: bmc.Fwd, KMax: 2}, nil)
	require.NoError(t, err)

	res, err := check.EventuallyNever(m, e, bad)
	require.NoError(t, err)
	require.Equal(t, check.Unknown, res.Verdict)
}

func TestLivenessFindsFairCounterexample(t *testing.T) {
	m := expr.NewManager()
	h, c := counterHTS(t, m, "c")
	s, fb := newFakeSolver(t)

	prop := m.MustEquals(m.Sym(c), m.BVUint(0, 4))
	fb.Script(solver.Sat, map[symbol.Symbol]*expr.Expr{symbol.AtTime(c, 1): m.BVUint(0, 4)})

	e, err := bmc.NewEngine(m, h, s, bmc.Config{KMax: 3}, nil)
	require.NoError(t, err)

	res, err := check.Liveness(e, prop)
	require.NoError(t, err)
	require.Equal(t, check.False, res.Verdict)
}

func TestSimulationFindsReachableState(t *testing.T) {
	m := expr.NewManager()
	h, c := counterHTS(t, m, "c")
	s, fb := newFakeSolver(t)

	goal := m.MustEquals(m.Sym(c), m.BVUint(2, 4))
	fb.Script(solver.Unsat, nil)
	fb.Script(solver.Unsat, nil)
	fb.Script(solver.Sat, map[symbol.Symbol]*expr.Expr{symbol.AtTime(c, 2): m.BVUint(2, 4)})

	e, err := bmc.NewEngine(m, h, s, bmc.Config{KMax: 5}, nil)
	require.NoError(t, err)

	res, err := check.Simulation(e, goal)
	require.NoError(t, err)
	require.Equal(t, check.True, res.Verdict)
	require.Equal(t, 2, res.K)
}

// mutexHTS builds the two-process toy mutex: p1, p2 are free Booleans and
// trans forbids p1' ∧ p2' — nothing else constrains how either process
// moves.
func mutexHTS(t *testing.T, m *expr.Manager) (*ts.HTS, symbol.Symbol, symbol.Symbol) {
	t.Helper()
	p1 := symbol.New("p1", sortkind.BoolSort)
	p2 := symbol.New("p2", sortkind.BoolSort)
	p1Next := m.Sym(p1.Prime())
	p2Next := m.Sym(p2.Prime())

	init := m.MustAnd(m.MustNot(m.Sym(p1)), m.MustNot(m.Sym(p2)))
	trans := m.MustNot(m.MustAnd(p1Next, p2Next))

	tsys, err := ts.New(ts.NewVarSet(p1, p2), ts.NewVarSet(p1, p2), init, m.True(), trans)
	require.NoError(t, err)

	h := ts.NewHTS("mutex")
	h.AddTS(tsys)
	return h, p1, p2
}

func TestSafetyMutexProvedByKInduction(t *testing.T) {
	m := expr.NewManager()
	h, p1, p2 := mutexHTS(t, m)
	s, fb := newFakeSolver(t)

	prop := m.MustNot(m.MustAnd(m.Sym(p1), m.Sym(p2)))

	// k=0 base case unsat, k=1 base case unsat, k=1 step case unsat.
	fb.Script(solver.Unsat, nil)
	fb.Script(solver.Unsat, nil)
	fb.Script(solver.Unsat, nil)

	e, err := bmc.NewEngine(m, h, s, bmc.Config{Prove: true, KMax: 1}, nil)
	require.NoError(t, err)

	res, err := check.Safety(e, prop)
	require.NoError(t, err)
	require.Equal(t, check.True, res.Verdict)
}

// TestSafetyStrategiesAgreeOnCounterexample runs the same counterexample
// under FWD, BWD and ZZ and checks that, once each strategy's model is in
// the forward-keyed form Engine already returns (bmc.RemapModel is applied
// internally for BWD/ZZ), every strategy reports the violation at the
// same bound with the same witnessing value.
func TestSafetyStrategiesAgreeOnCounterexample(t *testing.T) {
	m := expr.NewManager()
	h, c := counterHTS(t, m, "c")
	prop := m.MustNot(m.MustEquals(m.Sym(c), m.BVUint(3, 4)))

	fwdModel := map[symbol.Symbol]*expr.Expr{symbol.AtTime(c, 1): m.BVUint(3, 4)}
	// Raw model keyed by ptimed symbols: with k=1, remapBwd resolves
	// AtTime(c,1) to raw[AtPtime(c,0)] and AtTime(c,0) to raw[AtPtime(c,1)];
	// remapZZ remaps only steps after k/2, so it resolves AtTime(c,1) the
	// same way and keeps AtTime(c,0) forward-timed. The assertions below
	// read AtTime(c,1) only, so the same raw map serves both strategies.
	bwdRaw := map[symbol.Symbol]*expr.Expr{
		symbol.AtPtime(c, 0): m.BVUint(3, 4),
		symbol.AtPtime(c, 1): m.BVUint(0, 4),
	}

	run := func(strategy bmc.Strategy, rawModel map[symbol.Symbol]*expr.Expr) *check.Result {
		s, fb := newFakeSolver(t)
		fb.Script(solver.Unsat, nil)
		fb.Script(solver.Sat, rawModel)
		e, err := bmc.NewEngine(m, h, s, bmc.Config{Strategy: strategy, KMax: 1}, nil)
		require.NoError(t, err)
		res, err := check.Safety(e, prop)
		require.NoError(t, err)
		return res
	}

	results := map[bmc.Strategy]*check.Result{
		bmc.Fwd:    run(bmc.Fwd, fwdModel),
		bmc.Bwd:    run(bmc.Bwd, bwdRaw),
		bmc.ZigZag: run(bmc.ZigZag, bwdRaw),
	}
	for strategy, res := range results {
		require.Equalf(t, check.False, res.Verdict, "%s", strategy)
		require.Equalf(t, 1, res.K, "%s", strategy)
		require.Equalf(t, m.BVUint(3, 4), res.Model[symbol.AtTime(c, 1)], "%s", strategy)
	}
}

func TestEquivalenceOfTwoCounters(t *testing.T) {
	m := expr.NewManager()
	a, ca := counterHTS(t, m, "a")
	b, cb := counterHTS(t, m, "b")
	s, _ := newFakeSolver(t)

	cfg := bmc.Config{Strategy: bmc.Fwd, KMax: 1}
	res, err := check.Equivalence(m, s, a, b, []symbol.Symbol{ca}, []symbol.Symbol{cb}, cfg)
	require.NoError(t, err)
	require.Equal(t, check.Unknown, res.Verdict)
}

func TestOutputsEqualRejectsArityMismatch(t *testing.T) {
	m := expr.NewManager()
	c := symbol.New("c", sortkind.BitVec(4))
	_, err := check.OutputsEqual(m, []symbol.Symbol{c}, nil)
	require.ErrorIs(t, err, check.ErrOutputArityMismatch)
}

func TestLTLGloballyReducesToSafety(t *testing.T) {
	m := expr.NewManager()
	h, c := counterHTS(t, m, "c")
	s, _ := newFakeSolver(t)

	f := check.LGlobally(check.Atom(m.MustNot(m.MustEquals(m.Sym(c), m.BVUint(15, 4)))))
	cfg := bmc.Config{Strategy: bmc.Fwd, KMax: 2}

	res, err := check.LTL(m, s, h, f, cfg)
	require.NoError(t, err)
	require.Empty(t, res.Obligations)
	require.Equal(t, check.Unknown, res.Verdict())
}

func TestLTLUntilAddsLivenessObligation(t *testing.T) {
	m := expr.NewManager()
	h, c := counterHTS(t, m, "c")
	s, _ := newFakeSolver(t)

	never3 := check.Atom(m.MustNot(m.MustEquals(m.Sym(c), m.BVUint(3, 4))))
	reach5 := check.Atom(m.MustEquals(m.Sym(c), m.BVUint(5, 4)))
	f := check.LUntil(never3, reach5)
	cfg := bmc.Config{Strategy: bmc.Fwd, KMax: 2}

	res, err := check.LTL(m, s, h, f, cfg)
	require.NoError(t, err)
	require.Len(t, res.Obligations, 1)
}
