package problem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/problem"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

func counterHTS(t *testing.T, m *expr.Manager) (*ts.HTS, symbol.Symbol) {
	t.Helper()
	c := symbol.New("c", sortkind.BitVec(4))
	cExpr := m.Sym(c)
	cNext := m.Sym(c.Prime())

	init := m.MustEquals(cExpr, m.BVUint(0, 4))
	trans := m.MustEquals(cNext, m.MustBVAdd(cExpr, m.BVUint(1, 4)))

	tsys, err := ts.New(ts.NewVarSet(c), ts.NewVarSet(c), init, m.True(), trans)
	require.NoError(t, err)

	h := ts.NewHTS("counter")
	h.AddTS(tsys)
	h.Outputs = ts.NewVarSet(c)
	return h, c
}

func scriptedFactory(script func(fb *solver.FakeBackend)) solver.Factory {
	return func(logic solver.Logic) (solver.Backend, error) {
		b, err := solver.NewFake(logic)
		if err != nil {
			return nil, err
		}
		fb := b.(*solver.FakeBackend)
		script(fb)
		return fb, nil
	}
}

func TestDriverRunSafetyTrueViaKInduction(t *testing.T) {
	m := expr.NewManager()
	h, _ := counterHTS(t, m)
	tab := problem.NewSymtab(ts.Union(h.StateVars, h.Outputs))

	// k=0 base case unsat, k=1 base case unsat, k=1 step case unsat -> proved.
	factory := scriptedFactory(func(fb *solver.FakeBackend) {
		fb.Script(solver.Unsat, nil)
		fb.Script(solver.Unsat, nil)
		fb.Script(solver.Unsat, nil)
	})

	d := problem.NewDriver(m, factory, nil)
	cfg := problem.NewConfig()
	cfg.Name = "bounded"
	cfg.Verification = "safety"
	cfg.Formula = "c != 4'15"
	cfg.Prove = true
	cfg.BMCLength = 1

	outcome, err := d.Run(h, tab, cfg)
	require.NoError(t, err)
	require.Equal(t, problem.True, outcome.Status)
}

func TestDriverRunSafetyFalseBuildsTrace(t *testing.T) {
	m := expr.NewManager()
	h, c := counterHTS(t, m)
	tab := problem.NewSymtab(ts.Union(h.StateVars, h.Outputs))

	model := map[symbol.Symbol]*expr.Expr{
		symbol.AtTime(c, 0): m.BVUint(0, 4),
	}
	factory := scriptedFactory(func(fb *solver.FakeBackend) {
		fb.Script(solver.Sat, model)
	})

	d := problem.NewDriver(m, factory, nil)
	cfg := problem.NewConfig()
	cfg.Name = "immediate-violation"
	cfg.Verification = "safety"
	cfg.Formula = "c != 4'0"
	cfg.BMCLength = 0

	outcome, err := d.Run(h, tab, cfg)
	require.NoError(t, err)
	require.Equal(t, problem.False, outcome.Status)
	require.NotNil(t, outcome.Trace)
}

func TestDriverExpectedMismatchReturnsError(t *testing.T) {
	m := expr.NewManager()
	h, _ := counterHTS(t, m)
	tab := problem.NewSymtab(ts.Union(h.StateVars, h.Outputs))

	factory := scriptedFactory(func(fb *solver.FakeBackend) {
		fb.Script(solver.Unsat, nil)
	})

	d := problem.NewDriver(m, factory, nil)
	cfg := problem.NewConfig()
	cfg.Name = "wrong-expectation"
	cfg.Verification = "safety"
	cfg.Formula = "c != 4'15"
	cfg.BMCLength = 0
	cfg.Expected = "FALSE"

	_, err := d.Run(h, tab, cfg)
	require.Error(t, err)
	require.ErrorIs(t, err, problem.ErrExpectedMismatch)
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, name := range []string{"safety", "liveness", "eventually", "ltl", "equivalence", "simulation"} {
		k, err := problem.ParseKind(name)
		require.NoError(t, err)
		require.Equal(t, name, k.String())
	}
}

func TestParseKindRejectsUnknown(t *testing.T) {
	_, err := problem.ParseKind("bogus")
	require.ErrorIs(t, err, problem.ErrUnknownKind)
}
