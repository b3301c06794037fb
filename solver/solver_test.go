package solver_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
)

func TestAssertDeclaresFreeVarsOnce(t *testing.T) {
	m := expr.NewManager()
	x := symbol.New("x", sortkind.BitVec(8))

	s, err := solver.New(solver.NewFake, solver.QF_BV)
	require.NoError(t, err)

	eq := m.MustEquals(m.Sym(x), m.BVUint(1, 8))
	require.NoError(t, s.Assert(eq))
	require.NoError(t, s.Assert(eq))

	fake := mustFake(t, s)
	assert.Len(t, fake.Declared(), 1, "x should only be declared once across two asserts")
	assert.Equal(t, 2, s.Stats().Assertions)
}

func TestPushPopForgetsScopedDeclarations(t *testing.T) {
	m := expr.NewManager()
	x := symbol.New("x", sortkind.BitVec(4))

	s, err := solver.New(solver.NewFake, solver.QF_BV)
	require.NoError(t, err)

	require.NoError(t, s.Push())
	require.NoError(t, s.Assert(m.MustEquals(m.Sym(x), m.BVUint(0, 4))))
	require.NoError(t, s.Pop())

	require.NoError(t, s.Assert(m.MustEquals(m.Sym(x), m.BVUint(1, 4))))

	fake := mustFake(t, s)
	assert.Len(t, fake.Declared(), 2, "x must be re-declared after the scope that declared it was popped")
}

func TestPopWithoutPushErrors(t *testing.T) {
	s, err := solver.New(solver.NewFake, solver.QF_BV)
	require.NoError(t, err)
	require.ErrorIs(t, s.Pop(), solver.ErrUnbalancedPop)
}

func TestSkipSolvingAlwaysUnknown(t *testing.T) {
	s, err := solver.New(solver.NewFake, solver.QF_BV, solver.WithSkipSolving())
	require.NoError(t, err)

	fake := mustFake(t, s)
	fake.Script(solver.Sat, nil)

	r, err := s.CheckSat()
	require.NoError(t, err)
	assert.Equal(t, solver.Unknown, r, "skip-solving mode must never consult the backend")
	assert.Zero(t, fake.CheckSatCalls())
}

func TestCheckSatAndModel(t *testing.T) {
	m := expr.NewManager()
	x := symbol.New("x", sortkind.BitVec(4))

	s, err := solver.New(solver.NewFake, solver.QF_BV)
	require.NoError(t, err)
	require.NoError(t, s.Assert(m.MustEquals(m.Sym(x), m.BVUint(3, 4))))

	fake := mustFake(t, s)
	fake.Script(solver.Sat, map[symbol.Symbol]*expr.Expr{x: m.BVUint(3, 4)})

	r, err := s.CheckSat()
	require.NoError(t, err)
	require.Equal(t, solver.Sat, r)

	model, err := s.Model(nil)
	require.NoError(t, err)
	assert.Same(t, m.BVUint(3, 4), model[x])
}

func TestModelBeforeSatFails(t *testing.T) {
	s, err := solver.New(solver.NewFake, solver.QF_BV)
	require.NoError(t, err)
	_, err = s.Model(nil)
	require.ErrorIs(t, err, solver.ErrNoModel)
}

func TestResetFullRebuildsBackend(t *testing.T) {
	m := expr.NewManager()
	x := symbol.New("x", sortkind.BitVec(4))

	s, err := solver.New(solver.NewFake, solver.QF_BV)
	require.NoError(t, err)
	require.NoError(t, s.Assert(m.MustEquals(m.Sym(x), m.BVUint(0, 4))))

	before := mustFake(t, s)
	require.Len(t, before.Assertions(), 1)

	require.NoError(t, s.Reset(true))
	require.NoError(t, s.Assert(m.MustEquals(m.Sym(x), m.BVUint(0, 4))))

	after := mustFake(t, s)
	assert.NotSame(t, before, after, "a full reset must replace the backend instance")
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := solver.New(solver.NewFake, solver.QF_BV)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Push(), solver.ErrClosed)
}

func TestTeeEmitsSMTLIB2(t *testing.T) {
	m := expr.NewManager()
	x := symbol.New("x", sortkind.BitVec(4))

	var buf bytes.Buffer
	s, err := solver.New(solver.NewFake, solver.QF_BV, solver.WithTee(&buf))
	require.NoError(t, err)
	require.NoError(t, s.Assert(m.MustEquals(m.Sym(x), m.BVUint(0, 4))))

	out := buf.String()
	assert.True(t, strings.Contains(out, "declare-fun"))
	assert.True(t, strings.Contains(out, "assert"))
}

func mustFake(t *testing.T, s *solver.Solver) *solver.FakeBackend {
	t.Helper()
	fake, ok := s.Backend().(*solver.FakeBackend)
	require.True(t, ok, "expected the solver's backend to be a *FakeBackend")
	return fake
}
