package ts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

func bitCounterTS(t *testing.T, m *expr.Manager) *ts.TS {
	t.Helper()
	c := symbol.New("c", sortkind.BitVec(4))
	cExpr := m.Sym(c)
	cNext := m.Sym(c.Prime())

	init := m.MustEquals(cExpr, m.BVUint(0, 4))
	trans := m.MustEquals(cNext, m.MustBVAdd(cExpr, m.BVUint(1, 4)))

	vars := ts.NewVarSet(c)
	stateVars := ts.NewVarSet(c)
	tsys, err := ts.New(vars, stateVars, init, m.True(), trans)
	require.NoError(t, err)
	return tsys
}

func TestNewRejectsTransOutsideAllowedVars(t *testing.T) {
	m := expr.NewManager()
	c := symbol.New("c", sortkind.BitVec(4))
	d := symbol.New("d", sortkind.BitVec(4))

	badTrans := m.MustEquals(m.Sym(d.Prime()), m.Sym(c))
	_, err := ts.New(ts.NewVarSet(c), ts.NewVarSet(c), m.True(), m.True(), badTrans)
	require.ErrorIs(t, err, ts.ErrFreeVarNotDeclared)
}

func TestToNextToPrevInverse(t *testing.T) {
	m := expr.NewManager()
	c := symbol.New("c", sortkind.BitVec(4))
	phi := m.MustEquals(m.Sym(c), m.BVUint(3, 4))

	next := ts.ToNext(m, phi)
	back := ts.ToPrev(m, next)
	assert.Same(t, phi, back)

	prev := ts.ToPrev(m, phi)
	fwd := ts.ToNext(m, prev)
	assert.Same(t, phi, fwd)
}

func TestRemoveInvar(t *testing.T) {
	m := expr.NewManager()
	c := symbol.New("c", sortkind.BitVec(4))
	cExpr := m.Sym(c)
	init := m.MustEquals(cExpr, m.BVUint(0, 4))
	invar, err := m.BVUlt(cExpr, m.BVUint(15, 4))
	require.NoError(t, err)
	trans := m.MustEquals(m.Sym(c.Prime()), m.MustBVAdd(cExpr, m.BVUint(1, 4)))

	tsys, err := ts.New(ts.NewVarSet(c), ts.NewVarSet(c), init, invar, trans)
	require.NoError(t, err)

	_, err = tsys.RemoveInvar(m)
	require.NoError(t, err)
	assert.Same(t, m.True(), tsys.Invar)
}

func TestFlattenSubstitutesPortBindings(t *testing.T) {
	m := expr.NewManager()

	// Child HTS: single input "in", output "out" with out' = in.
	in := symbol.New("in", sortkind.BitVec(4))
	out := symbol.New("out", sortkind.BitVec(4))
	childTS, err := ts.New(
		ts.NewVarSet(in, out),
		ts.NewVarSet(out),
		m.MustEquals(m.Sym(out), m.BVUint(0, 4)),
		m.True(),
		m.MustEquals(m.Sym(out.Prime()), m.Sym(in)),
	)
	require.NoError(t, err)
	child := ts.NewHTS("child")
	child.Inputs = ts.NewVarSet(in)
	child.Outputs = ts.NewVarSet(out)
	child.AddTS(childTS)

	// Parent drives in := 7 (a constant) and instantiates the child.
	parent := ts.NewHTS("parent")
	parent.AddSub(ts.SubInstance{
		Name:  "inst0",
		Child: child,
		Bindings: map[symbol.Symbol]*expr.Expr{
			in: m.BVUint(7, 4),
		},
	})

	flat, err := ts.Flatten(m, parent)
	require.NoError(t, err)

	trans := flat.TSs[0].Trans
	freeVars := expr.FreeVars(trans)
	_, hasIn := freeVars[in]
	assert.False(t, hasIn, "formal port symbol must not survive flattening")
}

func TestFlattenDetectsCycles(t *testing.T) {
	m := expr.NewManager()
	a := ts.NewHTS("a")
	b := ts.NewHTS("b")
	a.AddSub(ts.SubInstance{Name: "b_inst", Child: b, Bindings: map[symbol.Symbol]*expr.Expr{}})
	b.AddSub(ts.SubInstance{Name: "a_inst", Child: a, Bindings: map[symbol.Symbol]*expr.Expr{}})

	_, err := ts.Flatten(m, a)
	require.ErrorIs(t, err, ts.ErrCyclicInstantiation)
}
