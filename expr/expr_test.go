package expr_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
)

func TestHashConsing(t *testing.T) {
	m := expr.NewManager()
	x := symbol.New("x", sortkind.BitVec(8))
	a := m.Sym(x)
	b := m.Sym(x)
	assert.Same(t, a, b, "identical symbols must intern to the same pointer")

	sum1 := m.MustBVAdd(a, b)
	sum2 := m.MustBVAdd(a, b)
	assert.Same(t, sum1, sum2)
}

func TestSortChecks(t *testing.T) {
	m := expr.NewManager()
	bx := m.Sym(symbol.New("b", sortkind.BoolSort))
	vx := m.Sym(symbol.New("v", sortkind.BitVec(4)))

	_, err := m.And(bx, vx)
	require.ErrorIs(t, err, expr.ErrExpectedBool)

	v8 := m.Sym(symbol.New("v8", sortkind.BitVec(8)))
	_, err = m.BVAdd(vx, v8)
	require.ErrorIs(t, err, expr.ErrWidthMismatch)

	_, err = m.Extract(vx, 5, 0)
	require.ErrorIs(t, err, expr.ErrBadExtractBounds)

	_, err = m.Equals(bx, vx)
	require.ErrorIs(t, err, expr.ErrSortMismatch)
}

// TestFreeVarsSubstituteInvariant checks that substituting v↦e removes v
// from the free variables (unless e itself mentions v) while leaving
// unrelated free variables untouched.
func TestFreeVarsSubstituteInvariant(t *testing.T) {
	m := expr.NewManager()
	vx := symbol.New("x", sortkind.BitVec(4))
	vy := symbol.New("y", sortkind.BitVec(4))
	vz := symbol.New("z", sortkind.BitVec(4))

	x, y, z := m.Sym(vx), m.Sym(vy), m.Sym(vz)
	phi := m.MustEquals(x, y) // x = y

	// Substitute x -> z: z replaces x, so x should vanish and z should appear.
	substituted := expr.Substitute(m, phi, map[symbol.Symbol]*expr.Expr{vx: z})
	fv := expr.FreeVars(substituted)
	_, hasX := fv[vx]
	_, hasZ := fv[vz]
	assert.False(t, hasX)
	assert.True(t, hasZ)

	// Substitute x -> z (where z does not occur in phi's other free vars):
	// y is untouched regardless of the substitution map.
	_, hasY := fv[vy]
	assert.True(t, hasY)
}

func TestConjunctivePartition(t *testing.T) {
	m := expr.NewManager()
	a := m.Sym(symbol.New("a", sortkind.BoolSort))
	b := m.Sym(symbol.New("b", sortkind.BoolSort))
	c := m.Sym(symbol.New("c", sortkind.BoolSort))

	ab := m.MustAnd(a, b)
	abc := m.MustAnd(ab, c)

	parts := expr.ConjunctivePartition(abc)
	assert.ElementsMatch(t, []*expr.Expr{a, b, c}, parts)

	// Non-conjunction yields itself.
	assert.Equal(t, []*expr.Expr{a}, expr.ConjunctivePartition(a))
}

func TestSimplifyConstantFolding(t *testing.T) {
	m := expr.NewManager()
	a := m.Sym(symbol.New("a", sortkind.BoolSort))

	notTrue := m.MustNot(m.True())
	assert.Same(t, m.False(), expr.Simplify(m, notTrue))

	aAndTrue := m.MustAnd(a, m.True())
	assert.Same(t, a, expr.Simplify(m, aAndTrue))

	aAndFalse := m.MustAnd(a, m.False())
	assert.Same(t, m.False(), expr.Simplify(m, aAndFalse))

	sum := m.MustBVAdd(m.BVUint(3, 8), m.BVUint(4, 8))
	folded := expr.Simplify(m, sum)
	require.Equal(t, expr.OpBVConst, folded.Op())
	assert.Equal(t, big.NewInt(7), folded.BVValue())
}

func TestSugarPosedgeNegedgeChange(t *testing.T) {
	m := expr.NewManager()
	x := m.Sym(symbol.New("x", sortkind.BitVec(1)))

	pos, err := expr.Posedge(m, x)
	require.NoError(t, err)
	assert.True(t, pos.Sort().IsBool())

	neg, err := expr.Negedge(m, x)
	require.NoError(t, err)
	assert.True(t, neg.Sort().IsBool())

	ch, err := expr.Change(m, x)
	require.NoError(t, err)
	nc, err := expr.NoChange(m, x)
	require.NoError(t, err)
	notNC := m.MustNot(nc)
	assert.Equal(t, notNC, ch)
}

func TestMemAccessScalarized(t *testing.T) {
	m := expr.NewManager()
	scalars := make([]*expr.Expr, 8)
	for i := range scalars {
		scalars[i] = m.Sym(symbol.New("m_"+string(rune('0'+i)), sortkind.BitVec(8)))
	}
	mem := expr.Memory{Scalars: scalars}

	got, err := expr.MemAccess(m, mem, m.BVUint(3, 3))
	require.NoError(t, err)
	assert.Same(t, scalars[3], got)

	_, err = expr.MemAccess(m, mem, m.BVUint(9, 4))
	require.ErrorIs(t, err, expr.ErrIndexOutOfBounds)

	idx := m.Sym(symbol.New("i", sortkind.BitVec(3)))
	ite, err := expr.MemAccess(m, mem, idx)
	require.NoError(t, err)
	assert.Equal(t, expr.OpIte, ite.Op())
}

func TestMaxBVVal(t *testing.T) {
	m := expr.NewManager()
	max4 := m.MaxBVVal(4)
	require.Equal(t, expr.OpBVConst, max4.Op())
	assert.Equal(t, big.NewInt(15), max4.BVValue())
}
