package problem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/problem"
	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

func symtab(vars ...symbol.Symbol) problem.Symtab {
	vs := ts.NewVarSet(vars...)
	return problem.NewSymtab(vs)
}

func TestParseFormulaInfixEquality(t *testing.T) {
	m := expr.NewManager()
	c := symbol.New("c", sortkind.BitVec(4))
	e, err := problem.ParseFormula(m, symtab(c), "c == 4'0")
	require.NoError(t, err)
	require.True(t, e.Sort().IsBool())
}

func TestParseFormulaNotEquals(t *testing.T) {
	m := expr.NewManager()
	c := symbol.New("c", sortkind.BitVec(4))
	e, err := problem.ParseFormula(m, symtab(c), "c != 4'0")
	require.NoError(t, err)
	require.Equal(t, expr.OpNot, e.Op())
}

func TestParseFormulaPosedgeBool(t *testing.T) {
	m := expr.NewManager()
	req := symbol.New("req", sortkind.BoolSort)
	e, err := problem.ParseFormula(m, symtab(req), "posedge(req)")
	require.NoError(t, err)
	require.Equal(t, expr.OpAnd, e.Op())
}

func TestParseFormulaChangeSugar(t *testing.T) {
	m := expr.NewManager()
	c := symbol.New("c", sortkind.BitVec(4))
	e, err := problem.ParseFormula(m, symtab(c), "change(c)")
	require.NoError(t, err)
	require.Equal(t, expr.OpNot, e.Op())
}

func TestParseFormulaMemacc(t *testing.T) {
	m := expr.NewManager()
	arr := symbol.New("mem", sortkind.Array(4, 8))
	idx := symbol.New("i", sortkind.BitVec(4))
	e, err := problem.ParseFormula(m, symtab(arr, idx), "memacc(mem, i)")
	require.NoError(t, err)
	require.Equal(t, expr.OpArraySelect, e.Op())
}

func TestParseFormulaMemaccScalarized(t *testing.T) {
	m := expr.NewManager()
	m0 := symbol.New("mem_0", sortkind.BitVec(8))
	m1 := symbol.New("mem_1", sortkind.BitVec(8))
	idx := symbol.New("i", sortkind.BitVec(4))
	e, err := problem.ParseFormula(m, symtab(m0, m1, idx), "memacc(mem, i)")
	require.NoError(t, err)
	require.Equal(t, expr.OpIte, e.Op())
}

func TestParseFormulaMemaccScalarizedConstantIndex(t *testing.T) {
	m := expr.NewManager()
	m0 := symbol.New("mem_0", sortkind.BitVec(8))
	m1 := symbol.New("mem_1", sortkind.BitVec(8))
	e, err := problem.ParseFormula(m, symtab(m0, m1), "memacc(mem, 4'1)")
	require.NoError(t, err)
	require.Equal(t, symbol.New("mem_1", sortkind.BitVec(8)), e.Symbol())
}

func TestParseFormulaRejectsUndeclaredVariable(t *testing.T) {
	m := expr.NewManager()
	_, err := problem.ParseFormula(m, symtab(), "x == 0")
	require.Error(t, err)
}

func TestParseFormulaConjunctionAndImplication(t *testing.T) {
	m := expr.NewManager()
	a := symbol.New("a", sortkind.BoolSort)
	b := symbol.New("b", sortkind.BoolSort)
	e, err := problem.ParseFormula(m, symtab(a, b), "a && b => a")
	require.NoError(t, err)
	require.Equal(t, expr.OpImplies, e.Op())
}

func TestParseFormulaeSkipsCommentsAndBlankLines(t *testing.T) {
	m := expr.NewManager()
	a := symbol.New("a", sortkind.BoolSort)
	fs, err := problem.ParseFormulae(m, symtab(a), []string{"# a comment", "", "a"})
	require.NoError(t, err)
	require.Len(t, fs, 1)
}
