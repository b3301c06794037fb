package trace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/trace"
	"github.com/htsmc/htsmc/ts"
)

func counterHTS(t *testing.T, m *expr.Manager) (*ts.HTS, symbol.Symbol, symbol.Symbol) {
	t.Helper()
	c := symbol.New("c", sortkind.BitVec(4))
	req := symbol.New("req", sortkind.BoolSort)
	cExpr := m.Sym(c)
	cNext := m.Sym(c.Prime())

	init := m.MustEquals(cExpr, m.BVUint(0, 4))
	trans := m.MustEquals(cNext, m.MustBVAdd(cExpr, m.BVUint(1, 4)))

	tsys, err := ts.New(ts.NewVarSet(c, req), ts.NewVarSet(c), init, m.True(), trans)
	require.NoError(t, err)

	h := ts.NewHTS("counter")
	h.AddTS(tsys)
	h.Inputs = ts.NewVarSet(req)
	h.Outputs = ts.NewVarSet(c)
	return h, c, req
}

func modelFor(m *expr.Manager, c, req symbol.Symbol, values []uint64, loopAt int) map[symbol.Symbol]*expr.Expr {
	model := make(map[symbol.Symbol]*expr.Expr)
	for t, v := range values {
		model[symbol.AtTime(c, t)] = m.BVUint(v, 4)
		model[symbol.AtTime(req, t)] = m.False()
	}
	if loopAt >= 0 {
		model[symbol.AtTime(c, len(values)-1)] = model[symbol.AtTime(c, loopAt)]
	}
	return model
}

func TestBuildDefaultFilterIncludesInputsAndOutputsOnly(t *testing.T) {
	m := expr.NewManager()
	h, c, req := counterHTS(t, m)
	model := modelFor(m, c, req, []uint64{0, 1, 2}, -1)

	tr := trace.Build(h, model, 2, trace.InputsOutputs)
	require.Len(t, tr.Steps, 3)
	for _, step := range tr.Steps {
		require.Contains(t, step.Values, "c")
		require.Contains(t, step.Values, "req")
	}
	require.Equal(t, -1, tr.LoopTo)
}

func TestBuildChangedOnlyDropsUnchangedValues(t *testing.T) {
	m := expr.NewManager()
	h, c, req := counterHTS(t, m)
	model := modelFor(m, c, req, []uint64{0, 1, 2}, -1)

	tr := trace.Build(h, model, 2, trace.ChangedOnly)
	require.Len(t, tr.Steps, 3)
	// req never changes; it should vanish from step 1 and 2 but stay at step 0.
	require.Contains(t, tr.Steps[0].Values, "req")
	require.NotContains(t, tr.Steps[1].Values, "req")
	require.NotContains(t, tr.Steps[2].Values, "req")
	// c changes every step, so it should always be present.
	require.Contains(t, tr.Steps[1].Values, "c")
	require.Contains(t, tr.Steps[2].Values, "c")
}

func TestBuildDetectsLasso(t *testing.T) {
	m := expr.NewManager()
	h, c, req := counterHTS(t, m)
	model := modelFor(m, c, req, []uint64{0, 1, 2, 1}, 1)

	tr := trace.Build(h, model, 3, trace.AllVars)
	require.Equal(t, 1, tr.LoopTo)
}

func TestBuildNoLassoWhenStatesDistinct(t *testing.T) {
	m := expr.NewManager()
	h, c, req := counterHTS(t, m)
	model := modelFor(m, c, req, []uint64{0, 1, 2, 3}, -1)

	tr := trace.Build(h, model, 3, trace.AllVars)
	require.Equal(t, -1, tr.LoopTo)
}

func memoryHTS(t *testing.T, m *expr.Manager) (*ts.HTS, symbol.Symbol) {
	t.Helper()
	mem := symbol.New("mem", sortkind.Array(4, 8))
	tsys, err := ts.New(ts.NewVarSet(mem), ts.NewVarSet(mem), m.True(), m.True(), m.True())
	require.NoError(t, err)

	h := ts.NewHTS("memory")
	h.AddTS(tsys)
	h.Outputs = ts.NewVarSet(mem)
	return h, mem
}

func TestBuildMaterializesArrayStoreChain(t *testing.T) {
	m := expr.NewManager()
	h, mem := memoryHTS(t, m)

	base := m.Sym(symbol.New("mem!base", sortkind.Array(4, 8)))
	stored := m.MustStore(base, m.BVUint(1, 4), m.BVUint(42, 8))
	stored = m.MustStore(stored, m.BVUint(2, 4), m.BVUint(7, 8))
	model := map[symbol.Symbol]*expr.Expr{
		symbol.AtTime(mem, 0): stored,
	}

	tr := trace.Build(h, model, 0, trace.AllVars)
	bindings := tr.Steps[0].Arrays["mem"]
	require.Len(t, bindings, 2)
	require.Equal(t, m.BVUint(42, 8), bindings[expr.DebugString(m.BVUint(1, 4))])
	require.Equal(t, m.BVUint(7, 8), bindings[expr.DebugString(m.BVUint(2, 4))])
}
