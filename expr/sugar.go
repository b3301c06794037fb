package expr

import (
	"math/big"

	"github.com/pkg/errors"
)

// ErrNotASymbol indicates a sugar operator that requires a bare variable
// (posedge/negedge/change/nochange) was given a compound expression.
var ErrNotASymbol = errors.New("expr: sugar operator requires a symbol operand")

func nextOf(m *Manager, x *Expr) (*Expr, error) {
	if x.op != OpSymbol {
		return nil, ErrNotASymbol
	}
	return m.Sym(x.sym.Prime()), nil
}

// Posedge builds posedge(x): `x=0 ∧ next(x)=1` for a BitVec signal, or
// `¬x ∧ next(x)` for Bool.
func Posedge(m *Manager, x *Expr) (*Expr, error) {
	next, err := nextOf(m, x)
	if err != nil {
		return nil, err
	}
	if x.sort.IsBool() {
		notX, _ := m.Not(x)
		return m.And(notX, next)
	}
	if !x.sort.IsBitVec() {
		return nil, errors.Wrapf(ErrExpectedBitVec, "posedge operand has sort %s", x.sort)
	}
	zero := m.BVUint(0, x.sort.Width)
	one := m.BVUint(1, x.sort.Width)
	xIsZero := m.MustEquals(x, zero)
	nextIsOne := m.MustEquals(next, one)
	return m.And(xIsZero, nextIsOne)
}

// Negedge builds negedge(x), the symmetric counterpart of Posedge.
func Negedge(m *Manager, x *Expr) (*Expr, error) {
	next, err := nextOf(m, x)
	if err != nil {
		return nil, err
	}
	if x.sort.IsBool() {
		notNext, _ := m.Not(next)
		return m.And(x, notNext)
	}
	if !x.sort.IsBitVec() {
		return nil, errors.Wrapf(ErrExpectedBitVec, "negedge operand has sort %s", x.sort)
	}
	zero := m.BVUint(0, x.sort.Width)
	one := m.BVUint(1, x.sort.Width)
	xIsOne := m.MustEquals(x, one)
	nextIsZero := m.MustEquals(next, zero)
	return m.And(xIsOne, nextIsZero)
}

// Change builds change(x) = x ≠ next(x), the logical negation of
// NoChange. See DESIGN.md for why this is the chosen reading of "change".
func Change(m *Manager, x *Expr) (*Expr, error) {
	next, err := nextOf(m, x)
	if err != nil {
		return nil, err
	}
	return m.Neq(x, next)
}

// NoChange builds nochange(x) = x = next(x).
func NoChange(m *Manager, x *Expr) (*Expr, error) {
	next, err := nextOf(m, x)
	if err != nil {
		return nil, err
	}
	return m.Equals(x, next)
}

// MaxBVVal builds the all-ones constant of the given width, i.e. 2^width-1.
func (m *Manager) MaxBVVal(width uint32) *Expr {
	maxVal := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.BV(maxVal.Sub(maxVal, big.NewInt(1)), width)
}

// Memory is the compiled-sugar view of a memory: either a genuine Array
// expression, or a sorted vector of scalar sub-symbols named m_0..m_{n-1}.
type Memory struct {
	Array   *Expr   // non-nil for the Array-backed representation
	Scalars []*Expr // non-nil, ordered m_0..m_{n-1}, for the scalarized representation
}

// MemAccess builds memacc(mem, idx): a direct Select if mem is Array-backed,
// a constant-indexed pick if idx is a BV constant and mem is scalarized, or
// a chain of ITEs over idx if idx is symbolic and mem is scalarized. A
// constant idx out of [0,len) is ErrIndexOutOfBounds.
func MemAccess(m *Manager, mem Memory, idx *Expr) (*Expr, error) {
	if mem.Array != nil {
		return m.Select(mem.Array, idx)
	}
	if len(mem.Scalars) == 0 {
		return nil, ErrUnknownMemory
	}
	if idx.op == OpBVConst {
		i := int(idx.bvVal.Int64())
		if i < 0 || i >= len(mem.Scalars) {
			return nil, errors.Wrapf(ErrIndexOutOfBounds, "index %d, size %d", i, len(mem.Scalars))
		}
		return mem.Scalars[i], nil
	}
	if !idx.sort.IsBitVec() {
		return nil, errors.Wrap(ErrExpectedBitVec, "symbolic memacc index must be a bit-vector")
	}
	width := idx.sort.Width
	// Fold right-to-left: result = ite(idx==0, scalars[0], ite(idx==1, scalars[1], ..., scalars[n-1]))
	result := mem.Scalars[len(mem.Scalars)-1]
	for i := len(mem.Scalars) - 2; i >= 0; i-- {
		eq := m.MustEquals(idx, m.BVUint(uint64(i), width))
		var err error
		result, err = m.Ite(eq, mem.Scalars[i], result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
