package expr

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/htsmc/htsmc/sortkind"
	"github.com/htsmc/htsmc/symbol"
)

// Manager owns a process-scoped, append-only intern table: expressions
// are never mutated or evicted once built, only ever looked up or
// inserted, so a single sync.RWMutex is enough — reads vastly outnumber
// writes once a run's formulas stabilize, and RWMutex lets them proceed
// concurrently.
type Manager struct {
	mu    sync.RWMutex
	table map[string]*Expr
}

// NewManager constructs an empty Manager.
func NewManager() *Manager {
	return &Manager{table: make(map[string]*Expr, 1024)}
}

// intern returns the canonical *Expr for the given key, inserting e if no
// such node exists yet.
func (m *Manager) intern(key string, e *Expr) *Expr {
	m.mu.RLock()
	if existing, ok := m.table[key]; ok {
		m.mu.RUnlock()
		return existing
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.table[key]; ok {
		return existing
	}
	e.key = key
	m.table[key] = e
	return e
}

// Size returns the number of distinct interned expressions, mostly useful
// for diagnostics and tests.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.table)
}

func childKey(c *Expr) string { return fmt.Sprintf("%p", c) }

func makeKey(op Op, sort sortkind.Sort, leaf string, children ...*Expr) string {
	var b strings.Builder
	b.WriteString(op.String())
	b.WriteByte('|')
	b.WriteString(sort.String())
	b.WriteByte('|')
	b.WriteString(leaf)
	for _, c := range children {
		b.WriteByte('|')
		b.WriteString(childKey(c))
	}
	return b.String()
}

// Sym returns the canonical leaf expression for a symbol view.
func (m *Manager) Sym(s symbol.Symbol) *Expr {
	key := makeKey(OpSymbol, s.Sort, s.String())
	return m.intern(key, &Expr{op: OpSymbol, sort: s.Sort, sym: s})
}

// Bool returns the canonical Bool constant true/false.
func (m *Manager) Bool(v bool) *Expr {
	leaf := "false"
	if v {
		leaf = "true"
	}
	key := makeKey(OpBoolConst, sortkind.BoolSort, leaf)
	return m.intern(key, &Expr{op: OpBoolConst, sort: sortkind.BoolSort, boolVal: v})
}

// True returns the canonical Bool-true constant.
func (m *Manager) True() *Expr { return m.Bool(true) }

// False returns the canonical Bool-false constant.
func (m *Manager) False() *Expr { return m.Bool(false) }

// BV returns the canonical bit-vector constant of the given value and
// width. val is reduced modulo 2^width.
func (m *Manager) BV(val *big.Int, width uint32) *Expr {
	sort := sortkind.BitVec(width)
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	reduced := new(big.Int).Mod(val, mod)
	key := makeKey(OpBVConst, sort, reduced.String())
	return m.intern(key, &Expr{op: OpBVConst, sort: sort, bvVal: reduced})
}

// BVUint is a convenience wrapper around BV for small constants.
func (m *Manager) BVUint(val uint64, width uint32) *Expr {
	return m.BV(new(big.Int).SetUint64(val), width)
}

func (m *Manager) unary(op Op, sort sortkind.Sort, a *Expr) *Expr {
	key := makeKey(op, sort, "", a)
	return m.intern(key, &Expr{op: op, sort: sort, children: []*Expr{a}})
}

func (m *Manager) binary(op Op, sort sortkind.Sort, a, b *Expr) *Expr {
	key := makeKey(op, sort, "", a, b)
	return m.intern(key, &Expr{op: op, sort: sort, children: []*Expr{a, b}})
}

func (m *Manager) nary(op Op, sort sortkind.Sort, operands ...*Expr) *Expr {
	key := makeKey(op, sort, "", operands...)
	return m.intern(key, &Expr{op: op, sort: sort, children: append([]*Expr{}, operands...)})
}

func requireBool(e *Expr) error {
	if !e.sort.IsBool() {
		return errors.Wrapf(ErrExpectedBool, "got %s", e.sort)
	}
	return nil
}

func requireBitVec(e *Expr) error {
	if !e.sort.IsBitVec() {
		return errors.Wrapf(ErrExpectedBitVec, "got %s", e.sort)
	}
	return nil
}

func requireSameSort(a, b *Expr) error {
	if !sortkind.Equal(a.sort, b.sort) {
		return errors.Wrapf(ErrSortMismatch, "%s vs %s", a.sort, b.sort)
	}
	return nil
}

// Not constructs the Boolean negation of a.
func (m *Manager) Not(a *Expr) (*Expr, error) {
	if err := requireBool(a); err != nil {
		return nil, err
	}
	return m.unary(OpNot, sortkind.BoolSort, a), nil
}

// MustNot is Not, panicking on a sort error; for call sites building
// internal formulas known to be well-typed (e.g. the BMC unroller), not for
// user-facing / parsed formulas.
func (m *Manager) MustNot(a *Expr) *Expr {
	e, err := m.Not(a)
	if err != nil {
		panic(err)
	}
	return e
}

func (m *Manager) boolConnective(op Op, operands ...*Expr) (*Expr, error) {
	if len(operands) == 0 {
		return nil, ErrNoChildren
	}
	for _, o := range operands {
		if err := requireBool(o); err != nil {
			return nil, err
		}
	}
	if len(operands) == 1 {
		return operands[0], nil
	}
	return m.nary(op, sortkind.BoolSort, operands...), nil
}

// And constructs the conjunction of one or more Bool operands.
func (m *Manager) And(operands ...*Expr) (*Expr, error) {
	return m.boolConnective(OpAnd, operands...)
}

// MustAnd is And, panicking on error.
func (m *Manager) MustAnd(operands ...*Expr) *Expr {
	e, err := m.And(operands...)
	if err != nil {
		panic(err)
	}
	return e
}

// Or constructs the disjunction of one or more Bool operands.
func (m *Manager) Or(operands ...*Expr) (*Expr, error) {
	return m.boolConnective(OpOr, operands...)
}

// Xor constructs the exclusive-or of two Bool operands.
func (m *Manager) Xor(a, b *Expr) (*Expr, error) {
	if err := requireBool(a); err != nil {
		return nil, err
	}
	if err := requireBool(b); err != nil {
		return nil, err
	}
	return m.binary(OpXor, sortkind.BoolSort, a, b), nil
}

// Implies constructs a => b.
func (m *Manager) Implies(a, b *Expr) (*Expr, error) {
	if err := requireBool(a); err != nil {
		return nil, err
	}
	if err := requireBool(b); err != nil {
		return nil, err
	}
	return m.binary(OpImplies, sortkind.BoolSort, a, b), nil
}

// Iff constructs a <=> b.
func (m *Manager) Iff(a, b *Expr) (*Expr, error) {
	if err := requireBool(a); err != nil {
		return nil, err
	}
	if err := requireBool(b); err != nil {
		return nil, err
	}
	return m.binary(OpIff, sortkind.BoolSort, a, b), nil
}

// Equals constructs a = b; a and b must share a sort.
func (m *Manager) Equals(a, b *Expr) (*Expr, error) {
	if err := requireSameSort(a, b); err != nil {
		return nil, err
	}
	return m.binary(OpEquals, sortkind.BoolSort, a, b), nil
}

// MustEquals is Equals, panicking on error.
func (m *Manager) MustEquals(a, b *Expr) *Expr {
	e, err := m.Equals(a, b)
	if err != nil {
		panic(err)
	}
	return e
}

// Neq constructs ¬(a = b).
func (m *Manager) Neq(a, b *Expr) (*Expr, error) {
	eq, err := m.Equals(a, b)
	if err != nil {
		return nil, err
	}
	return m.Not(eq)
}

// Ite constructs if c then t else e; t and e must share a sort.
func (m *Manager) Ite(c, t, e *Expr) (*Expr, error) {
	if err := requireBool(c); err != nil {
		return nil, err
	}
	if err := requireSameSort(t, e); err != nil {
		return nil, err
	}
	key := makeKey(OpIte, t.sort, "", c, t, e)
	return m.intern(key, &Expr{op: OpIte, sort: t.sort, children: []*Expr{c, t, e}}), nil
}

// MustIte is Ite, panicking on error.
func (m *Manager) MustIte(c, t, e *Expr) *Expr {
	r, err := m.Ite(c, t, e)
	if err != nil {
		panic(err)
	}
	return r
}

func (m *Manager) bvBinaryOp(op Op, a, b *Expr) (*Expr, error) {
	if err := requireBitVec(a); err != nil {
		return nil, err
	}
	if err := requireBitVec(b); err != nil {
		return nil, err
	}
	if a.sort.Width != b.sort.Width {
		return nil, errors.Wrapf(ErrWidthMismatch, "%d vs %d", a.sort.Width, b.sort.Width)
	}
	return m.binary(op, a.sort, a, b), nil
}

// BVAdd constructs bit-vector addition.
func (m *Manager) BVAdd(a, b *Expr) (*Expr, error) { return m.bvBinaryOp(OpBVAdd, a, b) }

// MustBVAdd is BVAdd, panicking on error.
func (m *Manager) MustBVAdd(a, b *Expr) *Expr {
	e, err := m.BVAdd(a, b)
	if err != nil {
		panic(err)
	}
	return e
}

// BVSub constructs bit-vector subtraction.
func (m *Manager) BVSub(a, b *Expr) (*Expr, error) { return m.bvBinaryOp(OpBVSub, a, b) }

// BVAnd constructs bit-vector bitwise and.
func (m *Manager) BVAnd(a, b *Expr) (*Expr, error) { return m.bvBinaryOp(OpBVAnd, a, b) }

// BVOr constructs bit-vector bitwise or.
func (m *Manager) BVOr(a, b *Expr) (*Expr, error) { return m.bvBinaryOp(OpBVOr, a, b) }

// BVXor constructs bit-vector bitwise xor.
func (m *Manager) BVXor(a, b *Expr) (*Expr, error) { return m.bvBinaryOp(OpBVXor, a, b) }

// BVShl constructs a bit-vector logical shift-left.
func (m *Manager) BVShl(a, b *Expr) (*Expr, error) { return m.bvBinaryOp(OpBVShl, a, b) }

// BVNot constructs bit-vector bitwise negation.
func (m *Manager) BVNot(a *Expr) (*Expr, error) {
	if err := requireBitVec(a); err != nil {
		return nil, err
	}
	return m.unary(OpBVNot, a.sort, a), nil
}

func (m *Manager) bvCompare(op Op, a, b *Expr) (*Expr, error) {
	if err := requireBitVec(a); err != nil {
		return nil, err
	}
	if err := requireBitVec(b); err != nil {
		return nil, err
	}
	if a.sort.Width != b.sort.Width {
		return nil, errors.Wrapf(ErrWidthMismatch, "%d vs %d", a.sort.Width, b.sort.Width)
	}
	return m.binary(op, sortkind.BoolSort, a, b), nil
}

// BVUlt constructs unsigned less-than.
func (m *Manager) BVUlt(a, b *Expr) (*Expr, error) { return m.bvCompare(OpBVUlt, a, b) }

// BVUle constructs unsigned less-than-or-equal.
func (m *Manager) BVUle(a, b *Expr) (*Expr, error) { return m.bvCompare(OpBVUle, a, b) }

// BVUgt constructs unsigned greater-than.
func (m *Manager) BVUgt(a, b *Expr) (*Expr, error) { return m.bvCompare(OpBVUgt, a, b) }

// BVUge constructs unsigned greater-than-or-equal.
func (m *Manager) BVUge(a, b *Expr) (*Expr, error) { return m.bvCompare(OpBVUge, a, b) }

// Extract constructs a[hi:lo], requiring 0<=lo<=hi<width.
func (m *Manager) Extract(a *Expr, hi, lo uint32) (*Expr, error) {
	if err := requireBitVec(a); err != nil {
		return nil, err
	}
	if lo > hi || hi >= a.sort.Width {
		return nil, errors.Wrapf(ErrBadExtractBounds, "[%d:%d] of width %d", hi, lo, a.sort.Width)
	}
	sort := sortkind.BitVec(hi - lo + 1)
	key := makeKey(OpBVExtract, sort, fmt.Sprintf("%d:%d", hi, lo), a)
	return m.intern(key, &Expr{op: OpBVExtract, sort: sort, children: []*Expr{a}, hi: hi, lo: lo}), nil
}

// Concat constructs the bit-vector concatenation a·b (a is the high part).
func (m *Manager) Concat(a, b *Expr) (*Expr, error) {
	if err := requireBitVec(a); err != nil {
		return nil, err
	}
	if err := requireBitVec(b); err != nil {
		return nil, err
	}
	sort := sortkind.BitVec(a.sort.Width + b.sort.Width)
	return m.binary(OpBVConcat, sort, a, b), nil
}

// Select constructs array-select(arr, idx); the result has the array's
// element sort.
func (m *Manager) Select(arr, idx *Expr) (*Expr, error) {
	if !arr.sort.IsArray() {
		return nil, errors.Wrapf(ErrExpectedArray, "got %s", arr.sort)
	}
	if err := requireBitVec(idx); err != nil {
		return nil, err
	}
	if idx.sort.Width != arr.sort.Index {
		return nil, errors.Wrapf(ErrWidthMismatch, "index width %d vs array index width %d", idx.sort.Width, arr.sort.Index)
	}
	elemSort := sortkind.BitVec(arr.sort.Elem)
	return m.binary(OpArraySelect, elemSort, arr, idx), nil
}

// MustSelect is Select, panicking on error.
func (m *Manager) MustSelect(arr, idx *Expr) *Expr {
	e, err := m.Select(arr, idx)
	if err != nil {
		panic(err)
	}
	return e
}

// Store constructs array-store(arr, idx, val), returning a new Array-sorted
// expression.
func (m *Manager) Store(arr, idx, val *Expr) (*Expr, error) {
	if !arr.sort.IsArray() {
		return nil, errors.Wrapf(ErrExpectedArray, "got %s", arr.sort)
	}
	if err := requireBitVec(idx); err != nil {
		return nil, err
	}
	if idx.sort.Width != arr.sort.Index {
		return nil, errors.Wrapf(ErrWidthMismatch, "index width %d vs array index width %d", idx.sort.Width, arr.sort.Index)
	}
	if !val.sort.IsBitVec() || val.sort.Width != arr.sort.Elem {
		return nil, errors.Wrapf(ErrWidthMismatch, "value width %d vs array elem width %d", val.sort.Width, arr.sort.Elem)
	}
	key := makeKey(OpArrayStore, arr.sort, "", arr, idx, val)
	return m.intern(key, &Expr{op: OpArrayStore, sort: arr.sort, children: []*Expr{arr, idx, val}}), nil
}

// MustStore is Store, panicking on error.
func (m *Manager) MustStore(arr, idx, val *Expr) *Expr {
	e, err := m.Store(arr, idx, val)
	if err != nil {
		panic(err)
	}
	return e
}
