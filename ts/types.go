// Package ts implements the transition-system algebra: a TS is a triple
// (init I, invar V, trans T) over a partitioned variable set; an HTS
// composes TSs and sub-HTS instances by conjunction, widening its logic
// from QF_BV to QF_ABV the moment any member TS touches an array.
package ts

import (
	"github.com/pkg/errors"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
)

// Logic is the SMT logic an HTS requires, widened monotonically (never
// narrowed) as member TSs are added.
type Logic uint8

const (
	// QF_BV is quantifier-free bit-vector logic.
	QF_BV Logic = iota
	// QF_ABV is quantifier-free array + bit-vector logic.
	QF_ABV
)

func (l Logic) String() string {
	if l == QF_ABV {
		return "QF_ABV"
	}
	return "QF_BV"
}

// VarSet is a set of symbols; a plain map alias keeps call sites using the
// familiar `for v := range set` idiom without a wrapper type's overhead.
type VarSet map[symbol.Symbol]struct{}

// NewVarSet builds a VarSet from the given symbols.
func NewVarSet(vars ...symbol.Symbol) VarSet {
	s := make(VarSet, len(vars))
	for _, v := range vars {
		s[v] = struct{}{}
	}
	return s
}

// Union returns a new VarSet containing every symbol of a and b.
func Union(a, b VarSet) VarSet {
	out := make(VarSet, len(a)+len(b))
	for v := range a {
		out[v] = struct{}{}
	}
	for v := range b {
		out[v] = struct{}{}
	}
	return out
}

func subset(vars VarSet, of VarSet) bool {
	for v := range vars {
		if _, ok := of[v]; !ok {
			return false
		}
	}
	return true
}

// TS is a single transition system: the triple (init, invar, trans) plus
// the variable partitions its formulas are checked against.
type TS struct {
	Vars      VarSet
	StateVars VarSet
	Init      *expr.Expr
	Invar     *expr.Expr
	Trans     *expr.Expr
	Comment   string
	Logic     Logic
}

// New constructs a TS, validating the free-variable invariants:
//
//	free_vars(init)  ⊆ vars
//	free_vars(invar) ⊆ vars
//	free_vars(trans) ⊆ vars ∪ prime(state_vars) ∪ prev(state_vars)
func New(vars, stateVars VarSet, init, invar, trans *expr.Expr) (*TS, error) {
	if !subset(expr.FreeVars(init), vars) {
		return nil, errors.Wrap(ErrFreeVarNotDeclared, "init")
	}
	if !subset(expr.FreeVars(invar), vars) {
		return nil, errors.Wrap(ErrFreeVarNotDeclared, "invar")
	}
	allowedTrans := make(VarSet, len(vars)+2*len(stateVars))
	for v := range vars {
		allowedTrans[v] = struct{}{}
	}
	for v := range stateVars {
		p := v
		p.View = symbol.Prime
		allowedTrans[p] = struct{}{}
		q := v
		q.View = symbol.Prev
		allowedTrans[q] = struct{}{}
	}
	if !subset(expr.FreeVars(trans), allowedTrans) {
		return nil, errors.Wrap(ErrFreeVarNotDeclared, "trans")
	}

	logic := QF_BV
	if usesArray(init) || usesArray(invar) || usesArray(trans) {
		logic = QF_ABV
	}

	return &TS{
		Vars:      vars,
		StateVars: stateVars,
		Init:      init,
		Invar:     invar,
		Trans:     trans,
		Logic:     logic,
	}, nil
}

func usesArray(e *expr.Expr) bool {
	if e == nil {
		return false
	}
	seen := make(map[*expr.Expr]struct{})
	var walk func(*expr.Expr) bool
	walk = func(n *expr.Expr) bool {
		if _, ok := seen[n]; ok {
			return false
		}
		seen[n] = struct{}{}
		if n.Sort().IsArray() {
			return true
		}
		for _, c := range n.Children() {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(e)
}

// RemoveInvar folds V into I and T:
//
//	I ← I ∧ V
//	T ← T ∧ V ∧ V[next]
//	V ← ⊤
//
// This mutates and returns ts for convenient chaining.
func (t *TS) RemoveInvar(m *expr.Manager) (*TS, error) {
	if t.Invar == nil || t.Invar == m.True() {
		return t, nil
	}
	nextInvar := ToNext(m, t.Invar)

	newInit, err := m.And(t.Init, t.Invar)
	if err != nil {
		return nil, errors.Wrap(err, "remove_invar: init")
	}
	newTrans, err := m.And(t.Trans, t.Invar, nextInvar)
	if err != nil {
		return nil, errors.Wrap(err, "remove_invar: trans")
	}
	t.Init = newInit
	t.Trans = newTrans
	t.Invar = m.True()
	return t, nil
}
