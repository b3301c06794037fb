package expr

import "github.com/htsmc/htsmc/symbol"

// Substitute performs capture-free substitution of e, replacing every free
// occurrence of a symbol in subs by its mapped expression. Symbol values
// are globally unique, so substitution never needs scoping or capture
// bookkeeping — this is a plain memoized rebuild through the Manager so
// the result is itself canonical.
func Substitute(m *Manager, e *Expr, subs map[symbol.Symbol]*Expr) *Expr {
	if len(subs) == 0 {
		return e
	}
	memo := make(map[*Expr]*Expr)
	return substRec(m, e, subs, memo)
}

func substRec(m *Manager, e *Expr, subs map[symbol.Symbol]*Expr, memo map[*Expr]*Expr) *Expr {
	if out, ok := memo[e]; ok {
		return out
	}

	var out *Expr
	switch e.op {
	case OpSymbol:
		if repl, ok := subs[e.sym]; ok {
			out = repl
		} else {
			out = e
		}
	case OpBoolConst, OpBVConst:
		out = e
	default:
		children := make([]*Expr, len(e.children))
		changed := false
		for i, c := range e.children {
			nc := substRec(m, c, subs, memo)
			children[i] = nc
			if nc != c {
				changed = true
			}
		}
		if !changed {
			out = e
		} else {
			out = rebuild(m, e, children)
		}
	}
	memo[e] = out
	return out
}

// rebuild reconstructs e with new children via the Manager so the result is
// interned and re-sort-checked; substitution can change a BitVec's observed
// width only if a caller deliberately maps a symbol to a mis-sorted
// expression, which is a programmer error and is allowed to panic here via
// the Must* constructors.
func rebuild(m *Manager, e *Expr, children []*Expr) *Expr {
	switch e.op {
	case OpNot:
		return m.MustNot(children[0])
	case OpAnd:
		return m.MustAnd(children...)
	case OpOr:
		r, err := m.Or(children...)
		if err != nil {
			panic(err)
		}
		return r
	case OpXor:
		r, _ := m.Xor(children[0], children[1])
		return r
	case OpImplies:
		r, _ := m.Implies(children[0], children[1])
		return r
	case OpIff:
		r, _ := m.Iff(children[0], children[1])
		return r
	case OpEquals:
		return m.MustEquals(children[0], children[1])
	case OpIte:
		return m.MustIte(children[0], children[1], children[2])
	case OpBVAdd:
		return m.MustBVAdd(children[0], children[1])
	case OpBVSub:
		r, _ := m.BVSub(children[0], children[1])
		return r
	case OpBVAnd:
		r, _ := m.BVAnd(children[0], children[1])
		return r
	case OpBVOr:
		r, _ := m.BVOr(children[0], children[1])
		return r
	case OpBVXor:
		r, _ := m.BVXor(children[0], children[1])
		return r
	case OpBVNot:
		r, _ := m.BVNot(children[0])
		return r
	case OpBVShl:
		r, _ := m.BVShl(children[0], children[1])
		return r
	case OpBVUlt:
		r, _ := m.BVUlt(children[0], children[1])
		return r
	case OpBVUle:
		r, _ := m.BVUle(children[0], children[1])
		return r
	case OpBVUgt:
		r, _ := m.BVUgt(children[0], children[1])
		return r
	case OpBVUge:
		r, _ := m.BVUge(children[0], children[1])
		return r
	case OpBVExtract:
		r, _ := m.Extract(children[0], e.hi, e.lo)
		return r
	case OpBVConcat:
		r, _ := m.Concat(children[0], children[1])
		return r
	case OpArraySelect:
		return m.MustSelect(children[0], children[1])
	case OpArrayStore:
		return m.MustStore(children[0], children[1], children[2])
	default:
		panic("expr: rebuild: unhandled op " + e.op.String())
	}
}
