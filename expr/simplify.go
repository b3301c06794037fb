package expr

import "math/big"

// Simplify performs constant folding, idempotence, and neutral-element
// reduction on e, returning a (possibly identical) canonical expression.
// It is deliberately a single bottom-up pass rather than a saturating
// rewrite loop: each node is simplified once, from its already-simplified
// children upward.
func Simplify(m *Manager, e *Expr) *Expr {
	memo := make(map[*Expr]*Expr)
	return simplifyRec(m, e, memo)
}

func simplifyRec(m *Manager, e *Expr, memo map[*Expr]*Expr) *Expr {
	if out, ok := memo[e]; ok {
		return out
	}
	if e.IsLeaf() {
		memo[e] = e
		return e
	}

	children := make([]*Expr, len(e.children))
	for i, c := range e.children {
		children[i] = simplifyRec(m, c, memo)
	}

	out := simplifyNode(m, e, children)
	memo[e] = out
	return out
}

func simplifyNode(m *Manager, e *Expr, c []*Expr) *Expr {
	switch e.op {
	case OpNot:
		if c[0].op == OpBoolConst {
			return m.Bool(!c[0].boolVal)
		}
		if c[0].op == OpNot {
			return c[0].children[0]
		}
		return m.MustNot(c[0])

	case OpAnd:
		return simplifyAndOr(m, true, c)

	case OpOr:
		return simplifyAndOr(m, false, c)

	case OpXor:
		if c[0].op == OpBoolConst && c[1].op == OpBoolConst {
			return m.Bool(c[0].boolVal != c[1].boolVal)
		}
		r, _ := m.Xor(c[0], c[1])
		return r

	case OpImplies:
		if c[0].op == OpBoolConst {
			if !c[0].boolVal {
				return m.True()
			}
			return c[1]
		}
		if c[1].op == OpBoolConst && c[1].boolVal {
			return m.True()
		}
		r, _ := m.Implies(c[0], c[1])
		return r

	case OpIff:
		if c[0] == c[1] {
			return m.True()
		}
		if c[0].op == OpBoolConst && c[1].op == OpBoolConst {
			return m.Bool(c[0].boolVal == c[1].boolVal)
		}
		r, _ := m.Iff(c[0], c[1])
		return r

	case OpEquals:
		if c[0] == c[1] {
			return m.True()
		}
		if c[0].op == OpBVConst && c[1].op == OpBVConst {
			return m.Bool(c[0].bvVal.Cmp(c[1].bvVal) == 0)
		}
		return m.MustEquals(c[0], c[1])

	case OpIte:
		if c[0].op == OpBoolConst {
			if c[0].boolVal {
				return c[1]
			}
			return c[2]
		}
		if c[1] == c[2] {
			return c[1]
		}
		return m.MustIte(c[0], c[1], c[2])

	case OpBVAdd:
		return bvFold(m, c[0], c[1], e.sort.Width, func(a, b *big.Int) *big.Int {
			return new(big.Int).Add(a, b)
		}, m.MustBVAdd)

	case OpBVSub:
		return bvFold(m, c[0], c[1], e.sort.Width, func(a, b *big.Int) *big.Int {
			return new(big.Int).Sub(a, b)
		}, func(a, b *Expr) *Expr { r, _ := m.BVSub(a, b); return r })

	case OpBVAnd:
		return bvFold(m, c[0], c[1], e.sort.Width, func(a, b *big.Int) *big.Int {
			return new(big.Int).And(a, b)
		}, func(a, b *Expr) *Expr { r, _ := m.BVAnd(a, b); return r })

	case OpBVOr:
		return bvFold(m, c[0], c[1], e.sort.Width, func(a, b *big.Int) *big.Int {
			return new(big.Int).Or(a, b)
		}, func(a, b *Expr) *Expr { r, _ := m.BVOr(a, b); return r })

	case OpBVXor:
		return bvFold(m, c[0], c[1], e.sort.Width, func(a, b *big.Int) *big.Int {
			return new(big.Int).Xor(a, b)
		}, func(a, b *Expr) *Expr { r, _ := m.BVXor(a, b); return r })

	case OpBVNot:
		if c[0].op == OpBVConst {
			mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(e.sort.Width)), big.NewInt(1))
			return m.BV(new(big.Int).Xor(c[0].bvVal, mask), e.sort.Width)
		}
		r, _ := m.BVNot(c[0])
		return r

	default:
		return rebuild(m, e, c)
	}
}

// simplifyAndOr folds a (possibly flattened) conjunction/disjunction,
// dropping the neutral element and short-circuiting on the absorbing one.
func simplifyAndOr(m *Manager, isAnd bool, operands []*Expr) *Expr {
	neutral, absorbing := true, false
	if !isAnd {
		neutral, absorbing = false, true
	}

	var kept []*Expr
	for _, o := range operands {
		if o.op == OpBoolConst {
			if o.boolVal == absorbing {
				return m.Bool(absorbing)
			}
			continue // drop neutral-element constant
		}
		kept = append(kept, o)
	}
	if len(kept) == 0 {
		return m.Bool(neutral)
	}
	if len(kept) == 1 {
		return kept[0]
	}
	if isAnd {
		r, _ := m.And(kept...)
		return r
	}
	r, _ := m.Or(kept...)
	return r
}

func bvFold(m *Manager, a, b *Expr, width uint32, fold func(a, b *big.Int) *big.Int, build func(a, b *Expr) *Expr) *Expr {
	if a.op == OpBVConst && b.op == OpBVConst {
		return m.BV(fold(a.bvVal, b.bvVal), width)
	}
	return build(a, b)
}
