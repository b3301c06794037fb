package expr

// ConjunctivePartition returns the multiset of top-level conjuncts of e,
// flattening nested OpAnd nodes so a caller can emit one `(assert ...)`
// per conjunct instead of one large one. A non-conjunction e yields the
// single-element slice [e].
func ConjunctivePartition(e *Expr) []*Expr {
	var out []*Expr
	flattenAnd(e, &out)
	return out
}

func flattenAnd(e *Expr, out *[]*Expr) {
	if e.op == OpAnd {
		for _, c := range e.children {
			flattenAnd(c, out)
		}
		return
	}
	*out = append(*out, e)
}
