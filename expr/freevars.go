package expr

import "github.com/htsmc/htsmc/symbol"

// FreeVars returns the set of symbols (in any view) occurring in e. Since
// Expr is hash-consed, a simple memoized post-order walk is enough — no
// node is visited twice across the whole traversal if it is shared, and the
// memo is scoped to a single call so the Manager stays free of caches keyed
// by use-site.
func FreeVars(e *Expr) map[symbol.Symbol]struct{} {
	out := make(map[symbol.Symbol]struct{})
	seen := make(map[*Expr]struct{})
	collectFreeVars(e, out, seen)
	return out
}

func collectFreeVars(e *Expr, out map[symbol.Symbol]struct{}, seen map[*Expr]struct{}) {
	if _, ok := seen[e]; ok {
		return
	}
	seen[e] = struct{}{}

	if e.op == OpSymbol {
		out[e.sym] = struct{}{}
		return
	}
	for _, c := range e.children {
		collectFreeVars(c, out, seen)
	}
}

// ContainsSymbol reports whether v occurs free in e.
func ContainsSymbol(e *Expr, v symbol.Symbol) bool {
	_, ok := FreeVars(e)[v]
	return ok
}

// HasNext reports whether any free variable of e is a primed (next-state)
// symbol.
func HasNext(e *Expr) bool {
	for v := range FreeVars(e) {
		if v.IsPrime() {
			return true
		}
	}
	return false
}
