package ts

import (
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
)

// ToNext shifts phi one step forward: substitutes every current-view free
// variable v by prime(v), and every prev(v) by v.
func ToNext(m *expr.Manager, phi *expr.Expr) *expr.Expr {
	subs := make(map[symbol.Symbol]*expr.Expr)
	for v := range expr.FreeVars(phi) {
		switch v.View {
		case symbol.Current:
			subs[v] = m.Sym(v.Prime())
		case symbol.Prev:
			subs[v] = m.Sym(v.RefVar())
		}
	}
	return expr.Substitute(m, phi, subs)
}

// ToPrev is the symmetric counterpart of ToNext: substitutes every
// current-view free variable v by prev(v), and every prime(v) by v.
func ToPrev(m *expr.Manager, phi *expr.Expr) *expr.Expr {
	subs := make(map[symbol.Symbol]*expr.Expr)
	for v := range expr.FreeVars(phi) {
		switch v.View {
		case symbol.Current:
			subs[v] = m.Sym(v.PrevOf())
		case symbol.Prime:
			subs[v] = m.Sym(v.RefVar())
		}
	}
	return expr.Substitute(m, phi, subs)
}

// HasNext reports whether phi mentions any next-state (primed) variable.
func HasNext(phi *expr.Expr) bool { return expr.HasNext(phi) }
