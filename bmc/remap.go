package bmc

import (
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

// RemapModel rewrites a raw solver model so every value is keyed by its
// forward-timed symbol, regardless of which strategy produced it. Fwd,
// NoUnroll, Interpolation, LTL, Auto and All models are already in that
// form; Bwd and ZigZag models are keyed by ptimed symbols (in whole or in
// part) and need remapping.
func RemapModel(strategy Strategy, vars ts.VarSet, model map[symbol.Symbol]*expr.Expr, k int) map[symbol.Symbol]*expr.Expr {
	switch strategy {
	case Bwd:
		return remapBwd(vars, model, k)
	case ZigZag:
		return remapZZ(vars, model, k)
	default:
		return model
	}
}

func remapBwd(vars ts.VarSet, model map[symbol.Symbol]*expr.Expr, k int) map[symbol.Symbol]*expr.Expr {
	out := make(map[symbol.Symbol]*expr.Expr, len(vars)*(k+1))
	for v := range vars {
		for t := 0; t <= k; t++ {
			out[symbol.AtTime(v, t)] = model[symbol.AtPtime(v, k-t)]
		}
	}
	return out
}

func remapZZ(vars ts.VarSet, model map[symbol.Symbol]*expr.Expr, k int) map[symbol.Symbol]*expr.Expr {
	out := make(map[symbol.Symbol]*expr.Expr, len(model))
	for sym, val := range model {
		out[sym] = val
	}
	mid := k/2 + 1
	for v := range vars {
		for t := mid; t <= k; t++ {
			out[symbol.AtTime(v, t)] = model[symbol.AtPtime(v, k-t)]
		}
	}
	return out
}
