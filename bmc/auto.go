package bmc

import (
	"errors"

	"github.com/htsmc/htsmc/expr"
)

// auto tries Fwd first and, on an inconclusive outcome at the configured
// bound, falls back through Bwd, ZigZag and Interpolation in that order,
// returning the first conclusive result. Interpolation is skipped when the
// backend does not implement solver.InterpolatingBackend.
func (e *Engine) auto(prop *expr.Expr) (*CheckResult, error) {
	var last *CheckResult
	for _, strat := range autoFallback {
		sub := *e
		sub.cfg.Strategy = strat
		var (
			res *CheckResult
			err error
		)
		switch strat {
		case Fwd:
			res, err = sub.fwd(prop)
		case Bwd:
			res, err = sub.bwd(prop)
		case ZigZag:
			res, err = sub.zigzag(prop)
		case Interpolation:
			res, err = sub.interpolate(prop)
		}
		if strat == Interpolation && errors.Is(err, ErrNoInterpolation) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res.Strategy = Auto
		if res.Outcome != OutcomeUnknown {
			return res, nil
		}
		last = res
	}
	return last, nil
}
