package bmc

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/solver"
)

// ErrNoFactory is returned by the All strategy when Config.Factory is nil,
// since running multiple strategies concurrently requires one independent
// solver instance per strategy.
var ErrNoFactory = errors.New("bmc: All strategy requires Config.Factory")

var allStrategies = []Strategy{Fwd, Bwd, ZigZag}

// all runs Fwd, Bwd and ZigZag concurrently, each against its own Solver
// built from Config.Factory, and returns the first conclusive result.
// Attempts still running when one concludes are left to finish in the
// background; their results are discarded.
func (e *Engine) all(prop *expr.Expr) (*CheckResult, error) {
	if e.cfg.Factory == nil {
		return nil, ErrNoFactory
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type attempt struct {
		res *CheckResult
		err error
	}
	results := make(chan attempt, len(allStrategies))

	var wg sync.WaitGroup
	for _, strat := range allStrategies {
		strat := strat
		wg.Add(1)
		go func() {
			defer wg.Done()
			childSolver, err := solver.New(e.cfg.Factory, e.cfg.Logic)
			if err != nil {
				results <- attempt{err: errors.Wrapf(err, "all: build solver for %s", strat)}
				return
			}
			defer childSolver.Close()

			childCfg := e.cfg
			childCfg.Strategy = strat
			child, err := NewEngine(e.m, e.h, childSolver, childCfg, e.log)
			if err != nil {
				results <- attempt{err: err}
				return
			}

			var res *CheckResult
			switch strat {
			case Fwd:
				res, err = child.fwd(prop)
			case Bwd:
				res, err = child.bwd(prop)
			case ZigZag:
				res, err = child.zigzag(prop)
			}
			select {
			case results <- attempt{res: res, err: err}:
			case <-ctx.Done():
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for a := range results {
		if a.err != nil {
			continue
		}
		if a.res.Outcome != OutcomeUnknown {
			a.res.Strategy = All
			cancel()
			return a.res, nil
		}
	}
	return &CheckResult{Outcome: OutcomeUnknown, K: e.cfg.KMax, Strategy: All}, nil
}
