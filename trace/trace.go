package trace

import (
	"sort"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

// Filter selects which variables appear in each Step.
type Filter uint8

const (
	// InputsOutputs restricts each step to h's declared inputs and
	// outputs — the default, and the usual view for a hardware trace.
	InputsOutputs Filter = iota
	// AllVars includes every variable h tracks, state included.
	AllVars
	// ChangedOnly includes, at each step after the first, only variables
	// whose value differs from the previous step.
	ChangedOnly
)

// Step is one time point's variable assignments, keyed by the symbol's
// untimed name.
type Step struct {
	Index int
	// Values holds the raw model value for every visible variable,
	// array-sorted ones included (an Array value here is whatever
	// store-chain expression the solver returned, unmaterialized).
	Values map[string]*expr.Expr
	// Arrays holds, for every visible Array-sorted variable, the explicit
	// index-to-value bindings materialized by walking that variable's
	// store chain (see materializeArray). A variable with no entry here
	// either isn't Array-sorted or the solver returned a bare base array
	// with no explicit writes.
	Arrays map[string]map[string]*expr.Expr
}

// Trace is the reconstructed witness: one Step per unrolled time point,
// plus the earliest index the final state loops back to (-1 if none).
type Trace struct {
	Steps  []Step
	LoopTo int
}

// visibleVars returns the var set Build restricts each step to, per
// filter. ChangedOnly still needs every var gathered up front — the
// per-step filtering happens after all steps are built, in Build.
func visibleVars(h *ts.HTS, filter Filter) ts.VarSet {
	if filter == InputsOutputs {
		return ts.Union(h.Inputs, h.Outputs)
	}
	return h.AllVars()
}

// Build reconstructs a Trace of length k+1 from model, a solver model
// keyed by forward-timed symbols (BWD/ZZ callers must remap the model with
// bmc.RemapModel before calling Build).
func Build(h *ts.HTS, model map[symbol.Symbol]*expr.Expr, k int, filter Filter) *Trace {
	vars := visibleVars(h, filter)

	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v.Name)
	}
	sort.Strings(names)

	varByName := make(map[string]symbol.Symbol, len(vars))
	for v := range vars {
		varByName[v.Name] = v
	}

	steps := make([]Step, k+1)
	for t := 0; t <= k; t++ {
		values := make(map[string]*expr.Expr)
		arrays := make(map[string]map[string]*expr.Expr)
		for _, name := range names {
			v := varByName[name]
			val, ok := model[symbol.AtTime(v, t)]
			if !ok {
				continue
			}
			values[name] = val
			if v.Sort.IsArray() {
				if bindings := materializeArray(val); len(bindings) > 0 {
					arrays[name] = bindings
				}
			}
		}
		steps[t] = Step{Index: t, Values: values, Arrays: arrays}
	}

	if filter == ChangedOnly {
		steps = diffOnly(steps)
	}

	return &Trace{Steps: steps, LoopTo: findLoop(h, model, k)}
}

// materializeArray walks e's store chain (Store(Store(...base..., i1, v1),
// i2, v2)) and binds each explicit index, keyed by its debug-printed
// value, to the value it was last written to. The outermost Store in the
// chain is the most recent write, so an index already bound by an outer
// Store is never overwritten by an older, inner one. A base array with no
// Store nodes at all (a bare symbol or constant) yields no bindings.
func materializeArray(e *expr.Expr) map[string]*expr.Expr {
	bindings := make(map[string]*expr.Expr)
	for e.Op() == expr.OpArrayStore {
		children := e.Children()
		base, idx, val := children[0], children[1], children[2]
		key := expr.DebugString(idx)
		if _, seen := bindings[key]; !seen {
			bindings[key] = val
		}
		e = base
	}
	return bindings
}

// diffOnly drops, from every step after the first, any variable whose
// value is unchanged from the previous step.
func diffOnly(steps []Step) []Step {
	if len(steps) == 0 {
		return steps
	}
	prev := steps[0].Values
	out := make([]Step, len(steps))
	out[0] = steps[0]
	for i := 1; i < len(steps); i++ {
		changed := make(map[string]*expr.Expr)
		arrays := make(map[string]map[string]*expr.Expr)
		for name, val := range steps[i].Values {
			if prevVal, ok := prev[name]; !ok || prevVal != val {
				changed[name] = val
				if bindings, ok := steps[i].Arrays[name]; ok {
					arrays[name] = bindings
				}
			}
		}
		out[i] = Step{Index: steps[i].Index, Values: changed, Arrays: arrays}
		prev = steps[i].Values
	}
	return out
}

// findLoop reports the earliest index t < k whose full state-variable
// assignment equals the final state's, or -1 if none repeats.
func findLoop(h *ts.HTS, model map[symbol.Symbol]*expr.Expr, k int) int {
	names := make([]string, 0, len(h.StateVars))
	for v := range h.StateVars {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	varByName := make(map[string]symbol.Symbol, len(h.StateVars))
	for v := range h.StateVars {
		varByName[v.Name] = v
	}

	stateAt := func(t int) string {
		var key string
		for _, name := range names {
			v := varByName[name]
			val, ok := model[symbol.AtTime(v, t)]
			if !ok {
				key += name + "=?;"
				continue
			}
			key += name + "=" + expr.DebugString(val) + ";"
		}
		return key
	}

	last := stateAt(k)
	for t := 0; t < k; t++ {
		if stateAt(t) == last {
			return t
		}
	}
	return -1
}
