package ts

import (
	"github.com/pkg/errors"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
)

// SubInstance is one instantiated child HTS inside a parent: Bindings maps
// each of Child's declared Inputs (its formal ports) to an actual
// expression built over the parent's own variables.
type SubInstance struct {
	Name     string
	Child    *HTS
	Bindings map[symbol.Symbol]*expr.Expr
}

// HTS is a Hierarchical Transition System: a name, a list of member TSs, a
// list of sub-HTS instances with port bindings, partitioned variable sets,
// an assumptions list, and cached single_init/invar/trans compositions.
type HTS struct {
	Name        string
	TSs         []*TS
	Subs        []SubInstance
	Inputs      VarSet
	Outputs     VarSet
	StateVars   VarSet
	Assumptions []*expr.Expr
	Logic       Logic

	singleInit  *expr.Expr
	singleInvar *expr.Expr
	singleTrans *expr.Expr
}

// NewHTS constructs an empty HTS with the given name.
func NewHTS(name string) *HTS {
	return &HTS{
		Name:      name,
		Inputs:    VarSet{},
		Outputs:   VarSet{},
		StateVars: VarSet{},
		Logic:     QF_BV,
	}
}

// AddTS appends a TS to h, widens h's Logic if the TS uses arrays, and
// invalidates the cached compositions.
func (h *HTS) AddTS(t *TS) {
	h.TSs = append(h.TSs, t)
	for v := range t.StateVars {
		h.StateVars[v] = struct{}{}
	}
	if t.Logic == QF_ABV {
		h.Logic = QF_ABV
	}
	h.invalidate()
}

// AddSub registers a sub-HTS instance.
func (h *HTS) AddSub(sub SubInstance) {
	h.Subs = append(h.Subs, sub)
	h.invalidate()
}

// AddAssumption appends an assumption, folded into SingleInvar.
func (h *HTS) AddAssumption(a *expr.Expr) {
	h.Assumptions = append(h.Assumptions, a)
	h.invalidate()
}

func (h *HTS) invalidate() {
	h.singleInit = nil
	h.singleInvar = nil
	h.singleTrans = nil
}

// AllVars returns the union of every variable referenced by h's own TSs;
// inputs, outputs and state variables not otherwise tracked fall out of
// the formulas' free variables.
func (h *HTS) AllVars() VarSet {
	out := make(VarSet)
	for v := range h.Inputs {
		out[v] = struct{}{}
	}
	for v := range h.Outputs {
		out[v] = struct{}{}
	}
	for v := range h.StateVars {
		out[v] = struct{}{}
	}
	for _, t := range h.TSs {
		for v := range t.Vars {
			out[v] = struct{}{}
		}
	}
	return out
}

// SingleInit returns (and caches) the conjunction of every member TS's
// Init field.
func (h *HTS) SingleInit(m *expr.Manager) (*expr.Expr, error) {
	if h.singleInit != nil {
		return h.singleInit, nil
	}
	acc := m.True()
	for _, t := range h.TSs {
		if t.Init == nil {
			continue
		}
		var err error
		acc, err = m.And(acc, t.Init)
		if err != nil {
			return nil, errors.Wrap(err, "single_init")
		}
	}
	h.singleInit = acc
	return acc, nil
}

// SingleTrans returns (and caches) the conjunction of every member TS's
// Trans field.
func (h *HTS) SingleTrans(m *expr.Manager) (*expr.Expr, error) {
	if h.singleTrans != nil {
		return h.singleTrans, nil
	}
	acc := m.True()
	for _, t := range h.TSs {
		if t.Trans == nil {
			continue
		}
		var err error
		acc, err = m.And(acc, t.Trans)
		if err != nil {
			return nil, errors.Wrap(err, "single_trans")
		}
	}
	h.singleTrans = acc
	return acc, nil
}

// SingleInvar returns (and caches) the conjunction of every member TS's
// Invar field plus h's own Assumptions.
func (h *HTS) SingleInvar(m *expr.Manager) (*expr.Expr, error) {
	if h.singleInvar != nil {
		return h.singleInvar, nil
	}
	acc := m.True()
	for _, t := range h.TSs {
		if t.Invar == nil {
			continue
		}
		var err error
		acc, err = m.And(acc, t.Invar)
		if err != nil {
			return nil, errors.Wrap(err, "single_invar")
		}
	}
	for _, a := range h.Assumptions {
		var err error
		acc, err = m.And(acc, a)
		if err != nil {
			return nil, errors.Wrap(err, "single_invar: assumptions")
		}
	}
	h.singleInvar = acc
	return acc, nil
}

// RemoveInvars folds every member TS's invariant into its init/trans.
func (h *HTS) RemoveInvars(m *expr.Manager) error {
	for _, t := range h.TSs {
		if _, err := t.RemoveInvar(m); err != nil {
			return err
		}
	}
	h.invalidate()
	return nil
}

// Combine unions other into h: variable sets are unioned and other's TS
// list is appended, with NO deduplication — callers are expected to pass
// disjoint symbol namespaces or accept the resulting redundancy.
func (h *HTS) Combine(other *HTS) {
	h.TSs = append(h.TSs, other.TSs...)
	h.Subs = append(h.Subs, other.Subs...)
	h.Inputs = Union(h.Inputs, other.Inputs)
	h.Outputs = Union(h.Outputs, other.Outputs)
	h.StateVars = Union(h.StateVars, other.StateVars)
	h.Assumptions = append(h.Assumptions, other.Assumptions...)
	if other.Logic == QF_ABV {
		h.Logic = QF_ABV
	}
	h.invalidate()
}
