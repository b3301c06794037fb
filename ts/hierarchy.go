package ts

import (
	"github.com/pkg/errors"

	"github.com/htsmc/htsmc/expr"
)

// instantiationOrder computes a child-before-parent visitation order over
// root's sub-HTS instantiation graph, detecting cycles.
//
// It is a three-color (White/Gray/Black) depth-first search run directly
// over *HTS pointers rather than a separate adjacency structure, since
// every sub-HTS instance already carries a direct pointer to its child.
func instantiationOrder(root *HTS) ([]*HTS, error) {
	const (
		white = iota
		gray
		black
	)
	state := make(map[*HTS]int)
	var order []*HTS

	var visit func(h *HTS) error
	visit = func(h *HTS) error {
		switch state[h] {
		case black:
			return nil
		case gray:
			return errors.Wrapf(ErrCyclicInstantiation, "%s", h.Name)
		}
		state[h] = gray
		for _, sub := range h.Subs {
			if sub.Child == nil {
				return errors.Wrapf(ErrMissingSubInstance, "%s", sub.Name)
			}
			if err := visit(sub.Child); err != nil {
				return err
			}
		}
		state[h] = black
		order = append(order, h)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// Flatten substitutes each sub-HTS instance's actual port-binding
// expressions for its formal input symbols and merges the result into the
// parent, recursively and bottom-up. The returned *HTS is a new, flattened
// root; h itself is left unmodified.
func Flatten(m *expr.Manager, h *HTS) (*HTS, error) {
	order, err := instantiationOrder(h)
	if err != nil {
		return nil, err
	}

	flat := make(map[*HTS]*TS, len(order))
	for _, node := range order {
		init, err := node.SingleInit(m)
		if err != nil {
			return nil, err
		}
		invar, err := node.SingleInvar(m)
		if err != nil {
			return nil, err
		}
		trans, err := node.SingleTrans(m)
		if err != nil {
			return nil, err
		}
		vars := node.AllVars()
		logic := node.Logic

		for _, sub := range node.Subs {
			childTS, ok := flat[sub.Child]
			if !ok {
				return nil, errors.Wrapf(ErrMissingSubInstance, "%s", sub.Name)
			}
			for in := range sub.Child.Inputs {
				if _, bound := sub.Bindings[in]; !bound {
					return nil, errors.Wrapf(ErrUnboundPort, "%s.%s", sub.Name, in.String())
				}
			}

			subInit := expr.Substitute(m, childTS.Init, sub.Bindings)
			subInvar := expr.Substitute(m, childTS.Invar, sub.Bindings)
			subTrans := expr.Substitute(m, childTS.Trans, sub.Bindings)

			init, err = m.And(init, subInit)
			if err != nil {
				return nil, errors.Wrapf(err, "flatten %s: init", sub.Name)
			}
			invar, err = m.And(invar, subInvar)
			if err != nil {
				return nil, errors.Wrapf(err, "flatten %s: invar", sub.Name)
			}
			trans, err = m.And(trans, subTrans)
			if err != nil {
				return nil, errors.Wrapf(err, "flatten %s: trans", sub.Name)
			}
			vars = Union(vars, expr.FreeVars(subInit))
			vars = Union(vars, expr.FreeVars(subInvar))
			vars = Union(vars, expr.FreeVars(subTrans))
			if childTS.Logic == QF_ABV {
				logic = QF_ABV
			}
		}

		flat[node] = &TS{
			Vars:      vars,
			StateVars: node.StateVars,
			Init:      init,
			Invar:     invar,
			Trans:     trans,
			Logic:     logic,
		}
	}

	rootTS := flat[h]
	out := NewHTS(h.Name)
	out.Inputs = h.Inputs
	out.Outputs = h.Outputs
	out.StateVars = rootTS.StateVars
	out.Logic = h.Logic
	out.AddTS(&TS{
		Vars:      rootTS.Vars,
		StateVars: rootTS.StateVars,
		Init:      rootTS.Init,
		Invar:     rootTS.Invar,
		Trans:     rootTS.Trans,
		Logic:     rootTS.Logic,
	})
	return out, nil
}
