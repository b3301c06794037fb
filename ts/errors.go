// errors.go — sentinel errors for the ts package: package-level
// sentinels, branched on with errors.Is, wrapped with
// github.com/pkg/errors at call sites for context.
package ts

import "errors"

// ErrFreeVarNotDeclared indicates init/invar/trans references a symbol
// outside the bounds allowed for that field.
var ErrFreeVarNotDeclared = errors.New("ts: free variable not declared in vars/state_vars")

// ErrMissingSubInstance indicates a port binding or flatten step referenced
// a sub-HTS instance that was never registered with AddSub.
var ErrMissingSubInstance = errors.New("ts: sub-HTS instance not found")

// ErrCyclicInstantiation indicates the sub-HTS instantiation graph has a
// cycle, so Flatten cannot establish a child-before-parent order.
var ErrCyclicInstantiation = errors.New("ts: cyclic sub-HTS instantiation")

// ErrUnboundPort indicates a sub-HTS instance did not bind one of the
// child's formal input parameters.
var ErrUnboundPort = errors.New("ts: unbound formal port")
