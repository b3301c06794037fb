package check

import "errors"

// ErrOutputArityMismatch is returned by OutputsEqual when the two output
// lists being paired up have different lengths.
var ErrOutputArityMismatch = errors.New("check: equivalence output lists have different arity")

// ErrNotInNNF is returned by the tableau compiler when it encounters a Not
// node; callers must normalize a formula with NNF before compiling it.
var ErrNotInNNF = errors.New("check: LTL formula must be in negation-normal form before compiling")
