// Package solver implements a trace-capable wrapper around an abstract
// SMT solver backend, with incremental variable-declaration bookkeeping,
// push/pop scoping, an optional SMT-LIB2 log tee, and a skip-solving
// dry-run mode.
//
// The backend itself — an actual SMT process such as MathSAT, Z3 or
// Boolector — is an external collaborator; this package only defines and
// consumes the Backend interface that any such process must satisfy.
package solver

import (
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
)

// Result is the outcome of a CheckSat call.
type Result uint8

const (
	// Unknown is returned when the backend could not decide (timeout,
	// resource exhaustion, or skip-solving mode).
	Unknown Result = iota
	// Sat indicates the asserted formula set is satisfiable.
	Sat
	// Unsat indicates the asserted formula set is unsatisfiable.
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Logic is the SMT-LIB2 logic a Backend is bound to.
type Logic string

const (
	// QF_BV is quantifier-free bit-vector logic.
	QF_BV Logic = "QF_BV"
	// QF_ABV is quantifier-free array + bit-vector logic.
	QF_ABV Logic = "QF_ABV"
)

// Backend is the abstract SMT solver interface: construct bound to a
// logic, declare variables, assert formulas, push/pop scopes, check
// satisfiability and read back a model, then reset or close. Front ends
// and the test suite supply concrete implementations; the core never
// constructs one directly except through the factory passed to New.
type Backend interface {
	// Declare introduces a free variable; backends must tolerate repeated
	// Declare calls for the same symbol only if the caller already filters
	// duplicates (the Solver façade does — see declared-variable tracking
	// in solver.go).
	Declare(sym symbol.Symbol) error
	// Assert adds e as a hard constraint in the current scope.
	Assert(e *expr.Expr) error
	// Push opens a new nested scope.
	Push() error
	// Pop closes the most recently opened scope.
	Pop() error
	// CheckSat decides satisfiability of everything asserted in all open
	// scopes. Returns Unknown (not an error) on solver-reported unknown.
	CheckSat() (Result, error)
	// Model returns a satisfying assignment for the requested variables
	// (or every declared variable if vars is nil) after a Sat CheckSat.
	Model(vars []symbol.Symbol) (map[symbol.Symbol]*expr.Expr, error)
	// Reset tears down all assertions; if full is true the backend also
	// recreates its underlying solver process.
	Reset(full bool) error
	// Close releases any OS resources (subprocess, file handles). Safe to
	// call multiple times.
	Close() error
}

// InterpolatingBackend is implemented by backends that support Craig
// interpolation, required by the BMC engine's interpolation-based
// strategy.
type InterpolatingBackend interface {
	Backend
	// Interpolate returns a Craig interpolant for (A, B), valid only when
	// CheckSat() on A∧B was Unsat.
	Interpolate(a, b *expr.Expr) (*expr.Expr, error)
}

// Factory constructs a fresh Backend bound to the given logic; the Solver
// façade calls it once at construction and again on Reset(full=true).
type Factory func(logic Logic) (Backend, error)
