package problem

import "github.com/pkg/errors"

// ErrUnknownKind reports a verification kind string outside {safety,
// liveness, eventually, ltl, equivalence, simulation}.
var ErrUnknownKind = errors.New("problem: unknown verification kind")

// Kind selects which checker a Problem is dispatched to.
type Kind uint8

const (
	Safety Kind = iota
	Liveness
	Eventually
	Equivalence
	Simulation
	LTL
)

// ParseKind maps the configuration-file spelling of a verification kind
// onto Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "safety":
		return Safety, nil
	case "liveness":
		return Liveness, nil
	case "eventually":
		return Eventually, nil
	case "ltl":
		return LTL, nil
	case "equivalence":
		return Equivalence, nil
	case "simulation":
		return Simulation, nil
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", s)
}

func (k Kind) String() string {
	switch k {
	case Safety:
		return "safety"
	case Liveness:
		return "liveness"
	case Eventually:
		return "eventually"
	case LTL:
		return "ltl"
	case Equivalence:
		return "equivalence"
	case Simulation:
		return "simulation"
	}
	return "unknown"
}
