package solver

// Stats is a point-in-time snapshot of a Solver's bookkeeping counters. It
// exists so a driver can report how much work a verification run actually
// pushed onto the backend — useful for comparing strategies and for
// regression-testing that an incremental run re-asserts less than a
// from-scratch one.
type Stats struct {
	Assertions     int
	Pushes         int
	Pops           int
	CheckSats      int
	SatResults     int
	UnsatResults   int
	UnknownResults int
	Declarations   int
}

func (s *Stats) recordAssert()  { s.Assertions++ }
func (s *Stats) recordPush()    { s.Pushes++ }
func (s *Stats) recordPop()     { s.Pops++ }
func (s *Stats) recordDeclare() { s.Declarations++ }

func (s *Stats) recordResult(r Result) {
	s.CheckSats++
	switch r {
	case Sat:
		s.SatResults++
	case Unsat:
		s.UnsatResults++
	default:
		s.UnknownResults++
	}
}
