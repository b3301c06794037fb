package problem

import "github.com/htsmc/htsmc/check"

// Status is the terminal outcome of one problem.
type Status string

const (
	Unchecked Status = "UNCHECKED"
	Unknown   Status = "UNKNOWN"
	True      Status = "TRUE"
	False     Status = "FALSE"
)

// statusFromVerdict maps a checker's three-valued Verdict onto Status.
func statusFromVerdict(v check.Verdict) Status {
	switch v {
	case check.True:
		return True
	case check.False:
		return False
	default:
		return Unknown
	}
}
