package problem

import (
	"strings"

	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/trace"
)

// TraceConfig selects how a FALSE verdict's witness is rendered.
type TraceConfig struct {
	Full      bool   `yaml:"full_trace"`
	VarsDiff  bool   `yaml:"trace_vars_change"`
	AllVars   bool   `yaml:"trace_all_vars"`
	Prefix    string `yaml:"trace_prefix"`
	VCD       bool   `yaml:"vcd"`
}

// Filter maps the trace configuration onto a trace.Filter, preferring
// the diff-only view when both it and all-vars are requested.
func (c TraceConfig) Filter() trace.Filter {
	switch {
	case c.VarsDiff:
		return trace.ChangedOnly
	case c.AllVars:
		return trace.AllVars
	default:
		return trace.InputsOutputs
	}
}

// Config is one problem description, a field-for-field analog of a
// configuration-file problem section.
type Config struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Verification    string   `yaml:"verification"`
	Formula         string   `yaml:"formula"`
	Strategy        string   `yaml:"strategy"`
	Prove           bool     `yaml:"prove"`
	Incremental     bool     `yaml:"incremental"`
	SymbolicInit    bool     `yaml:"symbolic_init"`
	BMCLength       int      `yaml:"bmc_length"`
	BMCLengthMin    int      `yaml:"bmc_length_min"`
	SolverName      string   `yaml:"solver_name"`
	SMT2File        string   `yaml:"smt2_tracing"`
	SkipSolving     bool     `yaml:"skip_solving"`
	Assumptions     []string `yaml:"assumptions"`
	Lemmas          []string `yaml:"lemmas"`
	Equivalence     string   `yaml:"equivalence"`
	ModelFile       string   `yaml:"model_file"`
	Expected        string   `yaml:"expected"`
	Time            bool     `yaml:"time"`
	Verbosity       int      `yaml:"verbosity"`
	Trace           TraceConfig `yaml:",inline"`

	// Status starts Unchecked. The driver does not write it; the resolved
	// status of a run is reported in Outcome.Status.
	Status Status `yaml:"-"`
}

// NewConfig returns a Config with the defaults a freshly-declared problem
// section carries before any field is set.
func NewConfig() Config {
	return Config{
		BMCLength: 10,
		Status:    Unchecked,
	}
}

// strategy resolves the configured strategy name to a bmc.Strategy,
// defaulting to Auto when unset.
func (c Config) strategy() bmc.Strategy {
	if c.Strategy == "" {
		return bmc.Auto
	}
	return bmc.Strategy(strings.ToUpper(c.Strategy))
}

// kind resolves the configured verification string to a Kind.
func (c Config) kind() (Kind, error) {
	return ParseKind(strings.ToLower(c.Verification))
}

// expectedStatus resolves the configured expected-result string, if any.
func (c Config) expectedStatus() (Status, bool) {
	switch strings.ToUpper(c.Expected) {
	case "TRUE":
		return True, true
	case "FALSE":
		return False, true
	case "UNK", "UNKNOWN":
		return Unknown, true
	}
	return Unchecked, false
}
