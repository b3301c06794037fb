package problem

import (
	"go.uber.org/zap"

	"github.com/pkg/errors"

	"github.com/htsmc/htsmc/bmc"
	"github.com/htsmc/htsmc/check"
	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/lemma"
	"github.com/htsmc/htsmc/solver"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/trace"
	"github.com/htsmc/htsmc/ts"
)

// ErrExpectedMismatch reports that a problem's resolved Status disagrees
// with its configured Expected value. It is informational — the driver
// keeps processing the remaining problems — but the caller uses it to set
// a non-zero exit status.
var ErrExpectedMismatch = errors.New("problem: resolved status does not match expected")

// Driver runs one Config against one HTS, parsing its property, dispatching
// to the matching checker, and reconstructing a trace on a FALSE verdict.
type Driver struct {
	m       *expr.Manager
	factory solver.Factory
	log     *zap.SugaredLogger
}

// NewDriver constructs a Driver. factory builds the Solver backend every
// problem run gets; log may be nil, in which case a no-op logger is used.
func NewDriver(m *expr.Manager, factory solver.Factory, log *zap.SugaredLogger) *Driver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Driver{m: m, factory: factory, log: log}
}

// Outcome is the resolved result of running one Config.
type Outcome struct {
	Config Config
	Status Status
	Trace  *trace.Trace
	Stats  solver.Stats
}

// Run resolves cfg against h: parses the property and any lemmas/
// assumptions with tab, builds a fresh Solver and bmc.Engine, dispatches
// to the checker matching cfg's verification kind, and on a FALSE safety
// verdict reconstructs a Trace using cfg's trace options.
func (d *Driver) Run(h *ts.HTS, tab Symtab, cfg Config) (*Outcome, error) {
	d.log.Infof("problem %q: starting", cfg.Name)

	kind, err := cfg.kind()
	if err != nil {
		return nil, err
	}
	prop, err := ParseFormula(d.m, tab, cfg.Formula)
	if err != nil {
		return nil, err
	}

	flat, err := ts.Flatten(d.m, h)
	if err != nil {
		return nil, err
	}
	if err := flat.RemoveInvars(d.m); err != nil {
		return nil, err
	}

	if err := d.foldInAssumptionsAndLemmas(flat, prop, cfg, tab); err != nil {
		return nil, err
	}

	opts := []solver.Option{solver.WithLogger(d.log)}
	if cfg.SkipSolving {
		opts = append(opts, solver.WithSkipSolving())
	}
	if cfg.SMT2File != "" {
		opts = append(opts, solver.WithTeeFile(cfg.SMT2File))
	}
	s, err := solver.New(d.factory, solver.Logic(flat.Logic.String()), opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	bmcCfg := bmc.Config{
		Strategy:     cfg.strategy(),
		Prove:        cfg.Prove,
		Incremental:  cfg.Incremental,
		KMin:         cfg.BMCLengthMin,
		KMax:         cfg.BMCLength,
		SymbolicInit: cfg.SymbolicInit,
		Logic:        solver.Logic(flat.Logic.String()),
		Factory:      d.factory,
	}

	result, err := d.dispatch(flat, s, prop, kind, bmcCfg)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Config: cfg, Status: result.status, Stats: s.Stats()}
	if result.status == False && result.model != nil {
		outcome.Trace = trace.Build(flat, result.model, result.k, cfg.Trace.Filter())
	}

	d.log.Infof("problem %q: resolved %s", cfg.Name, outcome.Status)

	if expected, ok := cfg.expectedStatus(); ok && expected != outcome.Status {
		return outcome, errors.Wrapf(ErrExpectedMismatch, "%q: expected %s, got %s", cfg.Name, expected, outcome.Status)
	}
	return outcome, nil
}

func (d *Driver) foldInAssumptionsAndLemmas(h *ts.HTS, prop *expr.Expr, cfg Config, tab Symtab) error {
	assumptions, err := ParseFormulae(d.m, tab, cfg.Assumptions)
	if err != nil {
		return err
	}
	for _, a := range assumptions {
		h.AddAssumption(a)
	}

	if len(cfg.Lemmas) == 0 {
		return nil
	}
	lemmaForms, err := ParseFormulae(d.m, tab, cfg.Lemmas)
	if err != nil {
		return err
	}
	candidates := make([]lemma.Lemma, len(lemmaForms))
	for i, f := range lemmaForms {
		candidates[i] = lemma.Lemma{Name: cfg.Lemmas[i], Formula: f}
	}

	s, err := solver.New(d.factory, solver.Logic(h.Logic.String()), solver.WithLogger(d.log))
	if err != nil {
		return err
	}
	defer s.Close()

	harness := lemma.NewHarness(d.m, s, h, d.log)
	lemRes, err := harness.AddLemmas(prop, candidates)
	if err != nil {
		return err
	}
	for _, o := range lemRes.Outcomes {
		if !o.Proved {
			d.log.Warnf("problem %q: lemma %q failed and was discarded from assumptions", cfg.Name, o.Lemma.Name)
		}
	}
	return nil
}

type dispatchResult struct {
	status Status
	k      int
	model  map[symbol.Symbol]*expr.Expr
}

func (d *Driver) dispatch(h *ts.HTS, s *solver.Solver, prop *expr.Expr, kind Kind, cfg bmc.Config) (*dispatchResult, error) {
	switch kind {
	case Safety:
		e, err := bmc.NewEngine(d.m, h, s, cfg, d.log)
		if err != nil {
			return nil, err
		}
		r, err := check.Safety(e, prop)
		if err != nil {
			return nil, err
		}
		return fromCheckResult(r), nil
	case Eventually:
		e, err := bmc.NewEngine(d.m, h, s, cfg, d.log)
		if err != nil {
			return nil, err
		}
		r, err := check.EventuallyNever(d.m, e, prop)
		if err != nil {
			return nil, err
		}
		return fromCheckResult(r), nil
	case Liveness:
		e, err := bmc.NewEngine(d.m, h, s, cfg, d.log)
		if err != nil {
			return nil, err
		}
		r, err := check.Liveness(e, prop)
		if err != nil {
			return nil, err
		}
		return fromCheckResult(r), nil
	case Simulation:
		e, err := bmc.NewEngine(d.m, h, s, cfg, d.log)
		if err != nil {
			return nil, err
		}
		r, err := check.Simulation(e, prop)
		if err != nil {
			return nil, err
		}
		return fromCheckResult(r), nil
	case LTL:
		f := check.Atom(prop)
		r, err := check.LTL(d.m, s, h, f, cfg)
		if err != nil {
			return nil, err
		}
		return fromCheckResult(&check.Result{Verdict: r.Verdict(), K: r.Top.K, Model: r.Top.Model, Strategy: r.Top.Strategy}), nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%s not dispatchable directly (use RunEquivalence)", kind)
}

func fromCheckResult(r *check.Result) *dispatchResult {
	return &dispatchResult{status: statusFromVerdict(r.Verdict), k: r.K, model: r.Model}
}

// RunEquivalence resolves an equivalence problem between two HTSs built
// with shared input symbols and disjoint state/output namespaces.
func (d *Driver) RunEquivalence(a, b *ts.HTS, outputsA, outputsB []symbol.Symbol, cfg Config) (*Outcome, error) {
	bmcCfg := bmc.Config{
		Strategy:     cfg.strategy(),
		Prove:        cfg.Prove,
		Incremental:  cfg.Incremental,
		KMin:         cfg.BMCLengthMin,
		KMax:         cfg.BMCLength,
		SymbolicInit: cfg.SymbolicInit,
		Logic:        solver.QF_ABV,
		Factory:      d.factory,
	}
	opts := []solver.Option{solver.WithLogger(d.log)}
	if cfg.SkipSolving {
		opts = append(opts, solver.WithSkipSolving())
	}
	if cfg.SMT2File != "" {
		opts = append(opts, solver.WithTeeFile(cfg.SMT2File))
	}
	s, err := solver.New(d.factory, bmcCfg.Logic, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	r, err := check.Equivalence(d.m, s, a, b, outputsA, outputsB, bmcCfg)
	if err != nil {
		return nil, err
	}
	status := statusFromVerdict(r.Verdict)
	return &Outcome{Config: cfg, Status: status, Stats: s.Stats()}, nil
}
