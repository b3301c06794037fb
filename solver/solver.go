package solver

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
)

// Option configures a Solver at construction time. Options that receive a
// malformed argument panic immediately, since a bad option is a
// programming error, not a runtime condition callers should have to
// handle.
type Option func(*Solver)

// WithTee mirrors every declaration and assertion to w as SMT-LIB2 text,
// in addition to forwarding it to the backend. Useful for producing a
// standalone benchmark file alongside a live solving run.
func WithTee(w io.Writer) Option {
	if w == nil {
		panic("solver: WithTee called with a nil writer")
	}
	return func(s *Solver) { s.tee = w }
}

// WithTeeFile is WithTee backed by a freshly created file at path.
func WithTeeFile(path string) Option {
	if path == "" {
		panic("solver: WithTeeFile called with an empty path")
	}
	f, err := os.Create(path)
	if err != nil {
		panic(fmt.Sprintf("solver: WithTeeFile: %v", err))
	}
	return func(s *Solver) {
		s.tee = f
		s.teeFile = f
	}
}

// WithSkipSolving puts the Solver in dry-run mode: declarations and
// assertions are still teed (if WithTee/WithTeeFile is set) and counted in
// Stats, but CheckSat always returns Unknown without touching the backend.
// This is how a benchmark-only run avoids paying for a solver process.
func WithSkipSolving() Option {
	return func(s *Solver) { s.skipSolving = true }
}

// WithLogger attaches a logger used to report scope changes and solver
// outcomes at debug level.
func WithLogger(log *zap.SugaredLogger) Option {
	if log == nil {
		panic("solver: WithLogger called with a nil logger")
	}
	return func(s *Solver) { s.log = log }
}

// Solver is the façade every verification driver talks to: it owns one
// Backend instance, tracks which symbols have already been declared in
// the current and enclosing scopes so repeated Assert calls against the
// same variables never re-declare them, and keeps running Stats.
type Solver struct {
	mu      sync.Mutex
	factory Factory
	logic   Logic
	backend Backend

	tee     io.Writer
	teeFile *os.File

	skipSolving bool
	closed      bool
	haveModel   bool

	declared    map[symbol.Symbol]struct{}
	scopeDecls  []map[symbol.Symbol]struct{}
	stats       Stats
	log         *zap.SugaredLogger
}

// New constructs a Solver bound to a freshly-built backend for logic.
func New(factory Factory, logic Logic, opts ...Option) (*Solver, error) {
	backend, err := factory(logic)
	if err != nil {
		return nil, errors.Wrap(err, "solver.New: factory")
	}
	s := &Solver{
		factory:    factory,
		logic:      logic,
		backend:    backend,
		declared:   make(map[symbol.Symbol]struct{}),
		scopeDecls: []map[symbol.Symbol]struct{}{make(map[symbol.Symbol]struct{})},
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Backend returns the solver's current backend instance, mainly so tests
// can reach into a *FakeBackend for assertions the façade itself doesn't
// expose.
func (s *Solver) Backend() Backend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend
}

// Stats returns a snapshot of the solver's bookkeeping counters.
func (s *Solver) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Declare introduces sym if it has not already been declared in this or an
// enclosing scope.
func (s *Solver) Declare(sym symbol.Symbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.declared[sym]; ok {
		return nil
	}
	if err := s.backend.Declare(sym); err != nil {
		return errors.Wrapf(err, "declare %s", sym.String())
	}
	s.declared[sym] = struct{}{}
	s.scopeDecls[len(s.scopeDecls)-1][sym] = struct{}{}
	s.stats.recordDeclare()
	if s.tee != nil {
		fmt.Fprintf(s.tee, "(declare-fun %s () %s)\n", sym.String(), expr.SortString(sym.Sort))
	}
	return nil
}

// Assert declares every free variable of e not yet known to the solver,
// then asserts e in the current scope. e's top-level conjuncts are split
// and asserted one at a time (expr.ConjunctivePartition) so the SMT-LIB2
// tee and solver log read as one assertion per conjunct rather than one
// large one.
func (s *Solver) Assert(e *expr.Expr) error {
	for v := range expr.FreeVars(e) {
		if err := s.Declare(v); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.haveModel = false
	for _, conjunct := range expr.ConjunctivePartition(e) {
		if err := s.backend.Assert(conjunct); err != nil {
			return errors.Wrap(err, "assert")
		}
		s.stats.recordAssert()
		if s.tee != nil {
			fmt.Fprintf(s.tee, "(assert %s)\n", expr.ToSMTLIB2(conjunct))
		}
		s.log.Debugw("assert", "formula", expr.DebugString(conjunct))
	}
	return nil
}

// Push opens a new scope; variables declared after this call are forgotten
// on the matching Pop.
func (s *Solver) Push() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.backend.Push(); err != nil {
		return errors.Wrap(err, "push")
	}
	s.haveModel = false
	s.scopeDecls = append(s.scopeDecls, make(map[symbol.Symbol]struct{}))
	s.stats.recordPush()
	if s.tee != nil {
		fmt.Fprintln(s.tee, "(push 1)")
	}
	return nil
}

// Pop closes the most recently opened scope, un-forgetting the symbols it
// declared so a later Assert against the same symbol re-declares it.
func (s *Solver) Pop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if len(s.scopeDecls) <= 1 {
		return ErrUnbalancedPop
	}
	if err := s.backend.Pop(); err != nil {
		return errors.Wrap(err, "pop")
	}
	top := s.scopeDecls[len(s.scopeDecls)-1]
	s.scopeDecls = s.scopeDecls[:len(s.scopeDecls)-1]
	for v := range top {
		delete(s.declared, v)
	}
	s.haveModel = false
	s.stats.recordPop()
	if s.tee != nil {
		fmt.Fprintln(s.tee, "(pop 1)")
	}
	return nil
}

// CheckSat decides satisfiability of everything currently asserted. In
// skip-solving mode it always reports Unknown without invoking the
// backend, matching a dry run whose only purpose is to emit an SMT-LIB2
// benchmark.
func (s *Solver) CheckSat() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Unknown, ErrClosed
	}
	if s.tee != nil {
		fmt.Fprintln(s.tee, "(check-sat)")
	}
	if s.skipSolving {
		s.stats.recordResult(Unknown)
		return Unknown, nil
	}
	r, err := s.backend.CheckSat()
	if err != nil {
		return Unknown, errors.Wrap(err, "check-sat")
	}
	s.haveModel = r == Sat
	s.stats.recordResult(r)
	s.log.Debugw("check-sat", "result", r.String())
	return r, nil
}

// Model returns a satisfying assignment for vars (every declared symbol if
// vars is nil); it is only valid immediately after a Sat CheckSat, before
// any further Assert, Push or Pop.
func (s *Solver) Model(vars []symbol.Symbol) (map[symbol.Symbol]*expr.Expr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.skipSolving || !s.haveModel {
		return nil, ErrNoModel
	}
	m, err := s.backend.Model(vars)
	if err != nil {
		return nil, errors.Wrap(err, "model")
	}
	return m, nil
}

// Reset tears down all assertions. When full is true it also replaces the
// underlying backend with a freshly constructed one (used after a
// wall-clock timeout, where the old process may be wedged).
func (s *Solver) Reset(full bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.backend.Reset(full); err != nil {
		return errors.Wrap(err, "reset")
	}
	if full {
		backend, err := s.factory(s.logic)
		if err != nil {
			return errors.Wrap(err, "reset: rebuild backend")
		}
		s.backend = backend
	}
	s.declared = make(map[symbol.Symbol]struct{})
	s.scopeDecls = []map[symbol.Symbol]struct{}{make(map[symbol.Symbol]struct{})}
	s.haveModel = false
	return nil
}

// Close releases the backend and the tee file, if any. Safe to call more
// than once.
func (s *Solver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.backend.Close()
	if s.teeFile != nil {
		if cerr := s.teeFile.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return errors.Wrap(err, "close")
	}
	return nil
}
