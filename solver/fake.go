package solver

import (
	"sync"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
)

// scriptedAnswer is one pre-programmed CheckSat outcome a FakeBackend will
// hand back, in FIFO order.
type scriptedAnswer struct {
	result Result
	model  map[symbol.Symbol]*expr.Expr
}

// FakeBackend is an in-memory, scriptable stand-in for a real SMT process.
// It records every declaration and assertion so a test can inspect exactly
// what a Solver sent it, and answers CheckSat from a queue the test fills
// with Script, falling back to Unknown once the queue runs dry. It never
// actually evaluates a formula — callers decide what "solving" means for
// the scenario under test.
type FakeBackend struct {
	mu sync.Mutex

	logic     Logic
	declared  []symbol.Symbol
	seen      map[symbol.Symbol]struct{}
	scopes    [][]*expr.Expr
	answers   []scriptedAnswer
	lastModel map[symbol.Symbol]*expr.Expr
	closed    bool
	checkSats int
}

// NewFake is a Factory producing a *FakeBackend; assign it directly where
// a Factory is expected.
func NewFake(logic Logic) (Backend, error) {
	return &FakeBackend{
		logic:  logic,
		seen:   make(map[symbol.Symbol]struct{}),
		scopes: [][]*expr.Expr{nil},
	}, nil
}

// Script enqueues the next CheckSat outcome. Calling it before any
// CheckSat call fills the queue in order; once the queue is empty,
// CheckSat reports Unknown.
func (b *FakeBackend) Script(result Result, model map[symbol.Symbol]*expr.Expr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answers = append(b.answers, scriptedAnswer{result: result, model: model})
}

// Declared returns the symbols declared so far, in declaration order.
func (b *FakeBackend) Declared() []symbol.Symbol {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]symbol.Symbol, len(b.declared))
	copy(out, b.declared)
	return out
}

// Assertions returns a snapshot of every currently-live assertion across
// all open scopes, outermost first.
func (b *FakeBackend) Assertions() []*expr.Expr {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*expr.Expr
	for _, scope := range b.scopes {
		out = append(out, scope...)
	}
	return out
}

// CheckSatCalls reports how many times CheckSat has been invoked.
func (b *FakeBackend) CheckSatCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checkSats
}

func (b *FakeBackend) Declare(sym symbol.Symbol) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen[sym] = struct{}{}
	b.declared = append(b.declared, sym)
	return nil
}

func (b *FakeBackend) Assert(e *expr.Expr) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	top := len(b.scopes) - 1
	b.scopes[top] = append(b.scopes[top], e)
	return nil
}

func (b *FakeBackend) Push() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scopes = append(b.scopes, nil)
	return nil
}

func (b *FakeBackend) Pop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.scopes) <= 1 {
		return ErrUnbalancedPop
	}
	b.scopes = b.scopes[:len(b.scopes)-1]
	return nil
}

func (b *FakeBackend) CheckSat() (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkSats++
	if len(b.answers) == 0 {
		return Unknown, nil
	}
	next := b.answers[0]
	b.answers = b.answers[1:]
	b.lastModel = next.model
	return next.result, nil
}

func (b *FakeBackend) Model(vars []symbol.Symbol) (map[symbol.Symbol]*expr.Expr, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastModel == nil {
		return nil, ErrNoModel
	}
	if vars == nil {
		out := make(map[symbol.Symbol]*expr.Expr, len(b.lastModel))
		for k, v := range b.lastModel {
			out[k] = v
		}
		return out, nil
	}
	out := make(map[symbol.Symbol]*expr.Expr, len(vars))
	for _, v := range vars {
		if val, ok := b.lastModel[v]; ok {
			out[v] = val
		}
	}
	return out, nil
}

func (b *FakeBackend) Reset(full bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scopes = [][]*expr.Expr{nil}
	b.lastModel = nil
	if full {
		b.seen = make(map[symbol.Symbol]struct{})
		b.declared = nil
		b.answers = nil
	}
	return nil
}

func (b *FakeBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
