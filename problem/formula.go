package problem

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/htsmc/htsmc/expr"
	"github.com/htsmc/htsmc/symbol"
	"github.com/htsmc/htsmc/ts"
)

// ErrFormulaSyntax reports any lexical or grammatical failure while parsing
// a property-language string.
var ErrFormulaSyntax = errors.New("problem: formula syntax error")

// Symtab resolves a bare identifier used in a property string to the
// declared variable it refers to. Callers typically build one from an
// HTS's AllVars().
type Symtab map[string]symbol.Symbol

// NewSymtab indexes every variable in vars by name.
func NewSymtab(vars ts.VarSet) Symtab {
	tab := make(Symtab, len(vars))
	for v := range vars {
		tab[v.Name] = v
	}
	return tab
}

// ParseFormula compiles one property-language string into a formula.
// Grammar: standard propositional/bit-vector infix and prefix syntax,
// plus the unary forms next(x)/prev(x) and the sugars posedge(x),
// negedge(x), change(x), nochange(x), memacc(arr, i), maxbvval(x).
func ParseFormula(m *expr.Manager, tab Symtab, s string) (*expr.Expr, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &parser{m: m, tab: tab, toks: toks}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, errors.Wrapf(ErrFormulaSyntax, "trailing input at %q", p.cur().text)
	}
	return e, nil
}

// ParseFormulae compiles a batch of property strings, skipping blank
// lines and lines starting with "#".
func ParseFormulae(m *expr.Manager, tab Symtab, strs []string) ([]*expr.Expr, error) {
	out := make([]*expr.Expr, 0, len(strs))
	for _, s := range strs {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		e, err := ParseFormula(m, tab, trimmed)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

type tokKind uint8

const (
	tokIdent tokKind = iota
	tokNumber
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	text string
}

func lex(s string) ([]token, error) {
	var toks []token
	r := []rune(s)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case unicode.IsDigit(c):
			j := i
			for j < len(r) && (unicode.IsDigit(r[j]) || r[j] == '\'' || unicode.IsLetter(r[j])) {
				j++
			}
			toks = append(toks, token{tokNumber, string(r[i:j])})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(r) && (unicode.IsLetter(r[j]) || unicode.IsDigit(r[j]) || r[j] == '_' || r[j] == '.' || r[j] == '[' || r[j] == ']') {
				j++
			}
			toks = append(toks, token{tokIdent, string(r[i:j])})
			i = j
		default:
			op, n, err := lexOp(r[i:])
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokOp, op})
			i += n
		}
	}
	return toks, nil
}

var multiCharOps = []string{"!=", "==", "<=", ">=", "&&", "||", "=>", "<->"}

func lexOp(r []rune) (string, int, error) {
	for _, op := range multiCharOps {
		n := len([]rune(op))
		if len(r) >= n && string(r[:n]) == op {
			return op, n, nil
		}
	}
	switch r[0] {
	case '=', '<', '>', '+', '-', '*', '!', '&', '|':
		return string(r[0]), 1, nil
	}
	return "", 0, errors.Wrapf(ErrFormulaSyntax, "unexpected character %q", string(r[0]))
}

type parser struct {
	m    *expr.Manager
	tab  Symtab
	toks []token
	pos  int
}

func (p *parser) cur() token {
	if p.pos >= len(p.toks) {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.cur()
	p.pos++
	return t
}

func (p *parser) expect(kind tokKind, text string) error {
	t := p.cur()
	if t.kind != kind || (text != "" && t.text != text) {
		return errors.Wrapf(ErrFormulaSyntax, "expected %q, got %q", text, t.text)
	}
	p.advance()
	return nil
}

// precedence table, lowest to highest binding.
var binPrec = map[string]int{
	"<->": 1, "=>": 1,
	"||": 2,
	"&&": 3,
	"=": 4, "==": 4, "!=": 4,
	"<": 5, "<=": 5, ">": 5, ">=": 5,
	"+": 6, "-": 6,
	"*": 7,
}

func (p *parser) parseExpr(minPrec int) (*expr.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		if t.kind != tokOp {
			break
		}
		prec, ok := binPrec[t.text]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs, err = p.applyBinary(t.text, lhs, rhs)
		if err != nil {
			return nil, err
		}
	}
	return lhs, nil
}

func (p *parser) applyBinary(op string, a, b *expr.Expr) (*expr.Expr, error) {
	switch op {
	case "&&":
		return p.m.And(a, b)
	case "||":
		return p.m.Or(a, b)
	case "=>":
		return p.m.Implies(a, b)
	case "<->":
		return p.m.Iff(a, b)
	case "=", "==":
		return p.m.Equals(a, b)
	case "!=":
		return p.m.Neq(a, b)
	case "<":
		return p.m.BVUlt(a, b)
	case "<=":
		return p.m.BVUle(a, b)
	case ">":
		return p.m.BVUgt(a, b)
	case ">=":
		return p.m.BVUge(a, b)
	case "+":
		return p.m.BVAdd(a, b)
	case "-":
		return p.m.BVSub(a, b)
	case "*":
		return nil, errors.Wrap(ErrFormulaSyntax, "bit-vector multiplication is not supported")
	}
	return nil, errors.Wrapf(ErrFormulaSyntax, "unknown operator %q", op)
}

func (p *parser) parseUnary() (*expr.Expr, error) {
	t := p.cur()
	if t.kind == tokOp && (t.text == "!" || t.text == "-") {
		p.advance()
		sub, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "!" {
			return p.m.Not(sub)
		}
		zero := p.m.BVUint(0, widthOf(sub))
		return p.m.BVSub(zero, sub)
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (*expr.Expr, error) {
	t := p.cur()
	switch {
	case t.kind == tokLParen:
		p.advance()
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case t.kind == tokNumber:
		p.advance()
		return parseNumber(p.m, t.text)
	case t.kind == tokIdent:
		p.advance()
		return p.parseIdentOrCall(t.text)
	}
	return nil, errors.Wrapf(ErrFormulaSyntax, "unexpected token %q", t.text)
}

func (p *parser) parseIdentOrCall(name string) (*expr.Expr, error) {
	switch name {
	case "true":
		return p.m.True(), nil
	case "false":
		return p.m.False(), nil
	case "memacc":
		if p.cur().kind == tokLParen {
			return p.parseMemAccCall()
		}
	case "next", "prev", "posedge", "negedge", "change", "nochange", "maxbvval":
		if p.cur().kind == tokLParen {
			return p.parseCall(name)
		}
	}
	sym, ok := p.tab[name]
	if !ok {
		return nil, errors.Wrapf(ErrFormulaSyntax, "undeclared variable %q", name)
	}
	return p.m.Sym(sym), nil
}

func (p *parser) parseCall(name string) (*expr.Expr, error) {
	if err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	var args []*expr.Expr
	for {
		if p.cur().kind == tokRParen {
			break
		}
		a, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	return p.applySugar(name, args)
}

func (p *parser) applySugar(name string, args []*expr.Expr) (*expr.Expr, error) {
	if len(args) != 1 {
		return nil, errors.Wrapf(ErrFormulaSyntax, "%s takes exactly one argument", name)
	}
	switch name {
	case "next":
		return ts.ToNext(p.m, args[0]), nil
	case "prev":
		return ts.ToPrev(p.m, args[0]), nil
	case "posedge":
		return posedge(p.m, args[0])
	case "negedge":
		return negedge(p.m, args[0])
	case "change":
		return p.m.Neq(args[0], ts.ToNext(p.m, args[0]))
	case "nochange":
		return p.m.Equals(args[0], ts.ToNext(p.m, args[0]))
	case "maxbvval":
		w := widthOf(args[0])
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(w)), big.NewInt(1))
		return p.m.BV(max, w), nil
	}
	return nil, errors.Wrapf(ErrFormulaSyntax, "unknown sugar %q", name)
}

// parseMemAccCall parses memacc(name, idx). name is taken as a bare
// memory identifier rather than a parsed expression, since a scalarized
// memory has no single symbol of its own to parse an expression out of —
// it resolves through resolveMemory instead, against name_0..name_{n-1}.
func (p *parser) parseMemAccCall() (*expr.Expr, error) {
	if err := p.expect(tokLParen, "("); err != nil {
		return nil, err
	}
	memTok := p.cur()
	if memTok.kind != tokIdent {
		return nil, errors.Wrapf(ErrFormulaSyntax, "memacc expects a memory name, got %q", memTok.text)
	}
	p.advance()
	if err := p.expect(tokComma, ","); err != nil {
		return nil, err
	}
	idx, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}
	mem, err := p.resolveMemory(memTok.text)
	if err != nil {
		return nil, err
	}
	return expr.MemAccess(p.m, mem, idx)
}

// resolveMemory resolves name to an expr.Memory: an Array-sorted symbol
// declared under that exact name, or, failing that, the scalarized
// vector name_0, name_1, ... for as many consecutive indices as the
// symtab declares.
func (p *parser) resolveMemory(name string) (expr.Memory, error) {
	if sym, ok := p.tab[name]; ok && sym.Sort.IsArray() {
		return expr.Memory{Array: p.m.Sym(sym)}, nil
	}
	var scalars []*expr.Expr
	for i := 0; ; i++ {
		sym, ok := p.tab[fmt.Sprintf("%s_%d", name, i)]
		if !ok {
			break
		}
		scalars = append(scalars, p.m.Sym(sym))
	}
	if len(scalars) == 0 {
		return expr.Memory{}, errors.Wrapf(ErrFormulaSyntax, "unknown memory %q", name)
	}
	return expr.Memory{Scalars: scalars}, nil
}

// posedge(x) = x=0 ∧ next(x)=1 for bit-vectors, ¬x ∧ next(x) for booleans.
func posedge(m *expr.Manager, x *expr.Expr) (*expr.Expr, error) {
	nx := ts.ToNext(m, x)
	if x.Sort().IsBool() {
		notX, err := m.Not(x)
		if err != nil {
			return nil, err
		}
		return m.And(notX, nx)
	}
	w := widthOf(x)
	low, err := m.Equals(x, m.BVUint(0, w))
	if err != nil {
		return nil, err
	}
	high, err := m.Equals(nx, m.BVUint(1, w))
	if err != nil {
		return nil, err
	}
	return m.And(low, high)
}

// negedge(x) is posedge's symmetric counterpart.
func negedge(m *expr.Manager, x *expr.Expr) (*expr.Expr, error) {
	nx := ts.ToNext(m, x)
	if x.Sort().IsBool() {
		notNx, err := m.Not(nx)
		if err != nil {
			return nil, err
		}
		return m.And(x, notNx)
	}
	w := widthOf(x)
	high, err := m.Equals(x, m.BVUint(1, w))
	if err != nil {
		return nil, err
	}
	low, err := m.Equals(nx, m.BVUint(0, w))
	if err != nil {
		return nil, err
	}
	return m.And(high, low)
}

func widthOf(e *expr.Expr) uint32 {
	if e.Sort().IsBitVec() {
		return e.Sort().Width
	}
	return 1
}

func parseNumber(m *expr.Manager, text string) (*expr.Expr, error) {
	// width'decimal, e.g. 4'3, defaults to a 32-bit literal if no width given.
	if idx := strings.IndexByte(text, '\''); idx >= 0 {
		w, err := strconv.ParseUint(text[:idx], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrFormulaSyntax, "bad bit-vector width in %q", text)
		}
		val, ok := new(big.Int).SetString(text[idx+1:], 10)
		if !ok {
			return nil, errors.Wrapf(ErrFormulaSyntax, "bad bit-vector literal %q", text)
		}
		return m.BV(val, uint32(w)), nil
	}
	val, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, errors.Wrapf(ErrFormulaSyntax, "bad numeric literal %q", text)
	}
	return m.BV(val, 32), nil
}
