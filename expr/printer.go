package expr

import (
	"fmt"
	"strings"

	"github.com/htsmc/htsmc/sortkind"
)

// SortString renders a sort using SMT-LIB2 declaration syntax, e.g.
// "Bool", "(_ BitVec 8)", "(Array (_ BitVec 8) (_ BitVec 32))".
func SortString(s sortkind.Sort) string {
	switch {
	case s.IsBool():
		return "Bool"
	case s.IsBitVec():
		return fmt.Sprintf("(_ BitVec %d)", s.Width)
	case s.IsArray():
		return fmt.Sprintf("(Array (_ BitVec %d) (_ BitVec %d))", s.Index, s.Elem)
	default:
		return "Bool"
	}
}

// SortToSMTLIB2 renders e's sort using SMT-LIB2 declaration syntax.
func SortToSMTLIB2(e *Expr) string {
	return SortString(e.sort)
}

// ToSMTLIB2 renders e as an SMT-LIB2 term. Symbols are rendered via their
// suffix-encoded String() so the output stays readable without a separate
// name-mangling pass.
func ToSMTLIB2(e *Expr) string {
	var b strings.Builder
	writeSMTLIB2(&b, e)
	return b.String()
}

func writeSMTLIB2(b *strings.Builder, e *Expr) {
	switch e.op {
	case OpSymbol:
		b.WriteString(e.sym.String())
	case OpBoolConst:
		if e.boolVal {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case OpBVConst:
		fmt.Fprintf(b, "(_ bv%s %d)", e.bvVal.String(), e.sort.Width)
	case OpBVExtract:
		fmt.Fprintf(b, "((_ extract %d %d) ", e.hi, e.lo)
		writeSMTLIB2(b, e.children[0])
		b.WriteByte(')')
	default:
		b.WriteByte('(')
		b.WriteString(smtlib2Op(e.op))
		for _, c := range e.children {
			b.WriteByte(' ')
			writeSMTLIB2(b, c)
		}
		b.WriteByte(')')
	}
}

func smtlib2Op(op Op) string {
	switch op {
	case OpNot:
		return "not"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpXor:
		return "xor"
	case OpImplies:
		return "=>"
	case OpIff:
		return "="
	case OpEquals:
		return "="
	case OpIte:
		return "ite"
	case OpBVAdd:
		return "bvadd"
	case OpBVSub:
		return "bvsub"
	case OpBVAnd:
		return "bvand"
	case OpBVOr:
		return "bvor"
	case OpBVXor:
		return "bvxor"
	case OpBVNot:
		return "bvnot"
	case OpBVShl:
		return "bvshl"
	case OpBVUlt:
		return "bvult"
	case OpBVUle:
		return "bvule"
	case OpBVUgt:
		return "bvugt"
	case OpBVUge:
		return "bvuge"
	case OpBVConcat:
		return "concat"
	case OpArraySelect:
		return "select"
	case OpArrayStore:
		return "store"
	default:
		return op.String()
	}
}

// DebugString renders e in a terse prefix form for logs and panics — not
// meant to be fed back to a solver, only read by a developer.
func DebugString(e *Expr) string {
	switch e.op {
	case OpSymbol:
		return e.sym.String()
	case OpBoolConst:
		return fmt.Sprintf("%v", e.boolVal)
	case OpBVConst:
		return fmt.Sprintf("%s:%d", e.bvVal.String(), e.sort.Width)
	default:
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = DebugString(c)
		}
		return fmt.Sprintf("(%s %s)", e.op, strings.Join(parts, " "))
	}
}
