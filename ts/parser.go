package ts

import "github.com/htsmc/htsmc/expr"

// ParseFlags carries front-end-specific ingestion options; TopModule is
// the only one the core itself ever reads (to pick an HTS's name when a
// source file declares several).
type ParseFlags struct {
	TopModule string
}

// Parser is the interface a source front-end (Verilog, BTOR2, an SMT-LIB2
// transition-system dialect, ...) implements to hand the core an HTS plus
// whatever invariant and LTL properties the source file carries alongside
// it. The core itself never parses or understands a source format; it
// only consumes what a registered Parser produces.
type Parser interface {
	Parse(m *expr.Manager, path string, flags ParseFlags) (*HTS, []*expr.Expr, []*expr.Expr, error)
}
