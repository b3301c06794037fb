// Package sortkind defines the three sorts of the quantifier-free bit-vector
// and array logic (QF_ABV) the rest of htsmc operates over: Bool, BitVec(n),
// and Array(BitVec(i)->BitVec(e)).
//
// Sort values are small, comparable structs so they can be used directly as
// map keys and compared with ==; there is no interning here (that happens one
// layer up, in expr.Manager, where sorts are attached to hash-consed nodes).
package sortkind

import "fmt"

// Kind discriminates the three sorts htsmc reasons about.
type Kind uint8

const (
	// Bool is the sort of propositional formulas.
	Bool Kind = iota
	// BitVecKind is the sort of fixed-width bit-vectors.
	BitVecKind
	// ArrayKind is the sort of arrays indexed and valued by bit-vectors.
	ArrayKind
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case BitVecKind:
		return "BitVec"
	case ArrayKind:
		return "Array"
	default:
		return "Unknown"
	}
}

// Sort is the sort of an expression: Bool, BitVec(Width), or an Array from
// BitVec(Index) to BitVec(Elem). Only the fields relevant to Kind are
// meaningful; e.g. Width is unused for Array and Index/Elem are unused for
// Bool and BitVec.
type Sort struct {
	Kind  Kind
	Width uint32 // BitVec width, in bits
	Index uint32 // Array index bit-vector width
	Elem  uint32 // Array element bit-vector width
}

// BoolSort is the canonical Bool sort.
var BoolSort = Sort{Kind: Bool}

// BitVec constructs the sort of a bit-vector of the given width.
// Width must be >= 1; BitVec panics on width 0 since a zero-width
// bit-vector is never a meaningful sort to construct.
func BitVec(width uint32) Sort {
	if width == 0 {
		panic("sortkind: BitVec width must be >= 1")
	}
	return Sort{Kind: BitVecKind, Width: width}
}

// Array constructs the sort of an array mapping BitVec(index) to
// BitVec(elem).
func Array(index, elem uint32) Sort {
	if index == 0 || elem == 0 {
		panic("sortkind: Array index/elem width must be >= 1")
	}
	return Sort{Kind: ArrayKind, Index: index, Elem: elem}
}

// IsBool reports whether s is the Bool sort.
func (s Sort) IsBool() bool { return s.Kind == Bool }

// IsBitVec reports whether s is a BitVec sort.
func (s Sort) IsBitVec() bool { return s.Kind == BitVecKind }

// IsArray reports whether s is an Array sort.
func (s Sort) IsArray() bool { return s.Kind == ArrayKind }

// String renders s the way the SMT-LIB2 printer needs it embedded in
// human-readable diagnostics; the actual SMT-LIB2 sort syntax lives in
// expr.SortString since it differs in punctuation ("(_ BitVec n)" vs "BitVec(n)").
func (s Sort) String() string {
	switch s.Kind {
	case Bool:
		return "Bool"
	case BitVecKind:
		return fmt.Sprintf("BitVec(%d)", s.Width)
	case ArrayKind:
		return fmt.Sprintf("Array(BV(%d)->BV(%d))", s.Index, s.Elem)
	default:
		return "?"
	}
}

// Equal reports whether two sorts are identical in kind and parameters.
func Equal(a, b Sort) bool {
	return a.Kind == b.Kind && a.Width == b.Width && a.Index == b.Index && a.Elem == b.Elem
}
