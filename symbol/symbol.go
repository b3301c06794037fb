// Package symbol gives every state variable a "current" view plus derived
// "prime" (next-state), "prev" (previous-state), "timed @k" (forward
// unrolling) and "ptimed @k" (backward unrolling) views.
//
// Symbol is a tagged (name, sort, view, step) value rather than a
// suffix-mangled string: renaming, comparing and re-viewing a variable
// never needs string surgery. String() still renders the reserved-suffix
// form ("_N", "_P", "_AT<k>", "_ATP<k>") because that is the name a
// solver or a trace file actually sees.
package symbol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/htsmc/htsmc/sortkind"
)

// View is the temporal view a Symbol is rendered under.
type View uint8

const (
	// Current is the untimed, unprimed view — the symbol as declared.
	Current View = iota
	// Prime is the next-state view (').
	Prime
	// Prev is the previous-state view.
	Prev
	// Timed is the forward-unrolled view at a concrete step k (@k).
	Timed
	// Ptimed is the backward-unrolled view at a concrete step k (@k).
	Ptimed
)

const (
	suffixNext   = "_N"
	suffixPrev   = "_P"
	suffixAt     = "_AT"
	suffixAtPrev = "_ATP"
)

// Symbol is a named, sorted variable together with the temporal view it is
// currently rendered under. Two Symbols with the same Name, Sort, View and
// Step denote the same variable; Symbol is a plain value type (comparable),
// hash-consing of the Expr built around it is the Manager's job.
type Symbol struct {
	Name string
	Sort sortkind.Sort
	View View
	Step int // meaningful only for Timed / Ptimed
}

// New constructs a current-view symbol. This is the only constructor front
// ends and the HTS builder should use to introduce a fresh state/input/
// output variable; every other view is derived from it via the Prime and
// PrevOf methods or the AtTime/AtPtime functions below.
func New(name string, sort sortkind.Sort) Symbol {
	return Symbol{Name: name, Sort: sort, View: Current}
}

// IsPrime reports whether s is a next-state view.
func (s Symbol) IsPrime() bool { return s.View == Prime }

// IsPrev reports whether s is a previous-state view.
func (s Symbol) IsPrev() bool { return s.View == Prev }

// IsTimed reports whether s carries a concrete forward or backward step.
func (s Symbol) IsTimed() bool { return s.View == Timed || s.View == Ptimed }

// RefVar strips any view suffix, returning the underlying current-view
// symbol.
func (s Symbol) RefVar() Symbol {
	s.View = Current
	s.Step = 0
	return s
}

// Prime returns the next-state view of s. Priming an already-primed or
// timed symbol is a programmer error and panics, the same way sortkind's
// constructors panic on malformed input rather than silently producing a
// nonsensical double-primed name.
func (s Symbol) Prime() Symbol {
	if s.View != Current {
		panic(fmt.Sprintf("symbol: cannot prime %s (view=%v)", s, s.View))
	}
	s.View = Prime
	return s
}

// PrevOf returns the previous-state view of s.
func (s Symbol) PrevOf() Symbol {
	if s.View != Current {
		panic(fmt.Sprintf("symbol: cannot take prev of %s (view=%v)", s, s.View))
	}
	s.View = Prev
	return s
}

// AtTime returns the forward-timed view of s at step k.
func AtTime(s Symbol, k int) Symbol {
	s.View = Timed
	s.Step = k
	return s
}

// AtPtime returns the backward-timed view of s at step k.
func AtPtime(s Symbol, k int) Symbol {
	s.View = Ptimed
	s.Step = k
	return s
}

// String renders the SMT-LIB2 compatible name using the reserved-suffix
// encoding.
func (s Symbol) String() string {
	switch s.View {
	case Current:
		return s.Name
	case Prime:
		return s.Name + suffixNext
	case Prev:
		return s.Name + suffixPrev
	case Timed:
		return s.Name + suffixAt + strconv.Itoa(s.Step)
	case Ptimed:
		return s.Name + suffixAtPrev + strconv.Itoa(s.Step)
	default:
		return s.Name
	}
}

// Parse recovers a Symbol from its suffix-encoded SMT-LIB2 name. It is used
// only by the compatibility printer path (trace replay from a raw SMT-LIB2
// model) and by tests; the hot path never round-trips through strings.
func Parse(encoded string, sort sortkind.Sort) Symbol {
	if idx := strings.LastIndex(encoded, suffixAtPrev); idx >= 0 && idx+len(suffixAtPrev) < len(encoded) {
		if k, err := strconv.Atoi(encoded[idx+len(suffixAtPrev):]); err == nil {
			return Symbol{Name: encoded[:idx], Sort: sort, View: Ptimed, Step: k}
		}
	}
	if idx := strings.LastIndex(encoded, suffixAt); idx >= 0 && idx+len(suffixAt) < len(encoded) {
		if k, err := strconv.Atoi(encoded[idx+len(suffixAt):]); err == nil {
			return Symbol{Name: encoded[:idx], Sort: sort, View: Timed, Step: k}
		}
	}
	if strings.HasSuffix(encoded, suffixNext) {
		return Symbol{Name: strings.TrimSuffix(encoded, suffixNext), Sort: sort, View: Prime}
	}
	if strings.HasSuffix(encoded, suffixPrev) {
		return Symbol{Name: strings.TrimSuffix(encoded, suffixPrev), Sort: sort, View: Prev}
	}
	return Symbol{Name: encoded, Sort: sort, View: Current}
}
