// Package expr implements a hash-consed expression tree over {Bool,
// BitVec(n), Array(BV(i)->BV(e))}, with free-variable queries,
// capture-free substitution, constant-folding simplification, conjunctive
// partitioning, and an SMT-LIB2 printer.
//
// Every *Expr returned by a Manager is canonical: two structurally equal
// expressions built through the same Manager are the same pointer. This is
// what makes substitute.go's "simple replacement at leaves" correct
// (Symbol values are already globally unique, so substitution never has to
// worry about variable capture) and what lets the BMC engine's timing
// tables and equivalence checks compare expressions with `==`.
package expr
