// errors.go — sentinel errors for the expr package.
//
// Only sentinel package-level vars are exposed; callers branch with
// errors.Is, and call sites wrap with extra context using
// github.com/pkg/errors.Wrapf rather than stringifying parameters into the
// sentinel itself.
package expr

import "errors"

// ErrSortMismatch indicates two operands were expected to share a sort
// (e.g. the branches of an Ite, the operands of Equals) but did not.
var ErrSortMismatch = errors.New("expr: sort mismatch")

// ErrExpectedBool indicates a Bool-sorted operand was required (e.g. the
// condition of an Ite, the operands of And/Or/Not) but a non-Bool was given.
var ErrExpectedBool = errors.New("expr: expected Bool sort")

// ErrExpectedBitVec indicates a BitVec-sorted operand was required.
var ErrExpectedBitVec = errors.New("expr: expected BitVec sort")

// ErrExpectedArray indicates an Array-sorted operand was required.
var ErrExpectedArray = errors.New("expr: expected Array sort")

// ErrWidthMismatch indicates two BitVec operands were expected to share a
// width (e.g. BVAdd operands) but did not.
var ErrWidthMismatch = errors.New("expr: bit-vector width mismatch")

// ErrBadExtractBounds indicates an Extract(hi,lo) call violated
// 0<=lo<=hi<width.
var ErrBadExtractBounds = errors.New("expr: invalid extract bounds")

// ErrNoChildren indicates a variadic connective (And/Or) was called with no
// operands.
var ErrNoChildren = errors.New("expr: connective requires at least one operand")

// ErrUnknownMemory indicates a memacc sugar reference to a memory symbol
// with no corresponding m_0..m_{n-1} scalarization and no Array sort.
var ErrUnknownMemory = errors.New("expr: unknown memory symbol")

// ErrIndexOutOfBounds indicates a constant memacc index exceeded the
// memory's declared size.
var ErrIndexOutOfBounds = errors.New("expr: memory index out of bounds")
