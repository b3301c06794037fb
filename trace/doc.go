// Package trace turns a solver model over timed symbols into the ordered
// per-step variable assignments a user actually wants to read: one map per
// time step, restricted to a configurable variable subset, with optional
// lasso annotation and array materialization from a model's store-chain.
package trace
