// Package problem binds a parsed transition system and a property to a
// verification kind and a bounded-model-checking configuration, runs the
// matching checker, and records the resulting status — the unit of work a
// driver iterates over when working through a batch of problems loaded
// from a configuration file.
package problem
