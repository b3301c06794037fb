// Package lemma implements induction-style assumption mining: given a
// transition system, a safety property, and a candidate list of auxiliary
// invariants ("lemmas"), it proves each lemma relative to the system's
// current init/trans/invar, folds proved lemmas in as assumptions, and
// checks after each proof whether the accumulated assumptions already
// imply the property.
package lemma
