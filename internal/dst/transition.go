package dst

import "github.com/patseq/reflinkcep/internal/expr"

// DataUpdate (alpha) maps a data-variable name to the expression that
// produces its next value. A nil or empty DataUpdate is the identity
// update: eta is left unchanged.
type DataUpdate map[string]*expr.CompiledExpr

// Transition is (q1, predicate, q2, data-update alpha, stream-update
// beta). Sink is the stream-update: the pattern-variable name the
// triggering event is appended to on TAKE, or "" for IGNORE/epsilon
// (ctx unchanged w.r.t. that transition).
type Transition struct {
	Q1    *State
	P     Predicate
	Q2    *State
	Alpha DataUpdate
	Sink  string
}

// IsTake reports whether this transition appends to a pattern-variable's
// bound events. A TAKE transition always carries a concrete event-type
// tag, never epsilon.
func (t *Transition) IsTake() bool {
	return t.Sink != ""
}
