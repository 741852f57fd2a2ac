package compiler

import (
	"github.com/patseq/reflinkcep/internal/dst"
	"github.com/patseq/reflinkcep/internal/expr"
	"github.com/patseq/reflinkcep/internal/query"
)

// finalStates returns every state in d.Q currently carrying an output
// label. Used generically across node kinds (spat/lpat/lpat-inf have
// one, combine/group may have several after nested compilation).
func finalStates(d *dst.DST) []*dst.State {
	var out []*dst.State
	for _, s := range d.Q {
		if s.IsFinal() {
			out = append(out, s)
		}
	}
	return out
}

// compileCombine sequences left then right under a contiguity mode.
func compileCombine(c query.Combine, ctx query.Context) (*dst.DST, error) {
	left, err := compileNode(c.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := compileNode(c.Right, ctx)
	if err != nil {
		return nil, err
	}

	leftFinals := finalStates(left)
	if len(leftFinals) == 0 {
		return nil, compileErrorf("combine: left side has no final states")
	}

	d := left
	d.Merge(right)
	// Disjoint data-variable sets are assumed; if overlapping, the right
	// side wins.
	for k, v := range right.Eta0 {
		d.Eta0[k] = v
	}

	for _, qL := range leftFinals {
		for _, qR := range finalStates(right) {
			for outName, patName := range qL.Out {
				qR.Out[outName] = patName
			}
		}
	}
	for _, qL := range leftFinals {
		qL.Out = nil
		d.AddTransition(&dst.Transition{Q1: qL, P: dst.EpsilonPredicate(), Q2: right.Q0})
	}

	if c.Contiguity != query.ContiguityStrict {
		if err := addCombineIgnoreShadow(d, right, c.Contiguity, ctx.Schema); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// addCombineIgnoreShadow adds the q02_ignore shadow state: a mirror of
// every transition out of right.q0 (TAKE and epsilon alike), plus
// contiguity-dependent ignore edges from right.q0 and q02_ignore into
// q02_ignore. Only called when the combine's contiguity is not strict;
// strict contiguity adds no ignore-shadow at all.
//
// right.q0 carries no TAKE transition, only a lone epsilon gateway into
// the first replicated copy, when right is a gpat-times or gpat-inf
// node; mirroring that epsilon edge too (not just TAKE edges) is what
// lets an ignored event's shadow still reach the group's real matching
// chain, the same way right.q0 itself would have. An empty takeEdges
// set is simply the no-op case for the ignore-edge construction below:
// singleExpectedTag returns "" for an empty expected set, so
// otherEventTypes excludes nothing and every schema event type is
// treated as "not yet the right side's expected event".
func addCombineIgnoreShadow(d *dst.DST, right *dst.DST, contiguity query.Contiguity, schema map[string][]string) error {
	shadow := dst.NewState()
	d.AddState(shadow)

	var takeEdges []*dst.Transition
	for _, t := range d.Outgoing(right.Q0) {
		if t.IsTake() {
			takeEdges = append(takeEdges, t)
		}
		d.AddTransition(&dst.Transition{Q1: shadow, P: t.P, Q2: t.Q2, Alpha: t.Alpha, Sink: t.Sink})
	}

	addFrom := func(source *dst.State) error {
		switch contiguity {
		case query.ContiguityNDRelaxed:
			d.AddTransition(&dst.Transition{Q1: source, P: dst.NewPredicate(dst.Wildcard, expr.True), Q2: shadow})
			return nil

		case query.ContiguityRelaxed:
			expected := map[string]bool{}
			for _, t := range takeEdges {
				if !expected[t.P.Tag] {
					expected[t.P.Tag] = true
					d.AddTransition(&dst.Transition{Q1: source, P: dst.Neg(t.P), Q2: shadow})
				}
			}
			others, err := otherEventTypes(schema, singleExpectedTag(expected))
			if err != nil {
				return err
			}
			for _, other := range others {
				d.AddTransition(&dst.Transition{Q1: source, P: dst.NewPredicate(other, expr.True), Q2: shadow})
			}
			return nil
		}
		return nil
	}

	if err := addFrom(right.Q0); err != nil {
		return err
	}
	return addFrom(shadow)
}

// singleExpectedTag returns the one concrete tag in expected, or "" if
// there is more than one. otherEventTypes then excludes just that one
// tag from the schema-enumerated set; a right-hand entry with several
// distinct expected tags is not produced by any node kind this compiler
// builds (each has a single-entry q0), so this simplification is exact
// in practice.
func singleExpectedTag(expected map[string]bool) string {
	if len(expected) == 1 {
		for tag := range expected {
			return tag
		}
	}
	return ""
}
