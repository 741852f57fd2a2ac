package compiler

import (
	"github.com/patseq/reflinkcep/internal/dst"
	"github.com/patseq/reflinkcep/internal/expr"
	"github.com/patseq/reflinkcep/internal/query"
)

// compileGpat replicates the child exactly once: the child DST is used
// directly.
func compileGpat(g query.Gpat, ctx query.Context) (*dst.DST, error) {
	return compileNode(g.Child, ctx)
}

// inheritFirstCopyOutput copies the first copy's final-state output
// labels onto qf, then clears every copy's final-state output, since
// they are no longer individually accepting once wired into the
// replication chain.
func inheritFirstCopyOutput(qf *dst.State, copies []*dst.DST) {
	qf.Out = map[string]string{}
	for _, f := range finalStates(copies[0]) {
		for outName, patName := range f.Out {
			qf.Out[outName] = patName
		}
	}
	for _, c := range copies {
		for _, f := range finalStates(c) {
			f.Out = nil
		}
	}
}

// tightenNonEpsilon rewrites every non-epsilon transition in d to
// with_until(p, until), enforcing an unbounded loop's until bound on
// every replicated copy.
func tightenNonEpsilon(d *dst.DST, until *expr.CompiledExpr) {
	for _, ts := range d.Delta {
		for _, t := range ts {
			if t.P.Tag != dst.Epsilon {
				t.P = dst.WithUntil(t.P, until)
			}
		}
	}
}

// compileGpatTimes replicates Child From..To times, stitching consecutive
// copies together with epsilon transitions.
func compileGpatTimes(g query.GpatTimes, ctx query.Context) (*dst.DST, error) {
	if g.From < 1 || g.To < g.From {
		return nil, compileErrorf("gpat-times: invalid loop bounds %d..%d", g.From, g.To)
	}
	m := g.To

	copies := make([]*dst.DST, m)
	for i := 0; i < m; i++ {
		c, err := compileNode(g.Child, ctx)
		if err != nil {
			return nil, err
		}
		copies[i] = c
	}

	q0 := dst.NewState()
	qf := dst.NewState()
	d := dst.New(q0)
	d.AddState(qf)
	for _, c := range copies {
		d.Merge(c)
	}

	d.AddTransition(&dst.Transition{Q1: q0, P: dst.EpsilonPredicate(), Q2: copies[0].Q0})
	for i := 0; i < m-1; i++ {
		for _, f := range finalStates(copies[i]) {
			d.AddTransition(&dst.Transition{Q1: f, P: dst.EpsilonPredicate(), Q2: copies[i+1].Q0})
		}
	}
	for i := g.From - 1; i <= m-1; i++ {
		for _, f := range finalStates(copies[i]) {
			d.AddTransition(&dst.Transition{Q1: f, P: dst.EpsilonPredicate(), Q2: qf})
		}
	}

	inheritFirstCopyOutput(qf, copies)
	return d, nil
}

// compileGpatInf replicates Child From..infinity times, closing the last
// copy back on itself with an epsilon self-loop for the unbounded tail.
func compileGpatInf(g query.GpatInf, ctx query.Context) (*dst.DST, error) {
	if g.From < 0 {
		return nil, compileErrorf("gpat-inf: invalid loop lower bound %d", g.From)
	}
	zeroOrMore := g.From == 0
	n := g.From
	if zeroOrMore {
		n = 1
	}

	copies := make([]*dst.DST, n)
	for i := 0; i < n; i++ {
		c, err := compileNode(g.Child, ctx)
		if err != nil {
			return nil, err
		}
		copies[i] = c
	}

	var untilExpr *expr.CompiledExpr
	if g.Until != "" {
		var err error
		untilExpr, err = expr.Compile(g.Until)
		if err != nil {
			return nil, compileErrorf("gpat-inf: until condition %q: %v", g.Until, err)
		}
		for _, c := range copies {
			tightenNonEpsilon(c, untilExpr)
		}
	}

	q0 := dst.NewState()
	qf := dst.NewState()
	d := dst.New(q0)
	d.AddState(qf)
	for _, c := range copies {
		d.Merge(c)
	}

	d.AddTransition(&dst.Transition{Q1: q0, P: dst.EpsilonPredicate(), Q2: copies[0].Q0})
	for i := 0; i < n-1; i++ {
		for _, f := range finalStates(copies[i]) {
			d.AddTransition(&dst.Transition{Q1: f, P: dst.EpsilonPredicate(), Q2: copies[i+1].Q0})
		}
	}

	last := copies[n-1]
	for _, f := range finalStates(last) {
		d.AddTransition(&dst.Transition{Q1: f, P: dst.EpsilonPredicate(), Q2: last.Q0})
		d.AddTransition(&dst.Transition{Q1: f, P: dst.EpsilonPredicate(), Q2: qf})
	}

	if zeroOrMore {
		d.AddTransition(&dst.Transition{Q1: q0, P: dst.EpsilonPredicate(), Q2: qf})
	}

	inheritFirstCopyOutput(qf, copies)
	return d, nil
}
