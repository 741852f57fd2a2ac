package compiler

import (
	"sort"

	"github.com/patseq/reflinkcep/internal/dst"
	"github.com/patseq/reflinkcep/internal/expr"
	"github.com/patseq/reflinkcep/internal/query"
	"github.com/patseq/reflinkcep/internal/value"
)

// compiledVariables compiles a node's data-variable specs into an alpha
// (data-update) map and an initial eta, shared by spat/lpat/lpat-inf.
func compiledVariables(vars map[string]query.VariableSpec) (dst.DataUpdate, map[string]value.Value, error) {
	if len(vars) == 0 {
		return nil, map[string]value.Value{}, nil
	}
	alpha := make(dst.DataUpdate, len(vars))
	eta0 := make(map[string]value.Value, len(vars))
	for name, spec := range vars {
		eta0[name] = spec.Initial
		if spec.Update == "" {
			continue
		}
		compiled, err := expr.Compile(spec.Update)
		if err != nil {
			return nil, nil, compileErrorf("variable %q update expression: %v", name, err)
		}
		alpha[name] = compiled
	}
	return alpha, eta0, nil
}

// otherEventTypes returns every event type in schema other than exclude,
// in sorted order for deterministic transition construction. Relaxed
// contiguity requires the schema to enumerate all event types in scope;
// a missing or empty schema is a CompileError.
func otherEventTypes(schema map[string][]string, exclude string) ([]string, error) {
	if len(schema) == 0 {
		return nil, compileErrorf("relaxed contiguity requires ctx.schema enumerating all event types in scope")
	}
	out := make([]string, 0, len(schema))
	for t := range schema {
		if t != exclude {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

// addIgnoreEdges wires the contiguity-dependent IGNORE edges from "from"
// into "to" (and to's self-loop), for the relaxed/nd-relaxed contiguity
// modes; strict contiguity adds nothing. This single helper is reused
// for the between-take ignore-shadow chain (from=q[i],
// to=shadow[i-1]) and for the lpat-inf tail boundary (from=q[n],
// to=qnp).
func addIgnoreEdges(d *dst.DST, from, to *dst.State, contiguity query.Contiguity, eventType string, cond *expr.CompiledExpr, schema map[string][]string, until *expr.CompiledExpr) error {
	tighten := func(p dst.Predicate) dst.Predicate {
		if until == nil {
			return p
		}
		return dst.WithUntil(p, until)
	}

	switch contiguity {
	case query.ContiguityStrict:
		return nil

	case query.ContiguityRelaxed:
		negCond := tighten(dst.Neg(dst.NewPredicate(eventType, cond)))
		d.AddTransition(&dst.Transition{Q1: from, P: negCond, Q2: to})
		d.AddTransition(&dst.Transition{Q1: to, P: negCond, Q2: to})

		others, err := otherEventTypes(schema, eventType)
		if err != nil {
			return err
		}
		for _, other := range others {
			p := tighten(dst.NewPredicate(other, expr.True))
			d.AddTransition(&dst.Transition{Q1: from, P: p, Q2: to})
			d.AddTransition(&dst.Transition{Q1: to, P: p, Q2: to})
		}
		return nil

	case query.ContiguityNDRelaxed:
		p := tighten(dst.NewPredicate(dst.Wildcard, expr.True))
		d.AddTransition(&dst.Transition{Q1: from, P: p, Q2: to})
		d.AddTransition(&dst.Transition{Q1: to, P: p, Q2: to})
		return nil
	}
	return compileErrorf("unknown contiguity %q", contiguity)
}

// compileSpat builds the two-state single-event-match DST: q0 takes the
// one matching event straight to the final state.
func compileSpat(p query.Spat, ctx query.Context) (*dst.DST, error) {
	if p.Name == "" {
		return nil, compileErrorf("spat: missing pattern-variable name")
	}
	cond, err := expr.Compile(p.Cndt)
	if err != nil {
		return nil, compileErrorf("spat %q: condition %q: %v", p.Name, p.Cndt, err)
	}
	alpha, eta0, err := compiledVariables(p.Variables)
	if err != nil {
		return nil, err
	}

	q0 := dst.NewState()
	qf := dst.NewState()
	qf.Out = map[string]string{p.Name: p.Name}

	d := dst.New(q0)
	d.AddState(qf)
	d.Eta0 = eta0
	d.Sigma = []string{p.Event}
	d.Pi = []string{p.Name}
	d.Y = []string{p.Name}
	for name := range p.Variables {
		d.X = append(d.X, name)
	}

	d.AddTransition(&dst.Transition{
		Q1: q0, P: dst.NewPredicate(p.Event, cond), Q2: qf,
		Alpha: alpha, Sink: p.Name,
	})
	return d, nil
}

// compileLpat builds the bounded from..to loop DST, with optional
// ignore-shadow states for relaxed/nd-relaxed contiguity.
func compileLpat(p query.Lpat, ctx query.Context) (*dst.DST, error) {
	if p.From < 0 || p.To < p.From {
		return nil, compileErrorf("lpat %q: invalid loop bounds %d..%d", p.Name, p.From, p.To)
	}
	cond, err := expr.Compile(p.Cndt)
	if err != nil {
		return nil, compileErrorf("lpat %q: condition %q: %v", p.Name, p.Cndt, err)
	}
	alpha, eta0, err := compiledVariables(p.Variables)
	if err != nil {
		return nil, err
	}

	m := p.To
	q := make([]*dst.State, m+1)
	for i := 0; i <= m; i++ {
		q[i] = dst.NewState()
	}
	qf := dst.NewState()
	qf.Out = map[string]string{p.Name: p.Name}

	d := dst.New(q[0])
	for i := 1; i <= m; i++ {
		d.AddState(q[i])
	}
	d.AddState(qf)
	d.Eta0 = eta0
	d.Sigma = []string{p.Event}
	d.Pi = []string{p.Name}
	d.Y = []string{p.Name}
	for name := range p.Variables {
		d.X = append(d.X, name)
	}

	basePredicate := dst.NewPredicate(p.Event, cond)
	for i := 0; i < m; i++ {
		d.AddTransition(&dst.Transition{Q1: q[i], P: basePredicate, Q2: q[i+1], Alpha: alpha, Sink: p.Name})
	}
	for i := p.From; i <= m; i++ {
		d.AddTransition(&dst.Transition{Q1: q[i], P: dst.EpsilonPredicate(), Q2: qf})
	}

	if p.Contiguity != query.ContiguityStrict && m >= 2 {
		shadow := make([]*dst.State, m-1)
		for j := 0; j < m-1; j++ {
			shadow[j] = dst.NewState()
			d.AddState(shadow[j])
		}
		for i := 1; i < m; i++ {
			j := i - 1
			if err := addIgnoreEdges(d, q[i], shadow[j], p.Contiguity, p.Event, cond, ctx.Schema, nil); err != nil {
				return nil, err
			}
		}
		for j := 0; j < m-1; j++ {
			d.AddTransition(&dst.Transition{Q1: shadow[j], P: basePredicate, Q2: q[j+2], Alpha: alpha, Sink: p.Name})
		}
	}

	return d, nil
}

// compileLpatInf builds the unbounded from..infinity loop DST, with an
// optional until bound tightening every non-epsilon transition.
func compileLpatInf(p query.LpatInf, ctx query.Context) (*dst.DST, error) {
	if p.From < 0 {
		return nil, compileErrorf("lpat-inf %q: invalid loop lower bound %d", p.Name, p.From)
	}
	cond, err := expr.Compile(p.Cndt)
	if err != nil {
		return nil, compileErrorf("lpat-inf %q: condition %q: %v", p.Name, p.Cndt, err)
	}
	alpha, eta0, err := compiledVariables(p.Variables)
	if err != nil {
		return nil, err
	}

	zeroOrMore := p.From == 0
	n := p.From
	if zeroOrMore {
		n = 1
	}

	q := make([]*dst.State, n+1)
	for i := 0; i <= n; i++ {
		q[i] = dst.NewState()
	}
	qnp := dst.NewState()
	qf := dst.NewState()
	qf.Out = map[string]string{p.Name: p.Name}

	d := dst.New(q[0])
	for i := 1; i <= n; i++ {
		d.AddState(q[i])
	}
	d.AddState(qnp)
	d.AddState(qf)
	d.Eta0 = eta0
	d.Sigma = []string{p.Event}
	d.Pi = []string{p.Name}
	d.Y = []string{p.Name}
	for name := range p.Variables {
		d.X = append(d.X, name)
	}

	basePredicate := dst.NewPredicate(p.Event, cond)
	var untilExpr *expr.CompiledExpr
	if p.Until != "" {
		untilExpr, err = expr.Compile(p.Until)
		if err != nil {
			return nil, compileErrorf("lpat-inf %q: until condition %q: %v", p.Name, p.Until, err)
		}
		basePredicate = dst.WithUntil(basePredicate, untilExpr)
	}

	for i := 0; i < n; i++ {
		d.AddTransition(&dst.Transition{Q1: q[i], P: basePredicate, Q2: q[i+1], Alpha: alpha, Sink: p.Name})
	}
	d.AddTransition(&dst.Transition{Q1: q[n], P: basePredicate, Q2: q[n], Alpha: alpha, Sink: p.Name})
	d.AddTransition(&dst.Transition{Q1: qnp, P: basePredicate, Q2: q[n], Alpha: alpha, Sink: p.Name})

	d.AddTransition(&dst.Transition{Q1: q[n], P: dst.EpsilonPredicate(), Q2: qf})
	if zeroOrMore {
		d.AddTransition(&dst.Transition{Q1: q[0], P: dst.EpsilonPredicate(), Q2: qf})
	}

	if n >= 2 {
		shadow := make([]*dst.State, n-1)
		for j := 0; j < n-1; j++ {
			shadow[j] = dst.NewState()
			d.AddState(shadow[j])
		}
		for i := 1; i < n; i++ {
			j := i - 1
			if err := addIgnoreEdges(d, q[i], shadow[j], p.Contiguity, p.Event, cond, ctx.Schema, untilExpr); err != nil {
				return nil, err
			}
		}
		for j := 0; j < n-1; j++ {
			d.AddTransition(&dst.Transition{Q1: shadow[j], P: basePredicate, Q2: q[j+2], Alpha: alpha, Sink: p.Name})
		}
	}

	if err := addIgnoreEdges(d, q[n], qnp, p.Contiguity, p.Event, cond, ctx.Schema, untilExpr); err != nil {
		return nil, err
	}

	return d, nil
}
