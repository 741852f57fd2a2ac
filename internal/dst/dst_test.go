package dst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patseq/reflinkcep/internal/dst"
	"github.com/patseq/reflinkcep/internal/event"
	"github.com/patseq/reflinkcep/internal/expr"
	"github.com/patseq/reflinkcep/internal/value"
)

func mustCompile(t *testing.T, raw string) *expr.CompiledExpr {
	t.Helper()
	c, err := expr.Compile(raw)
	require.NoError(t, err)
	return c
}

// buildSpat mirrors compiler.compileSpat: two states, one TAKE edge.
func buildSpat(t *testing.T, pat, evType, cond string) *dst.DST {
	t.Helper()
	q0 := dst.NewState()
	qf := dst.NewState()
	qf.Out = map[string]string{pat: pat}

	d := dst.New(q0)
	d.AddState(qf)
	d.AddTransition(&dst.Transition{
		Q1:   q0,
		P:    dst.NewPredicate(evType, mustCompile(t, cond)),
		Q2:   qf,
		Sink: pat,
	})
	return d
}

func TestSpatAcceptsMatchingEvent(t *testing.T) {
	d := buildSpat(t, "a1", "e", "name == 1 and price < 5")
	conf := dst.InitialConfiguration(d)

	ev := event.New(1, "e", map[string]value.Value{"name": value.FromInt(1), "price": value.FromInt(0)})

	var matched *dst.Configuration
	for _, tr := range d.Outgoing(conf.State) {
		ok, err := dst.PredicateMatches(tr, conf, &ev)
		require.NoError(t, err)
		if ok {
			next, err := dst.Advance(tr, conf, &ev)
			require.NoError(t, err)
			matched = &next
		}
	}
	require.NotNil(t, matched)
	assert.True(t, dst.Accepts(*matched))

	out := dst.Output(*matched)
	require.Contains(t, out, "a1")
	assert.Equal(t, event.EventStream{ev}, out["a1"])
}

func TestSpatRejectsNonMatchingEvent(t *testing.T) {
	d := buildSpat(t, "a1", "e", "name == 1 and price < 5")
	conf := dst.InitialConfiguration(d)
	ev := event.New(1, "e", map[string]value.Value{"name": value.FromInt(2), "price": value.FromInt(0)})

	for _, tr := range d.Outgoing(conf.State) {
		ok, err := dst.PredicateMatches(tr, conf, &ev)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestEpsilonRequiresAbsentEvent(t *testing.T) {
	q0 := dst.NewState()
	t1 := &dst.Transition{Q1: q0, P: dst.EpsilonPredicate(), Q2: q0}
	ok, err := dst.PredicateMatches(t1, dst.Configuration{State: q0}, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ev := event.New(1, "e", nil)
	ok, err = dst.PredicateMatches(t1, dst.Configuration{State: q0}, &ev)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWildcardMatchesAnyType(t *testing.T) {
	q0 := dst.NewState()
	q1 := dst.NewState()
	t1 := &dst.Transition{Q1: q0, P: dst.NewPredicate(dst.Wildcard, expr.True), Q2: q1, Sink: "p"}
	ev := event.New(1, "whatever", nil)
	ok, err := dst.PredicateMatches(t1, dst.Configuration{State: q0, Eta: map[string]value.Value{}}, &ev)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAcceptsRequiresLastTake(t *testing.T) {
	qf := dst.NewState()
	qf.Out = map[string]string{"o": "p"}
	assert.False(t, dst.Accepts(dst.Configuration{State: qf, LastTake: false}))
	assert.True(t, dst.Accepts(dst.Configuration{State: qf, LastTake: true}))
}

func TestNegFlipsCondition(t *testing.T) {
	p := dst.NewPredicate("e", mustCompile(t, "name == 1"))
	negated := dst.Neg(p)
	ev := event.New(1, "e", map[string]value.Value{"name": value.FromInt(2)})
	ok, err := negated.Cond.EvalBool(expr.Env{EventAttrs: ev.Attrs})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFindAcceptingViaEpsilonSkipsSelf(t *testing.T) {
	// q0 --eps--> qf (final). Starting at q0 with last_take=true should
	// surface qf via the dig, but starting at qf itself should not
	// report qf as reached "via epsilon" (it is the start).
	q0 := dst.NewState()
	qf := dst.NewState()
	qf.Out = map[string]string{"o": "p"}
	d := dst.New(q0)
	d.AddState(qf)
	d.AddTransition(&dst.Transition{Q1: q0, P: dst.EpsilonPredicate(), Q2: qf})

	conf := dst.Configuration{State: q0, Eta: map[string]value.Value{}, Ctx: dst.Ctx{}, LastTake: true}
	found, ok := dst.FindAcceptingViaEpsilon(d, conf)
	require.True(t, ok)
	assert.Equal(t, qf.ID, found.State.ID)

	_, ok = dst.FindAcceptingViaEpsilon(d, dst.Configuration{State: qf, LastTake: true})
	assert.False(t, ok)
}
