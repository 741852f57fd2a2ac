package dst

import (
	"log/slog"

	"github.com/patseq/reflinkcep/internal/event"
	"github.com/patseq/reflinkcep/internal/expr"
	"github.com/patseq/reflinkcep/internal/value"
)

// Ctx maps a pattern-variable name to the ordered events bound to it so
// far in a partial match.
type Ctx map[string]event.EventStream

// Configuration is (state, data-env eta, context ctx, last_take). Value
// semantics: Eta/Ctx updates either share the prior map (identity
// update) or allocate a fresh one, never mutate in place.
type Configuration struct {
	State    *State
	Eta      map[string]value.Value
	Ctx      Ctx
	LastTake bool
}

// InitialConfiguration returns (q0, eta0, {}, last_take=false).
func InitialConfiguration(d *DST) Configuration {
	return Configuration{
		State:    d.Q0,
		Eta:      d.Eta0,
		Ctx:      Ctx{},
		LastTake: false,
	}
}

// PredicateMatches reports whether t fires in conf against ev. ev is nil
// for epsilon transitions, which require the event to be absent; a
// non-epsilon transition requires a present event whose type satisfies
// the tag (exact match or Wildcard), then the condition to evaluate
// true. An evaluation error is recovered locally as "does not fire" and
// logged at slog.Debug.
func PredicateMatches(t *Transition, conf Configuration, ev *event.Event) (bool, error) {
	if t.P.Tag == Epsilon {
		if ev != nil {
			return false, nil
		}
	} else {
		if ev == nil {
			return false, nil
		}
		if t.P.Tag != Wildcard && t.P.Tag != ev.Type {
			return false, nil
		}
	}

	env := expr.Env{Eta: conf.Eta}
	if ev != nil {
		env.EventAttrs = ev.Attrs
	}
	ok, err := t.P.Cond.EvalBool(env)
	if err != nil {
		if expr.IsEvalError(err) {
			slog.Debug("dst: predicate evaluation recovered as false", "error", err, "state", conf.State.ID)
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// Advance produces the next configuration for t firing against ev
// (ev is nil for epsilon transitions). An expression error while
// applying alpha is returned to the caller, which must treat the edge
// as not having fired.
func Advance(t *Transition, conf Configuration, ev *event.Event) (Configuration, error) {
	eta := conf.Eta
	if len(t.Alpha) > 0 {
		env := expr.Env{Eta: conf.Eta}
		if ev != nil {
			env.EventAttrs = ev.Attrs
		}
		next := make(map[string]value.Value, len(conf.Eta))
		for k, v := range conf.Eta {
			next[k] = v
		}
		for name, e := range t.Alpha {
			res, err := e.Eval(env)
			if err != nil {
				return Configuration{}, err
			}
			num, ok := res.(expr.Number)
			if !ok {
				return Configuration{}, &expr.EvalError{Kind: expr.EvalErrTypeMismatch, Message: "data-update for " + name + " did not evaluate to a number"}
			}
			next[name] = num.V
		}
		eta = next
	}

	ctx := conf.Ctx
	if t.Sink != "" {
		fresh := make(Ctx, len(conf.Ctx))
		for k, v := range conf.Ctx {
			fresh[k] = v
		}
		prev := conf.Ctx[t.Sink]
		bound := make(event.EventStream, len(prev)+1)
		copy(bound, prev)
		bound[len(prev)] = *ev
		fresh[t.Sink] = bound
		ctx = fresh
	}

	lastTake := conf.LastTake
	if t.P.Tag != Epsilon {
		lastTake = t.Sink != ""
	}

	return Configuration{State: t.Q2, Eta: eta, Ctx: ctx, LastTake: lastTake}, nil
}

// Accepts reports whether conf is accepting: the state is final and the
// last non-epsilon transition was a TAKE.
func Accepts(conf Configuration) bool {
	return conf.State.IsFinal() && conf.LastTake
}

// Output builds the Match for an accepting configuration: for each pair
// in state.Out (output-name -> pattern-name), bind output-name to
// ctx[pattern-name] when present.
func Output(conf Configuration) map[string]event.EventStream {
	out := make(map[string]event.EventStream, len(conf.State.Out))
	for outputName, patternName := range conf.State.Out {
		if events, ok := conf.Ctx[patternName]; ok {
			out[outputName] = events
		}
	}
	return out
}

// EpsilonClosure returns conf plus every configuration reachable from it
// by one or more epsilon (PROCEED) hops, in BFS order starting with conf
// itself. A visited-state set terminates cycles introduced by
// combine/group ignore-shadows and gpat-inf's zero-iteration self-loop.
// A group node's entry state, for example, carries no TAKE transition of
// its own, only an epsilon gateway into its first replicated copy; the
// closure is what lets the executor see past that gateway to the real
// matchable edges beyond it.
func EpsilonClosure(d *DST, conf Configuration) []Configuration {
	visited := map[int64]bool{conf.State.ID: true}
	closure := []Configuration{conf}
	frontier := []Configuration{conf}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, t := range d.Outgoing(cur.State) {
			if t.P.Tag != Epsilon {
				continue
			}
			ok, err := PredicateMatches(t, cur, nil)
			if err != nil || !ok {
				continue
			}
			next, err := Advance(t, cur, nil)
			if err != nil {
				continue
			}
			if visited[next.State.ID] {
				continue
			}
			visited[next.State.ID] = true
			closure = append(closure, next)
			frontier = append(frontier, next)
		}
	}
	return closure
}

// FindAcceptingViaEpsilon reports the first accepting configuration
// reachable from conf by proceeding along one or more epsilon
// transitions. conf itself is not considered a hit, since the caller
// already accounts for conf directly, so this only surfaces
// configurations reachable by proceeding further.
func FindAcceptingViaEpsilon(d *DST, conf Configuration) (Configuration, bool) {
	for _, c := range EpsilonClosure(d, conf) {
		if c.State.ID == conf.State.ID {
			continue
		}
		if Accepts(c) {
			return c, true
		}
	}
	return Configuration{}, false
}
