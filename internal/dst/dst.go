package dst

import "github.com/patseq/reflinkcep/internal/value"

// DST is (Sigma event types, Pi pattern-variable names, X data-variables,
// Y output-stream names, Q states, q0 initial state, eta0 initial
// data-env, Delta transitions). Delta is indexed by source state id.
type DST struct {
	Sigma []string
	Pi    []string
	X     []string
	Y     []string
	Q     []*State
	Q0    *State
	Eta0  map[string]value.Value
	Delta map[int64][]*Transition
}

// New creates an empty DST with q0 as its initial state.
func New(q0 *State) *DST {
	return &DST{
		Q0:    q0,
		Q:     []*State{q0},
		Eta0:  map[string]value.Value{},
		Delta: map[int64][]*Transition{},
	}
}

// AddState registers a state in Q.
func (d *DST) AddState(s *State) {
	d.Q = append(d.Q, s)
}

// AddTransition registers t in Delta, indexed by t.Q1's id.
func (d *DST) AddTransition(t *Transition) {
	d.Delta[t.Q1.ID] = append(d.Delta[t.Q1.ID], t)
}

// Merge absorbs other's states and transitions into d. Used by the
// compositional compiler (combine, gpat-times, gpat-inf) to union two
// independently-compiled sub-DSTs; state ids never collide since they
// are minted from a single global counter.
func (d *DST) Merge(other *DST) {
	d.Q = append(d.Q, other.Q...)
	for id, ts := range other.Delta {
		d.Delta[id] = append(d.Delta[id], ts...)
	}
	for k, v := range other.Eta0 {
		if _, exists := d.Eta0[k]; !exists {
			d.Eta0[k] = v
		}
	}
	d.Sigma = mergeUnique(d.Sigma, other.Sigma)
	d.Pi = mergeUnique(d.Pi, other.Pi)
	d.X = mergeUnique(d.X, other.X)
	d.Y = mergeUnique(d.Y, other.Y)
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Outgoing returns all transitions whose source is q.
func (d *DST) Outgoing(q *State) []*Transition {
	return d.Delta[q.ID]
}
