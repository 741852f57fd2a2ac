// Package executor implements the event-driven simulation over a
// compiled DST: the FIFO work-list, inline epsilon closure, match
// collection, and after-match skip strategy.
package executor

import (
	"log/slog"

	"github.com/patseq/reflinkcep/internal/dst"
	"github.com/patseq/reflinkcep/internal/event"
)

type entry struct {
	k    int
	conf dst.Configuration
}

// Executor is the event-driven simulator over an immutable *dst.DST. The
// DST may be freely shared (read-only) across Executor instances; each
// Executor owns its own work-list and step counter.
type Executor struct {
	d           *dst.DST
	strategy    SkipStrategy
	strategyErr error
	s           []entry
	i           int
}

// NewExecutor builds an Executor over d using the named after-match
// strategy. An unrecognized strategy name is not rejected here; the
// resulting ConfigError is recorded and only surfaced the first time
// Feed attempts to apply it.
func NewExecutor(d *dst.DST, strategyName string) *Executor {
	strat, err := ParseSkipStrategy(strategyName)
	return &Executor{d: d, strategy: strat, strategyErr: err}
}

// Reset empties the alive partial-match set and rewinds the step
// counter.
func (e *Executor) Reset() {
	e.s = nil
	e.i = 0
}

// QueueLen reports the number of partial matches currently alive.
func (e *Executor) QueueLen() int {
	return len(e.s)
}

// StepIndex reports the index of the most recently fed event (0 before
// the first Feed call).
func (e *Executor) StepIndex() int {
	return e.i
}

// Feed advances every alive partial match, plus a freshly seeded one, by
// one event, and returns the matches emitted at this step. Epsilon
// transitions never match an event directly (PredicateMatches requires a
// nil event for them), so a state reachable only through a pure epsilon
// gateway (a combine's stitch into its right side, a group's entry into
// its first replicated copy) would otherwise be unreachable; Feed
// instead expands each alive configuration's full epsilon closure before
// testing it against ev. Exactly one entry per (k, firing transition) is
// kept in e.s, carrying the direct post-TAKE configuration rather than
// its closure: emit re-expands the closure at acceptance-check time, so
// a config is never duplicated into independent entries that would
// later rediscover, and double-emit, the same downstream match.
func (e *Executor) Feed(ev event.Event) ([]Match, error) {
	e.i++

	seeds := make([]entry, 0, len(e.s)+1)
	seeds = append(seeds, e.s...)
	seeds = append(seeds, entry{k: e.i, conf: dst.InitialConfiguration(e.d)})
	e.s = nil

	for _, wi := range seeds {
		for _, closed := range dst.EpsilonClosure(e.d, wi.conf) {
			for _, tr := range e.d.Outgoing(closed.State) {
				if tr.P.Tag == dst.Epsilon {
					continue
				}
				ok, err := dst.PredicateMatches(tr, closed, &ev)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				newConf, err := dst.Advance(tr, closed, &ev)
				if err != nil {
					// Data-update evaluation errors are recovered the same
					// way as predicate errors: the edge does not fire.
					slog.Debug("executor: data-update recovered as no-op edge", "error", err, "step", e.i)
					continue
				}
				if err := assertInvariant(newConf.LastTake == tr.IsTake(), "transition %d desynced last_take from sink", tr.Q1.ID); err != nil {
					return nil, err
				}

				e.s = append(e.s, entry{k: wi.k, conf: newConf})
			}
		}
	}

	return e.emit()
}

// accepting reports whether conf is itself accepting, or reaches an
// accepting configuration by proceeding along epsilon transitions alone
// (a group iteration's exit into its exposed final state, for
// instance). Returns the accepting configuration to emit from.
func accepting(d *dst.DST, conf dst.Configuration) (dst.Configuration, bool) {
	if dst.Accepts(conf) {
		return conf, true
	}
	return dst.FindAcceptingViaEpsilon(d, conf)
}

func (e *Executor) emit() ([]Match, error) {
	if e.strategyErr != nil {
		return nil, e.strategyErr
	}

	var matches []Match
	switch e.strategy {
	case NoSkip:
		for _, en := range e.s {
			if acc, ok := accepting(e.d, en.conf); ok {
				matches = append(matches, Match(dst.Output(acc)))
			}
		}

	case SkipToNext:
		pruned := map[int]bool{}
		for _, en := range e.s {
			if pruned[en.k] {
				continue
			}
			acc, ok := accepting(e.d, en.conf)
			if !ok {
				continue
			}
			pruned[en.k] = true
			matches = append(matches, Match(dst.Output(acc)))
		}

	case SkipPastLastEvent:
		for _, en := range e.s {
			if acc, ok := accepting(e.d, en.conf); ok {
				matches = append(matches, Match(dst.Output(acc)))
				e.s = nil
				break
			}
		}

	default:
		return nil, &ConfigError{Message: "unrecognized strategy enum value"}
	}

	if len(matches) > 0 {
		slog.Info("executor: emitted matches", "step", e.i, "count", len(matches), "strategy", e.strategy)
	}
	return matches, nil
}
