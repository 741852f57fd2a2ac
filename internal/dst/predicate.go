package dst

import "github.com/patseq/reflinkcep/internal/expr"

// Epsilon and Wildcard are the two sentinel event-type tags: Epsilon
// marks a transition that consumes no event, Wildcard matches any
// concrete event type.
const (
	Epsilon  = "ε"
	Wildcard = "*"
)

// Predicate is (event-type-tag-or-epsilon, condition). It evaluates true
// iff the type matches (exact equality, or the Wildcard sentinel) and
// the condition evaluates true in the configuration's eta augmented with
// the event's attributes.
type Predicate struct {
	Tag  string
	Cond *expr.CompiledExpr
}

// NewPredicate builds a Predicate, defaulting a nil condition to the
// identity ("always true") condition.
func NewPredicate(tag string, cond *expr.CompiledExpr) Predicate {
	if cond == nil {
		cond = expr.True
	}
	return Predicate{Tag: tag, Cond: cond}
}

// EpsilonPredicate is the identity predicate used on PROCEED transitions.
func EpsilonPredicate() Predicate {
	return Predicate{Tag: Epsilon, Cond: expr.True}
}

// Neg yields a predicate with the same tag and condition "not (p.cond)".
func Neg(p Predicate) Predicate {
	return Predicate{Tag: p.Tag, Cond: expr.Negate(p.Cond)}
}

// WithUntil yields a predicate with the same tag and condition
// "(p.cond) and (not (until.cond))": the event must still satisfy p but
// must not satisfy the until bound.
func WithUntil(p Predicate, until *expr.CompiledExpr) Predicate {
	return Predicate{Tag: p.Tag, Cond: expr.And(p.Cond, expr.Negate(until))}
}
