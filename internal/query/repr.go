package query

import (
	"fmt"
	"strings"
)

// contiguityRepr mirrors the Python original's CONTIGUITY_REPR_MAP: a
// short punctuation form used by Repr for combine/loop nodes.
var contiguityRepr = map[Contiguity]string{
	ContiguityStrict:    "·",
	ContiguityRelaxed:   "~",
	ContiguityNDRelaxed: "~~",
}

func reprContiguity(c Contiguity) string {
	if s, ok := contiguityRepr[c]; ok {
		return s
	}
	return string(c)
}

// Repr pretty-prints a PatternNode, grounded on the Python original's
// ast_repr() switch-on-discriminator printer (here a Go type switch over
// the sealed PatternNode instead of a dict-type dispatch).
func Repr(n PatternNode) string {
	switch p := n.(type) {
	case Spat:
		return fmt.Sprintf("%s : %s : [%s]", p.Name, p.Event, p.Cndt)

	case Lpat:
		return fmt.Sprintf("%s : %s : [%s] {%d..%d %s}", p.Name, p.Event, p.Cndt, p.From, p.To, reprContiguity(p.Contiguity))

	case LpatInf:
		until := ""
		if p.Until != "" {
			until = fmt.Sprintf(" until [%s]", p.Until)
		}
		return fmt.Sprintf("%s : %s : [%s] {%d..∞ %s}%s", p.Name, p.Event, p.Cndt, p.From, reprContiguity(p.Contiguity), until)

	case Combine:
		return fmt.Sprintf("(%s) %s (%s)", Repr(p.Left), reprContiguity(p.Contiguity), Repr(p.Right))

	case Gpat:
		return fmt.Sprintf("{%s}", Repr(p.Child))

	case GpatTimes:
		return fmt.Sprintf("{%s} x{%d..%d}", Repr(p.Child), p.From, p.To)

	case GpatInf:
		until := ""
		if p.Until != "" {
			until = fmt.Sprintf(" until [%s]", p.Until)
		}
		return fmt.Sprintf("{%s} x{%d..∞}%s", Repr(p.Child), p.From, until)
	}
	return "<unknown pattern node>"
}

// String implements fmt.Stringer for Query via its pattern tree.
func (q Query) String() string {
	var b strings.Builder
	b.WriteString(Repr(q.Patseq))
	return b.String()
}
