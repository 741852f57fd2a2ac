// Package event implements the typed event record the engine matches
// against: an externally assigned id, a type tag, and an attribute map.
package event

import (
	"fmt"
	"sort"
	"strings"

	"github.com/patseq/reflinkcep/internal/value"
)

// Event is an immutable, externally-identified record. Ordering across a
// stream is input order, not the ID, since the ID is externally assigned
// and need not be contiguous or monotonic.
type Event struct {
	ID    int
	Type  string
	Attrs map[string]value.Value
}

// New constructs an Event from a plain attribute map.
func New(id int, typ string, attrs map[string]value.Value) Event {
	return Event{ID: id, Type: typ, Attrs: attrs}
}

// EventStream is an ordered, finite sequence of events.
type EventStream []Event

// String renders the event in its canonical textual form,
// "type(id,attr1,attr2,...)", with attribute values printed in the order
// given by attrOrder. Attributes not present in attrOrder are appended in
// sorted-key order for stability, since map iteration order is not
// stable on its own.
func (e Event) String(attrOrder []string) string {
	var b strings.Builder
	b.WriteString(e.Type)
	b.WriteByte('(')
	fmt.Fprintf(&b, "%d", e.ID)

	seen := make(map[string]bool, len(attrOrder))
	for _, name := range attrOrder {
		v, ok := e.Attrs[name]
		if !ok {
			continue
		}
		seen[name] = true
		b.WriteByte(',')
		b.WriteString(v.String())
	}

	var rest []string
	for name := range e.Attrs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		b.WriteByte(',')
		b.WriteString(e.Attrs[name].String())
	}

	b.WriteByte(')')
	return b.String()
}
