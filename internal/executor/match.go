package executor

import (
	"sort"
	"strings"

	"github.com/patseq/reflinkcep/internal/event"
)

// Match maps an output-name to the ordered events bound to it.
type Match map[string]event.EventStream

// String renders the canonical textual form used by the test suite,
// "p1: ev, ev; p2: ev". varOrder controls the
// pattern-variable print order; when nil, output-names are sorted for a
// deterministic result. schema maps event type to its attribute print
// order (passed through to event.Event.String).
func (m Match) String(varOrder []string, schema map[string][]string) string {
	order := varOrder
	if order == nil {
		order = make([]string, 0, len(m))
		for name := range m {
			order = append(order, name)
		}
		sort.Strings(order)
	}

	var parts []string
	for _, name := range order {
		events, ok := m[name]
		if !ok {
			continue
		}
		var evStrs []string
		for _, ev := range events {
			evStrs = append(evStrs, ev.String(schema[ev.Type]))
		}
		parts = append(parts, name+": "+strings.Join(evStrs, ", "))
	}
	return strings.Join(parts, "; ")
}
