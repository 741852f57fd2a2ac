package loader

import (
	"log/slog"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/patseq/reflinkcep/internal/event"
	"github.com/patseq/reflinkcep/internal/value"
)

type eventWire struct {
	Type  string             `yaml:"type"`
	ID    *int               `yaml:"id"`
	Attrs map[string]float64 `yaml:"attrs"`
}

// LoadEvents decodes data as an event-stream fixture: { events: [...] }.
// An explicit id is kept as-is; a missing one gets a 1-based sequential
// id. When generateIDs is set, a missing id additionally gets a UUIDv7
// correlation tag logged alongside the assigned sequential id, for
// tracing a fixture load through downstream logs, but the tag is never
// the Event.ID itself, since that field is an int, not a UUID.
func LoadEvents(data []byte, generateIDs bool) (event.EventStream, error) {
	var wire struct {
		Events []eventWire `yaml:"events"`
	}
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, loadErrorf(ErrCodeYAMLInvalid, "%v", err)
	}

	out := make(event.EventStream, len(wire.Events))
	for i, w := range wire.Events {
		if w.Type == "" {
			return nil, loadErrorf(ErrCodeDecodeFailed, "events[%d]: missing type", i)
		}

		id := i + 1
		if w.ID != nil {
			id = *w.ID
		} else if generateIDs {
			tag, err := uuid.NewV7()
			if err != nil {
				return nil, loadErrorf(ErrCodeDecodeFailed, "events[%d]: generating correlation id: %v", i, err)
			}
			slog.Debug("loader: assigned sequential id with correlation tag", "index", i, "id", id, "tag", tag.String())
		}

		attrs := make(map[string]value.Value, len(w.Attrs))
		for name, f := range w.Attrs {
			attrs[name] = value.Of(f)
		}
		out[i] = event.New(id, w.Type, attrs)
	}
	return out, nil
}
