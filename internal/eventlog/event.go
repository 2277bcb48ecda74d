// Package eventlog emits structured operational events to a synchronous
// local sink and a best-effort remote search index. Delivery to the remote
// sink is at-most-once: observability never becomes a reliability dependency
// of the operations it instruments.
package eventlog

import (
	"time"

	"github.com/rs/zerolog"
)

// Event is one structured log record: a fixed envelope plus open
// caller-supplied fields. Events are ephemeral; nothing in this service
// retains them past transmission.
type Event struct {
	Time    time.Time
	Level   zerolog.Level
	Message string
	Logger  string
	Fields  map[string]any
}

// reservedFields are envelope keys callers may not override.
var reservedFields = map[string]struct{}{
	"@timestamp": {},
	"time":       {},
	"timestamp":  {},
	"level":      {},
	"message":    {},
	"logger":     {},
}

// Document flattens the event into the JSON shape the remote search index
// accepts: envelope keys first, then the open fields.
func (e Event) Document() map[string]any {
	doc := make(map[string]any, len(e.Fields)+4)
	for key, value := range e.Fields {
		doc[key] = value
	}
	doc["@timestamp"] = e.Time.UTC().Format(time.RFC3339Nano)
	doc["level"] = e.Level.String()
	doc["message"] = e.Message
	doc["logger"] = e.Logger
	return doc
}

// sanitizeFields copies caller fields, dropping any key that collides with
// the envelope so callers cannot corrupt it.
func sanitizeFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	clean := make(map[string]any, len(fields))
	for key, value := range fields {
		if _, reserved := reservedFields[key]; reserved {
			continue
		}
		clean[key] = value
	}
	return clean
}
