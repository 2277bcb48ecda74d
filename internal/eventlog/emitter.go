package eventlog

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Sink is a destination for structured events. Write must never propagate a
// failure into the emitting operation's outcome.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Emitter fans events out to its sinks. Sinks are independent failure
// domains: an error from one does not stop delivery to the others.
type Emitter struct {
	name  string
	sinks []Sink
}

// New constructs an Emitter identified by name, delivering to the given
// sinks in order.
func New(name string, sinks ...Sink) *Emitter {
	return &Emitter{name: name, sinks: sinks}
}

// Emit builds an event with the fixed envelope and delivers it to every
// sink. Caller fields colliding with envelope keys are dropped.
func (e *Emitter) Emit(level zerolog.Level, message string, fields map[string]any) {
	event := Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Message: message,
		Logger:  e.name,
		Fields:  sanitizeFields(fields),
	}
	for _, sink := range e.sinks {
		_ = sink.Write(context.Background(), event)
	}
}

// Close releases sinks that hold resources, draining any queued remote
// deliveries.
func (e *Emitter) Close() {
	for _, sink := range e.sinks {
		if closer, ok := sink.(io.Closer); ok {
			_ = closer.Close()
		}
	}
}
