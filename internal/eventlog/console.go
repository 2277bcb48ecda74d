package eventlog

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// ConsoleSink writes events synchronously as zerolog JSON lines. Writes are
// append-only and ordered with respect to the emitting goroutine.
type ConsoleSink struct {
	log zerolog.Logger
}

// NewConsoleSink builds a console sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{log: zerolog.New(w)}
}

// Write renders the event. It always reports success; a lost console line
// must not fail the calling operation.
func (s *ConsoleSink) Write(_ context.Context, event Event) error {
	s.log.WithLevel(event.Level).
		Time(zerolog.TimestampFieldName, event.Time).
		Str("logger", event.Logger).
		Fields(event.Fields).
		Msg(event.Message)
	return nil
}
