package client

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	responses "github.com/deeplooplabs/responses-go"
	"github.com/deeplooplabs/responses-go/hook"
	"github.com/deeplooplabs/responses-go/openresponses"
)

// Stream delivers decoded streaming events from a response stream.
// Events is closed when the stream ends, either at the [DONE] sentinel or
// after a terminal error is delivered on Errors.
type Stream struct {
	// Events receives decoded events in arrival order
	Events <-chan openresponses.StreamingEvent

	// Errors receives at most one terminal stream error
	Errors <-chan error

	closeOnce sync.Once
	closeFn   func()
}

// Close releases the underlying connection. Safe to call multiple times
// and concurrently with channel reads.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		if s.closeFn != nil {
			s.closeFn()
		}
	})
}

// newStream starts the decode goroutine over an open SSE response body.
// metrics may be nil.
func newStream(ctx context.Context, body io.ReadCloser, logger zerolog.Logger, hooks *hook.Registry, metrics *Metrics) *Stream {
	events := make(chan openresponses.StreamingEvent)
	errs := make(chan error, 1)

	s := &Stream{
		Events:  events,
		Errors:  errs,
		closeFn: func() { body.Close() },
	}

	go func() {
		defer close(events)
		defer close(errs)
		defer s.Close()

		reader := newSSEReader(body)
		for {
			frame, err := reader.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					// Body ended without [DONE]. Treat as a transport
					// failure so the caller knows the turn may be partial.
					errs <- responses.NewTransportError("stream ended before [DONE] sentinel", err)
				} else if ctx.Err() != nil {
					errs <- responses.NewTransportError("stream cancelled", ctx.Err())
				} else {
					errs <- responses.NewTransportError("stream read failed", err)
				}
				return
			}
			if frame.done {
				return
			}

			event, err := openresponses.DecodeEvent(frame.data)
			if err != nil {
				// A malformed frame does not poison the stream
				logger.Warn().Err(err).Msg("dropping undecodable stream frame")
				if metrics != nil {
					metrics.DecodeDrops.Inc()
				}
				continue
			}
			if metrics != nil {
				metrics.EventsTotal.WithLabelValues(event.GetType()).Inc()
			}

			if hooks != nil {
				rewritten, hookErr := hooks.RunOnEvent(ctx, event)
				if hookErr != nil {
					logger.Warn().Err(hookErr).Str("event", event.GetType()).Msg("streaming hook failed")
				} else {
					event = rewritten
				}
			}

			select {
			case events <- event:
			case <-ctx.Done():
				errs <- responses.NewTransportError("stream cancelled", ctx.Err())
				return
			}
		}
	}()

	return s
}
