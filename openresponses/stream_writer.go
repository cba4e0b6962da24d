package openresponses

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StreamWriter emits streaming events in SSE wire format. The client itself
// only reads streams; the writer exists for test servers and proxies that
// need to produce the same framing the API does.
type StreamWriter struct {
	writer   io.Writer
	flusher  http.Flusher
	sequence int64
}

// NewStreamWriter creates a new StreamWriter
func NewStreamWriter(w io.Writer, flusher http.Flusher) *StreamWriter {
	return &StreamWriter{
		writer:  w,
		flusher: flusher,
	}
}

// WriteEvent writes a single streaming event as a data: record
func (w *StreamWriter) WriteEvent(event StreamingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return w.WriteData(data)
}

// WriteData writes one raw JSON record in SSE framing
func (w *StreamWriter) WriteData(data []byte) error {
	if _, err := fmt.Fprintf(w.writer, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event data: %w", err)
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

// WriteDone writes the [DONE] sentinel that ends the stream
func (w *StreamWriter) WriteDone() error {
	if _, err := fmt.Fprint(w.writer, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("write done marker: %w", err)
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

// WriteError writes a server error event and terminates the stream
func (w *StreamWriter) WriteError(err *Error) error {
	event := &ErrorEvent{
		BaseStreamingEvent: BaseStreamingEvent{Type: "error", SequenceNumber: w.NextSequence()},
		Error:              err,
	}
	if writeErr := w.WriteEvent(event); writeErr != nil {
		return writeErr
	}
	return w.WriteDone()
}

// NextSequence returns the next sequence number
func (w *StreamWriter) NextSequence() int64 {
	w.sequence++
	return w.sequence
}
