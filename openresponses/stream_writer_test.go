package openresponses

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFrames(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	var frames []string
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			frames = append(frames, strings.TrimPrefix(line, "data: "))
		}
	}
	return frames
}

func TestStreamWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf, nil)

	event := &OutputTextDeltaEvent{
		BaseStreamingEvent: BaseStreamingEvent{Type: "response.output_text.delta", SequenceNumber: w.NextSequence()},
		ItemID:             "msg_1",
		Delta:              "chunk",
	}
	require.NoError(t, w.WriteEvent(event))
	require.NoError(t, w.WriteDone())

	frames := readFrames(t, &buf)
	require.Len(t, frames, 2)
	assert.Equal(t, "[DONE]", frames[1])

	decoded, err := DecodeEvent([]byte(frames[0]))
	require.NoError(t, err)
	delta, ok := decoded.(*OutputTextDeltaEvent)
	require.True(t, ok)
	assert.Equal(t, "chunk", delta.Delta)
	assert.Equal(t, int64(1), delta.GetSequenceNumber())
}

func TestStreamWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf, nil)

	require.NoError(t, w.WriteError(NewError("server_error", "internal", "boom", "")))

	frames := readFrames(t, &buf)
	require.Len(t, frames, 2)
	assert.Equal(t, "[DONE]", frames[1])

	decoded, err := DecodeEvent([]byte(frames[0]))
	require.NoError(t, err)
	errEv, ok := decoded.(*ErrorEvent)
	require.True(t, ok)
	assert.Equal(t, "boom", errEv.Error.Message)
}
