package client

import (
	"bufio"
	"bytes"
	"io"
)

const (
	ssePrefix = "data: "
	sseDone   = "[DONE]"
)

// sseFrame is a single server-sent data payload.
type sseFrame struct {
	data []byte
	done bool
}

// sseReader reads "data:" frames from an event stream body. Comment lines
// and fields other than data are skipped.
type sseReader struct {
	r *bufio.Reader
}

func newSSEReader(body io.Reader) *sseReader {
	return &sseReader{r: bufio.NewReader(body)}
}

// Next returns the next data frame, a frame with done set for the [DONE]
// sentinel, or the underlying read error (io.EOF at normal end of body).
func (s *sseReader) Next() (sseFrame, error) {
	for {
		line, err := s.r.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			return sseFrame{}, err
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			if err != nil {
				return sseFrame{}, err
			}
			continue
		}

		// Comment lines start with a colon
		if line[0] == ':' {
			if err != nil {
				return sseFrame{}, err
			}
			continue
		}

		data, ok := extractSSEData(line)
		if !ok {
			// Ignore non-data fields (event:, id:, retry:)
			if err != nil {
				return sseFrame{}, err
			}
			continue
		}

		if string(bytes.TrimSpace(data)) == sseDone {
			return sseFrame{done: true}, nil
		}
		return sseFrame{data: data}, nil
	}
}

// extractSSEData strips the data field prefix from an SSE line.
func extractSSEData(line []byte) ([]byte, bool) {
	if bytes.HasPrefix(line, []byte(ssePrefix)) {
		return line[len(ssePrefix):], true
	}
	// "data:" with no space after the colon is also valid
	if bytes.HasPrefix(line, []byte("data:")) {
		return line[len("data:"):], true
	}
	return nil, false
}
