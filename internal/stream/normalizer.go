// Package stream normalizes backend-specific streamed response bodies
// into a canonical byte stream of decoded text content.
package stream

import (
	"bufio"
	"bytes"
	"io"
)

// FrameDecoder decodes one upstream frame (a single line, surrounding
// whitespace already trimmed) into text content. done reports a
// stream-terminating sentinel; once observed, no further frames are
// read. Malformed frames decode to ("", false) and are skipped without
// aborting the stream.
type FrameDecoder func(line []byte) (text string, done bool)

// Normalizer wraps a raw upstream body and emits only decoded text
// content, in arrival order, discarding framing and control data. It
// holds at most one upstream frame at a time.
type Normalizer struct {
	reader *bufio.Reader
	body   io.ReadCloser
	decode FrameDecoder
	buffer []byte
	closed bool
}

// NewNormalizer creates a Normalizer over body using decode for each frame.
func NewNormalizer(body io.ReadCloser, decode FrameDecoder) *Normalizer {
	return &Normalizer{
		reader: bufio.NewReader(body),
		body:   body,
		decode: decode,
	}
}

// Read implements io.Reader.
func (n *Normalizer) Read(p []byte) (int, error) {
	// Drain content left over from a previous short read first.
	if len(n.buffer) > 0 {
		written := copy(p, n.buffer)
		n.buffer = n.buffer[written:]
		return written, nil
	}

	if n.closed {
		return 0, io.EOF
	}

	for {
		line, err := n.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				// A trailing frame without a newline still counts.
				if text := n.decodeLine(line); text != "" {
					n.finish()
					return n.emit(p, text)
				}
				n.finish()
				return 0, io.EOF
			}
			n.finish()
			return 0, err
		}

		text := n.decodeLine(line)
		if n.closed {
			// Sentinel observed: stop at it, not after.
			if text != "" {
				return n.emit(p, text)
			}
			return 0, io.EOF
		}
		if text == "" {
			continue
		}
		return n.emit(p, text)
	}
}

// decodeLine trims one raw line and runs the frame decoder. Sets the
// closed flag (and closes the upstream body) when the decoder reports
// the terminating sentinel.
func (n *Normalizer) decodeLine(line []byte) string {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return ""
	}
	text, done := n.decode(line)
	if done {
		n.finish()
	}
	return text
}

// emit copies text into p, buffering any overflow for the next Read.
func (n *Normalizer) emit(p []byte, text string) (int, error) {
	written := copy(p, text)
	if written < len(text) {
		n.buffer = append(n.buffer, text[written:]...)
	}
	return written, nil
}

// finish marks the stream terminated and releases the upstream body.
func (n *Normalizer) finish() {
	if n.closed {
		return
	}
	n.closed = true
	_ = n.body.Close() //nolint:errcheck
}

// Close closes the underlying upstream body.
func (n *Normalizer) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	return n.body.Close()
}
