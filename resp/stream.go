package resp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Stream is the wire buffer of one connection. Bytes arrive in arbitrary
// chunks through Feed or Fill and leave as whole frames through Next.
// A Stream is not safe for concurrent use.
type Stream struct {
	buf     bytes.Buffer
	scratch [ProtoIOLen]byte
}

func NewStream() *Stream {
	return &Stream{}
}

// Feed appends p to the pending bytes.
func (s *Stream) Feed(p []byte) {
	s.buf.Write(p)
}

// Fill performs one read of at most ProtoIOLen bytes from r and appends
// whatever was read, even when the read also returned an error.
func (s *Stream) Fill(r io.Reader) (int, error) {
	n, err := r.Read(s.scratch[:])
	if n > 0 {
		s.buf.Write(s.scratch[:n])
	}
	return n, err
}

// Next attempts to decode one frame. It returns (nil, false, nil) when more
// bytes are needed, and (f, true, nil) after consuming exactly the bytes of f.
// Any error means the pending bytes can never form a valid frame.
func (s *Stream) Next() (Frame, bool, error) {
	f, err := Decode(&s.buf)
	if errors.Is(err, ErrNotComplete) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

// Buffered returns the number of bytes waiting to be decoded.
func (s *Stream) Buffered() int {
	return s.buf.Len()
}

// Reset drops every pending byte, including a partially received frame.
func (s *Stream) Reset() {
	s.buf.Reset()
}

// Writer encodes frames onto a buffered transport in the order they are
// written. Nothing reaches the transport until Flush.
type Writer struct {
	w       *bufio.Writer
	scratch []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, ProtoIOLen)}
}

func (w *Writer) WriteFrame(f Frame) error {
	w.scratch = f.AppendTo(w.scratch[:0])
	_, err := w.w.Write(w.scratch)
	return err
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Buffered returns the number of encoded bytes not yet flushed.
func (w *Writer) Buffered() int {
	return w.w.Buffered()
}
