package bus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// TraceMagic starts every trace stream
var TraceMagic = []byte("MBTRACE1")

// maxTraceFrame bounds a frame read back from a trace
const maxTraceFrame = 1 << 20

// TraceTransport records frames to a stream: each frame is written as a
// little-endian uint32 length followed by the frame bytes.
type TraceTransport struct {
	w    io.Writer
	cur  []byte
	open bool
}

// NewTraceTransport writes the trace header and returns the transport
func NewTraceTransport(w io.Writer) (*TraceTransport, error) {
	if _, err := w.Write(TraceMagic); err != nil {
		return nil, fmt.Errorf("write trace header: %w", err)
	}
	return &TraceTransport{w: w}, nil
}

// BeginFrame implements Transport
func (t *TraceTransport) BeginFrame() error {
	if t.open {
		return ErrFrameOpen
	}
	t.open = true
	t.cur = t.cur[:0]
	return nil
}

// WriteByte implements Transport
func (t *TraceTransport) WriteByte(c byte) error {
	if !t.open {
		return ErrNoFrame
	}
	t.cur = append(t.cur, c)
	return nil
}

// EndFrame implements Transport
func (t *TraceTransport) EndFrame() error {
	if !t.open {
		return ErrNoFrame
	}
	t.open = false

	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(t.cur)))
	if _, err := t.w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := t.w.Write(t.cur)
	return err
}

// ReadTrace calls fn for every frame in a trace stream
func ReadTrace(r io.Reader, fn func(frame []byte) error) error {
	magic := make([]byte, len(TraceMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return fmt.Errorf("read trace header: %w", err)
	}
	if !bytes.Equal(magic, TraceMagic) {
		return fmt.Errorf("not a bus trace: header %q", magic)
	}

	var hdr [4]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read frame length: %w", err)
		}
		n := binary.LittleEndian.Uint32(hdr[:])
		if n > maxTraceFrame {
			return fmt.Errorf("frame length %d exceeds limit", n)
		}
		frame := make([]byte, n)
		if _, err := io.ReadFull(r, frame); err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}
