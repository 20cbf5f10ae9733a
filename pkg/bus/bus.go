// Package bus is the framed command channel to the FPGA core.
//
// Every command is one frame: the transport is enabled, an opcode and its
// arguments are clocked out byte by byte, and the transport is disabled.
// A frame is exclusive for its whole duration.
package bus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Command opcodes
const (
	OpReset       = 0x08
	OpWriteMemory = 0x1C
)

// ResetBits is the RESET-CONTROL status byte. The bits are independent; a
// command always carries the full desired byte.
type ResetBits uint8

const (
	ResetUser ResetBits = 0x01
	ResetCPU  ResetBits = 0x02
	HaltCPU   ResetBits = 0x04
)

func (r ResetBits) String() string {
	if r == 0 {
		return "none"
	}
	s := ""
	for _, b := range []struct {
		bit  ResetBits
		name string
	}{{ResetUser, "user"}, {ResetCPU, "cpu"}, {HaltCPU, "halt"}} {
		if r&b.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += b.name
		}
	}
	if rest := r &^ (ResetUser | ResetCPU | HaltCPU); rest != 0 {
		if s != "" {
			s += "|"
		}
		s += fmt.Sprintf("0x%02x", uint8(rest))
	}
	return s
}

var (
	// ErrFrameOpen is returned when a frame is begun while another is open
	ErrFrameOpen = errors.New("bus frame already open")

	// ErrNoFrame is returned when bytes are written outside a frame
	ErrNoFrame = errors.New("no bus frame open")
)

// Transport is the physical channel
type Transport interface {
	BeginFrame() error
	io.ByteWriter
	EndFrame() error
}

// Bus issues typed commands over a transport
type Bus struct {
	t      Transport
	frames int
}

// New creates a Bus on top of t
func New(t Transport) *Bus {
	if t == nil {
		panic("transport cannot be nil")
	}
	return &Bus{t: t}
}

// Frames returns the number of frames issued so far
func (b *Bus) Frames() int {
	return b.frames
}

// Frame runs fn inside one frame. The frame is closed on every path, also
// when fn fails, so an aborted command never leaves the transport enabled.
func (b *Bus) Frame(fn func(w io.ByteWriter) error) (err error) {
	if err := b.t.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	b.frames++
	defer func() {
		if endErr := b.t.EndFrame(); endErr != nil && err == nil {
			err = fmt.Errorf("end frame: %w", endErr)
		}
	}()
	return fn(b.t)
}

// WriteMemory writes payload to the target starting at addr
func (b *Bus) WriteMemory(addr uint32, payload []byte) error {
	return b.Frame(func(w io.ByteWriter) error {
		if err := writeCommand32(w, OpWriteMemory, addr); err != nil {
			return err
		}
		return writeBytes(w, payload)
	})
}

// ResetControl writes the reset status byte
func (b *Bus) ResetControl(bits ResetBits) error {
	return b.Frame(func(w io.ByteWriter) error {
		if err := w.WriteByte(OpReset); err != nil {
			return err
		}
		return w.WriteByte(uint8(bits))
	})
}

// writeCommand32 writes an opcode followed by a 32-bit little-endian argument
func writeCommand32(w io.ByteWriter, op byte, arg uint32) error {
	var buf [5]byte
	buf[0] = op
	binary.LittleEndian.PutUint32(buf[1:], arg)
	return writeBytes(w, buf[:])
}

func writeBytes(w io.ByteWriter, data []byte) error {
	for _, c := range data {
		if err := w.WriteByte(c); err != nil {
			return err
		}
	}
	return nil
}
