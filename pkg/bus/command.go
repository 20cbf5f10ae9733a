package bus

import (
	"encoding/binary"
	"fmt"
)

// Command is a decoded frame
type Command struct {
	Op      byte
	Address uint32    // OpWriteMemory
	Payload []byte    // OpWriteMemory
	Reset   ResetBits // OpReset
}

func (c Command) String() string {
	switch c.Op {
	case OpWriteMemory:
		return fmt.Sprintf("WRITE-MEMORY addr=0x%06X len=%d", c.Address, len(c.Payload))
	case OpReset:
		return fmt.Sprintf("RESET-CONTROL 0x%02X (%s)", uint8(c.Reset), c.Reset)
	default:
		return fmt.Sprintf("UNKNOWN op=0x%02X", c.Op)
	}
}

// DecodeFrame parses one frame's bytes
func DecodeFrame(frame []byte) (Command, error) {
	if len(frame) == 0 {
		return Command{}, fmt.Errorf("empty frame")
	}

	c := Command{Op: frame[0]}
	switch c.Op {
	case OpWriteMemory:
		if len(frame) < 5 {
			return Command{}, fmt.Errorf("write-memory frame too short: %d bytes", len(frame))
		}
		c.Address = binary.LittleEndian.Uint32(frame[1:5])
		c.Payload = frame[5:]
	case OpReset:
		if len(frame) != 2 {
			return Command{}, fmt.Errorf("reset frame must be 2 bytes, got %d", len(frame))
		}
		c.Reset = ResetBits(frame[1])
	default:
		return Command{}, fmt.Errorf("unknown opcode 0x%02X", c.Op)
	}
	return c, nil
}
