package bus

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/term"
)

// Bridge packet markers
const (
	StartOfPacket = 0x01
	EndOfPacket   = 0x17

	// packet overhead: SOP(1) + LEN(2) + CHECKSUM(2) + EOP(1)
	packetOverhead = 6
	maxPacketData  = 0xFFFF
)

// DefaultBaud is the bridge line speed
const DefaultBaud = 921600

// SerialTransport drives the FPGA command channel through a USB-serial
// bridge. Each frame goes out as one packet:
//
//	[SOP][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//
// The bridge asserts the channel enable for the duration of DATA.
type SerialTransport struct {
	port io.WriteCloser
	cur  []byte
	open bool
}

// OpenSerial opens the bridge device in raw mode at baud
func OpenSerial(device string, baud int) (*SerialTransport, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := term.Open(device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return NewSerialTransport(port), nil
}

// NewSerialTransport wraps an already open port
func NewSerialTransport(port io.WriteCloser) *SerialTransport {
	return &SerialTransport{port: port, cur: make([]byte, 0, 520)}
}

// BeginFrame implements Transport
func (s *SerialTransport) BeginFrame() error {
	if s.open {
		return ErrFrameOpen
	}
	s.open = true
	s.cur = s.cur[:0]
	return nil
}

// WriteByte implements Transport
func (s *SerialTransport) WriteByte(c byte) error {
	if !s.open {
		return ErrNoFrame
	}
	if len(s.cur) >= maxPacketData {
		return fmt.Errorf("frame exceeds %d bytes", maxPacketData)
	}
	s.cur = append(s.cur, c)
	return nil
}

// EndFrame implements Transport
func (s *SerialTransport) EndFrame() error {
	if !s.open {
		return ErrNoFrame
	}
	s.open = false
	_, err := s.port.Write(EncodePacket(s.cur))
	return err
}

// Close releases the port
func (s *SerialTransport) Close() error {
	return s.port.Close()
}

// EncodePacket wraps frame data in a bridge packet
func EncodePacket(data []byte) []byte {
	pkt := make([]byte, 0, packetOverhead+len(data))
	pkt = append(pkt, StartOfPacket)
	pkt = binary.LittleEndian.AppendUint16(pkt, uint16(len(data)))
	pkt = append(pkt, data...)
	pkt = binary.LittleEndian.AppendUint16(pkt, packetChecksum(pkt[1:]))
	return append(pkt, EndOfPacket)
}

// DecodePacket validates a bridge packet and returns its data
func DecodePacket(pkt []byte) ([]byte, error) {
	if len(pkt) < packetOverhead {
		return nil, fmt.Errorf("packet too short: %d bytes", len(pkt))
	}
	if pkt[0] != StartOfPacket {
		return nil, fmt.Errorf("invalid start of packet: 0x%02X", pkt[0])
	}
	n := int(binary.LittleEndian.Uint16(pkt[1:3]))
	if len(pkt) != packetOverhead+n {
		return nil, fmt.Errorf("packet length %d does not match header length %d", len(pkt), n)
	}
	if pkt[len(pkt)-1] != EndOfPacket {
		return nil, fmt.Errorf("invalid end of packet: 0x%02X", pkt[len(pkt)-1])
	}
	want := binary.LittleEndian.Uint16(pkt[3+n : 5+n])
	if got := packetChecksum(pkt[1 : 3+n]); got != want {
		return nil, fmt.Errorf("packet checksum mismatch: expected 0x%04X, got 0x%04X", want, got)
	}
	return pkt[3 : 3+n], nil
}

// packetChecksum is the basic-sum checksum: sum all bytes, then 2's complement
func packetChecksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return 1 + (0xFFFF ^ sum)
}
