// Package keystream implements the repeating-key XOR stream used for
// encrypted kickstart images.
package keystream

// Stream XORs data with a repeating key. The key position carries over from
// one XOR call to the next, so a transfer split into chunks decrypts the
// same as one contiguous buffer.
type Stream struct {
	key []byte
	idx int
}

// New creates a stream positioned at the start of key. A nil or empty key
// gives a stream that leaves data untouched.
func New(key []byte) *Stream {
	return &Stream{key: key}
}

// Keyed reports whether the stream transforms data
func (s *Stream) Keyed() bool {
	return s != nil && len(s.key) > 0
}

// Index returns the key position the next byte will use
func (s *Stream) Index() int {
	return s.idx
}

// Reset moves back to the start of the key
func (s *Stream) Reset() {
	s.idx = 0
}

// XOR transforms buf in place
func (s *Stream) XOR(buf []byte) {
	if !s.Keyed() {
		return
	}
	size := len(s.key)
	for i := range buf {
		buf[i] ^= s.key[s.idx]
		s.idx++
		// one step past the end at most, so a single subtraction wraps
		if s.idx >= size {
			s.idx -= size
		}
	}
}

// XOREncode returns data XORed with the repeating key, starting at the
// beginning of the key
func XOREncode(data []byte, key []byte) []byte {
	result := make([]byte, len(data))
	copy(result, data)
	New(key).XOR(result)
	return result
}

// XORDecode decodes data with the repeating key (XOR is symmetric)
func XORDecode(data []byte, key []byte) []byte {
	return XOREncode(data, key)
}
