package codec

import "io"

func init() {
	Register(&RawCodec{BaseCodec: BaseCodec{OpID: OP_NONE, OpName: "RAW"}})
}

// RawCodec passes data through unchanged
type RawCodec struct {
	BaseCodec
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Wrap implements Codec
func (c *RawCodec) Wrap(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

// Unwrap implements Codec
func (c *RawCodec) Unwrap(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
