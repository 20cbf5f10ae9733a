package compress

import (
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/minimig/mistboot/pkg/codec"
)

func init() {
	codec.Register(NewBzip2Codec())
}

// Bzip2Codec implements BZIP2 compression
type Bzip2Codec struct {
	codec.BaseCodec
}

// NewBzip2Codec creates a new BZIP2 codec
func NewBzip2Codec() *Bzip2Codec {
	return &Bzip2Codec{
		BaseCodec: codec.BaseCodec{
			OpID:   codec.OP_BZIP2,
			OpName: "BZIP2",
			OpExt:  ".bz2",
		},
	}
}

// Wrap implements codec.Codec
func (c *Bzip2Codec) Wrap(w io.Writer) (io.WriteCloser, error) {
	bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: 9})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 writer: %w", err)
	}
	return bw, nil
}

// Unwrap implements codec.Codec
func (c *Bzip2Codec) Unwrap(r io.Reader) (io.ReadCloser, error) {
	br, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 reader: %w", err)
	}
	return br, nil
}
