package compress

import (
	"compress/gzip"
	"fmt"
	"io"

	"github.com/minimig/mistboot/pkg/codec"
)

func init() {
	codec.Register(NewGzipCodec())
}

// GzipCodec implements GZIP compression
type GzipCodec struct {
	codec.BaseCodec
}

// NewGzipCodec creates a new GZIP codec
func NewGzipCodec() *GzipCodec {
	return &GzipCodec{
		BaseCodec: codec.BaseCodec{
			OpID:   codec.OP_GZIP,
			OpName: "GZIP",
			OpExt:  ".gz",
		},
	}
}

// Wrap implements codec.Codec
func (c *GzipCodec) Wrap(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

// Unwrap implements codec.Codec
func (c *GzipCodec) Unwrap(r io.Reader) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	return gr, nil
}
