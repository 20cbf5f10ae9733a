package rom

import (
	"errors"
	"fmt"
	"io"

	"github.com/minimig/mistboot/pkg/bus"
	merrors "github.com/minimig/mistboot/pkg/errors"
	"github.com/minimig/mistboot/pkg/keystream"
)

// Progress is reported every ProgressInterval chunks
type Progress struct {
	Pass        int
	Address     uint32
	Chunk       uint32
	TotalChunks uint32
}

// ProgressCallback receives transfer progress
type ProgressCallback func(p Progress)

// ShortReadError reports a chunk the image could not fill
type ShortReadError struct {
	Pass  int
	Chunk uint32
	Got   int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("%v: pass %d chunk %d got %d of %d bytes",
		merrors.ErrTransferReadShortfall, e.Pass, e.Chunk, e.Got, ChunkSize)
}

func (e *ShortReadError) Unwrap() error {
	return merrors.ErrTransferReadShortfall
}

// Transfer streams one pass of src to the bus. A keyed pass skips the image
// header and decrypts with a keystream starting at the beginning of key.
// The transfer stops at the first failed chunk.
func Transfer(b *bus.Bus, src io.Reader, entry PlanEntry, key []byte, progress ProgressCallback) error {
	ks := keystream.New(nil)
	if entry.Keyed {
		if len(key) == 0 {
			return fmt.Errorf("pass %d is keyed but no key is loaded", entry.Pass)
		}
		ks = keystream.New(key)

		var header [HeaderSize]byte
		if _, err := io.ReadFull(src, header[:]); err != nil {
			return fmt.Errorf("skip image header: %w", err)
		}
	}

	buf := make([]byte, ChunkSize)
	for i := uint32(0); i < entry.Chunks; i++ {
		n, err := io.ReadFull(src, buf)
		if err != nil {
			last := i == entry.Chunks-1
			short := errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
			if !(entry.PadFinal && last && short && n > 0) {
				if short {
					return &ShortReadError{Pass: entry.Pass, Chunk: i, Got: n}
				}
				return fmt.Errorf("read chunk %d: %w", i, err)
			}
			clear(buf[n:])
		}

		ks.XOR(buf)

		addr := entry.Address + i*ChunkSize
		if err := b.WriteMemory(addr, buf); err != nil {
			return fmt.Errorf("write chunk %d at 0x%06X: %w", i, addr, err)
		}

		if progress != nil && (i+1)%ProgressInterval == 0 {
			progress(Progress{
				Pass:        entry.Pass,
				Address:     addr,
				Chunk:       i + 1,
				TotalChunks: entry.Chunks,
			})
		}
	}
	return nil
}
