package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/codec"
)

func TestCodecsRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("kickstart "), 500)

	for _, name := range []string{"raw", "gzip", "bzip2"} {
		t.Run(name, func(t *testing.T) {
			c, err := codec.ByName(name)
			require.NoError(t, err)

			enc, err := codec.Encode(c, data)
			require.NoError(t, err)
			if name != "raw" {
				assert.Less(t, len(enc), len(data))
			}

			dec, err := codec.Decode(c, enc)
			require.NoError(t, err)
			assert.Equal(t, data, dec)
		})
	}
}

func TestCompressedTrace(t *testing.T) {
	c := codec.ForPath("boot.trace.bz2")
	require.Equal(t, uint8(codec.OP_BZIP2), c.ID())

	var file bytes.Buffer
	w, err := c.Wrap(&file)
	require.NoError(t, err)

	tr, err := bus.NewTraceTransport(w)
	require.NoError(t, err)
	b := bus.New(tr)
	for i := 0; i < 16; i++ {
		require.NoError(t, b.WriteMemory(0xF80000+uint32(i)*512, make([]byte, 512)))
	}
	require.NoError(t, w.Close())

	r, err := c.Unwrap(&file)
	require.NoError(t, err)
	defer r.Close()

	frames := 0
	require.NoError(t, bus.ReadTrace(r, func(frame []byte) error {
		frames++
		return nil
	}))
	assert.Equal(t, 16, frames)
}

func TestForPathDefaultsToRaw(t *testing.T) {
	assert.Equal(t, "RAW", codec.ForPath("boot.trace").Name())
	assert.Equal(t, "GZIP", codec.ForPath("BOOT.TRACE.GZ").Name())
}

func TestUnknownCodec(t *testing.T) {
	_, err := codec.ByName("zstd")
	assert.Error(t, err)
	_, err = codec.Get(0x7F)
	assert.Error(t, err)
}
