package keystore

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merrors "github.com/minimig/mistboot/pkg/errors"
)

func TestLoadKey(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		wantLen int
		wantErr error
	}{
		{
			name:  "absent",
			files: fstest.MapFS{},
		},
		{
			name:    "small",
			files:   fstest.MapFS{"ROM.KEY": {Data: make([]byte, 10)}},
			wantLen: 10,
		},
		{
			name:    "largest allowed",
			files:   fstest.MapFS{"ROM.KEY": {Data: make([]byte, Capacity-1)}},
			wantLen: Capacity - 1,
		},
		{
			name:    "at capacity",
			files:   fstest.MapFS{"ROM.KEY": {Data: make([]byte, Capacity)}},
			wantErr: merrors.ErrKeyTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := LoadKey(tt.files, "", nil)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, key)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, tt.wantLen)
		})
	}
}

func TestLoadKeyCustomName(t *testing.T) {
	files := fstest.MapFS{"OTHER.KEY": {Data: []byte{1, 2, 3}}}
	key, err := LoadKey(files, "OTHER.KEY", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, key)
}
