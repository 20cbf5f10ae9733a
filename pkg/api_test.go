package pkg

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimig/mistboot/internal/sdroot"
	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/config"
	merrors "github.com/minimig/mistboot/pkg/errors"
	"github.com/minimig/mistboot/pkg/keystore"
)

func writeCard(t *testing.T, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), data, 0o644))
	}
	return root
}

func TestBootCard(t *testing.T) {
	root := writeCard(t, map[string][]byte{
		"KICK.ROM": make([]byte, 0x40000),
	})
	rec := bus.NewRecorder()

	result, err := BootCard(root, BootOptions{Transport: rec})
	require.NoError(t, err)
	assert.True(t, result.Load.UsedDefault)
	assert.True(t, result.Report.Reloaded)
	assert.Equal(t, "KICK.ROM", result.State.Kickstart)
	assert.Equal(t, 1+1024+2, result.Frames)
	assert.Len(t, rec.Frames(), result.Frames)

	marker, ok := sdroot.LastBoot(root)
	require.True(t, ok)
	assert.Equal(t, "KICK.ROM", marker.Kickstart)
	assert.Equal(t, config.DefaultConfigName, marker.Config)

	report, err := VerifyCardWithLogger(root, 0, nil)
	require.NoError(t, err)
	assert.True(t, report.Current)
}

func TestBootCardFatal(t *testing.T) {
	root := writeCard(t, nil)

	result, err := BootCard(root, BootOptions{})
	require.Error(t, err)
	assert.True(t, merrors.IsFatal(err))
	require.NotNil(t, result)

	_, ok := sdroot.LastBoot(root)
	assert.False(t, ok)
}

func TestBootCardInvalidRoot(t *testing.T) {
	_, err := BootCard(filepath.Join(t.TempDir(), "missing"), BootOptions{})
	assert.ErrorIs(t, err, ErrCardInvalid)
}

func TestBootFSUsesSlot(t *testing.T) {
	cfg := config.Default()
	cfg.Kickstart = "KICK31.ROM"
	files := fstest.MapFS{
		"MINIMIG2.CFG": {Data: cfg.Pack()},
		"KICK31.ROM":   {Data: make([]byte, 0x80000)},
	}

	result, err := BootFS(files, BootOptions{Slot: 2})
	require.NoError(t, err)
	assert.False(t, result.Load.UsedDefault)
	assert.Equal(t, "KICK31.ROM", result.Report.Kickstart)
}

func TestVerifyFS(t *testing.T) {
	cfg := config.Default()
	cfg.Hardfile[0] = config.Hardfile{Enabled: true, LongName: "WB.HDF"}

	t.Run("healthy", func(t *testing.T) {
		report := VerifyFS(fstest.MapFS{
			"MINIMIG.CFG": {Data: cfg.Pack()},
			"KICK.ROM":    {Data: make([]byte, 0x80000)},
			"WB.HDF":      {Data: make([]byte, 1024)},
			"HRTMON.ROM":  {Data: make([]byte, 100)},
		}, 0, nil)

		assert.True(t, report.OK(), report.Problems)
		assert.False(t, report.Load.UsedDefault)
		assert.Equal(t, "KICK.ROM", report.Bootable().Name)
		assert.NotNil(t, report.Monitor)
		assert.Equal(t, [2]bool{true, true}, report.Hardfiles)
	})

	t.Run("problems", func(t *testing.T) {
		report := VerifyFS(fstest.MapFS{
			"MINIMIG.CFG":           {Data: cfg.Pack()},
			"KICK.ROM":              {Data: make([]byte, 0x8000B)},
			keystore.DefaultKeyFile: {Data: make([]byte, keystore.Capacity)},
		}, 0, nil)

		assert.False(t, report.OK())
		assert.False(t, report.KeyLoaded)
		assert.Nil(t, report.Bootable())
		assert.Len(t, report.Problems, 3)
	})

	t.Run("fallback", func(t *testing.T) {
		named := config.Default()
		named.Kickstart = "MISSING.ROM"
		report := VerifyFS(fstest.MapFS{
			"MINIMIG.CFG": {Data: named.Pack()},
			"KICK.ROM":    {Data: make([]byte, 0x40000)},
		}, 0, nil)

		assert.True(t, report.OK(), report.Problems)
		assert.Nil(t, report.Kickstart)
		assert.Equal(t, "KICK.ROM", report.Bootable().Name)
	})
}
