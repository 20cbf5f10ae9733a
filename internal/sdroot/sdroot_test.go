package sdroot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePriority(t *testing.T) {
	flagDir := t.TempDir()
	envDir := t.TempDir()

	t.Setenv(EnvRoot, envDir)

	root, err := Resolve(flagDir)
	require.NoError(t, err)
	assert.Equal(t, flagDir, root)

	root, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, envDir, root)

	t.Setenv(EnvRoot, "")
	cwd, err := os.Getwd()
	require.NoError(t, err)
	root, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, cwd, root)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, Validate(dir), "empty directory is a valid card")

	file := filepath.Join(dir, "KICK.ROM")
	require.NoError(t, os.WriteFile(file, []byte{0}, 0o644))
	assert.NoError(t, Validate(dir))
	assert.Error(t, Validate(file))
	assert.Error(t, Validate(filepath.Join(dir, "missing")))
}

func TestBootMarker(t *testing.T) {
	dir := t.TempDir()

	_, ok := LastBoot(dir)
	assert.False(t, ok)
	assert.False(t, IsCurrent(dir, "KICK.ROM", ""))

	require.NoError(t, MarkBooted(dir, "MINIMIG.CFG", "KICK.ROM", "abc"))

	marker, ok := LastBoot(dir)
	require.True(t, ok)
	assert.Equal(t, "MINIMIG.CFG", marker.Config)
	assert.Equal(t, "KICK.ROM", marker.Kickstart)
	assert.False(t, marker.Timestamp.IsZero())

	assert.True(t, IsCurrent(dir, "KICK.ROM", "abc"))
	assert.True(t, IsCurrent(dir, "KICK.ROM", ""))
	assert.False(t, IsCurrent(dir, "KICK.ROM", "def"))
	assert.False(t, IsCurrent(dir, "KICK13.ROM", "abc"))

	require.NoError(t, Clean(dir))
	require.NoError(t, Clean(dir))
	_, ok = LastBoot(dir)
	assert.False(t, ok)
}

func TestLastBootIgnoresGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerName), []byte("{"), 0o644))
	_, ok := LastBoot(dir)
	assert.False(t, ok)
}
