package server

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_createSocketAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muxd", "default")

	l, p, err := createSocketAt(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	assert.Equal(t, path, p)

	st, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o700), st.Mode().Perm())

	st, err = os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, st.Mode()&fs.ModeSocket)
	assert.Equal(t, fs.FileMode(0o600), st.Mode().Perm())
}

func Test_createSocketAt_stale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muxd", "default")

	l, _, err := createSocketAt(path)
	require.NoError(t, err)
	// a crashed server leaves the socket file behind
	l.SetUnlinkOnClose(false)
	require.NoError(t, l.Close())
	_, err = os.Stat(path)
	require.NoError(t, err)

	l, _, err = createSocketAt(path)
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}

func Test_createSocketAt_opensDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "muxd")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	l, _, err := createSocketAt(filepath.Join(dir, "default"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	st, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o700), st.Mode().Perm())
}
