//go:build linux

package sys

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivated(t *testing.T) {
	tests := []struct {
		name string
		pid  string
		fds  string
		want bool
	}{
		{name: "not under systemd"},
		{name: "activated", pid: strconv.Itoa(os.Getpid()), fds: "1", want: true},
		{name: "several sockets", pid: strconv.Itoa(os.Getpid()), fds: "2", want: true},
		{name: "wrong pid", pid: "1", fds: "1"},
		{name: "zero fds", pid: strconv.Itoa(os.Getpid()), fds: "0"},
		{name: "garbage pid", pid: "nope", fds: "1"},
		{name: "garbage fds", pid: strconv.Itoa(os.Getpid()), fds: "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LISTEN_PID", tt.pid)
			t.Setenv("LISTEN_FDS", tt.fds)
			assert.Equal(t, tt.want, Activated())
		})
	}
}

// listenerFile makes a bound, listening unix stream socket and returns a
// dup'd descriptor for it plus its path, as systemd would hand it down.
func listenerFile(t *testing.T) (*os.File, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "default")
	l, err := net.ListenUnix("unix", &net.UnixAddr{Net: "unix", Name: path})
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	f, err := l.File()
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f, path
}

func TestAdoptSocket(t *testing.T) {
	fallbackErr := fmt.Errorf("fallback was called")
	fallback := func() (*net.UnixListener, string, error) {
		return nil, "", fallbackErr
	}

	t.Run("no inherited fds delegates", func(t *testing.T) {
		l, path, err := adoptSocket(nil, fallback)
		assert.Nil(t, l)
		assert.Empty(t, path)
		assert.Same(t, fallbackErr, err)
	})

	t.Run("too many fds", func(t *testing.T) {
		f1, _ := listenerFile(t)
		f2, _ := listenerFile(t)
		l, path, err := adoptSocket([]*os.File{f1, f2}, fallback)
		assert.Nil(t, l)
		assert.Empty(t, path)
		assert.ErrorIs(t, err, ErrTooManySockets)
	})

	t.Run("adopts listening unix stream socket", func(t *testing.T) {
		f, bound := listenerFile(t)
		l, path, err := adoptSocket([]*os.File{f}, fallback)
		require.NoError(t, err)
		require.NotNil(t, l)
		t.Cleanup(func() { l.Close() })
		assert.Equal(t, bound, path)
		assert.Equal(t, bound, l.Addr().(*net.UnixAddr).Name)
	})

	t.Run("rejects datagram socket", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dgram")
		c, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Net: "unixgram", Name: path})
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() })
		f, err := c.File()
		require.NoError(t, err)
		t.Cleanup(func() { f.Close() })

		l, _, err := adoptSocket([]*os.File{f}, fallback)
		assert.Nil(t, l)
		assert.ErrorIs(t, err, ErrWrongSocketKind)
	})

	t.Run("rejects connected stream socket", func(t *testing.T) {
		f, bound := listenerFile(t)
		_ = f // keep the listener alive, we adopt the client end
		conn, err := net.Dial("unix", bound)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		cf, err := conn.(*net.UnixConn).File()
		require.NoError(t, err)
		t.Cleanup(func() { cf.Close() })

		l, _, err := adoptSocket([]*os.File{cf}, fallback)
		assert.Nil(t, l)
		assert.ErrorIs(t, err, ErrWrongSocketKind)
	})

	t.Run("rejects a plain file", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "not-a-socket")
		require.NoError(t, err)
		t.Cleanup(func() { f.Close() })

		l, _, err := adoptSocket([]*os.File{f}, fallback)
		assert.Nil(t, l)
		assert.ErrorIs(t, err, ErrWrongSocketKind)
	})
}
