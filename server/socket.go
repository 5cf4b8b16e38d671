package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"fastcat.org/go/muxd/api"
	"fastcat.org/go/muxd/config"
	"fastcat.org/go/muxd/lib/sys"
)

var (
	socketMu   sync.Mutex
	socketPath string
)

// SocketPath is the filesystem path of the socket the server actually
// listens on. Empty until Listen succeeds. Differs from the default when
// the socket was adopted from the service manager.
func SocketPath() string {
	socketMu.Lock()
	defer socketMu.Unlock()
	return socketPath
}

func setSocketPath(p string) {
	socketMu.Lock()
	defer socketMu.Unlock()
	socketPath = p
}

// Listen acquires the server's listening socket, adopting one handed
// down by the service manager when socket activation is in effect, and
// creating one at the default path otherwise.
func Listen() (*net.UnixListener, error) {
	l, path, err := sys.ListenSocket(CreateSocket)
	if err != nil {
		return nil, err
	}
	setSocketPath(path)
	return l, nil
}

// CreateSocket makes the control socket at the default (or configured)
// location. It is also the fallback [sys.ListenSocket] uses when no
// socket was inherited.
func CreateSocket() (*net.UnixListener, string, error) {
	return createSocketAt(defaultSocketPath())
}

func createSocketAt(path string) (*net.UnixListener, string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", fmt.Errorf("cannot create socket directory %q: %w", dir, err)
	}
	// the directory must be ours and private, it gates socket access
	st, err := os.Stat(dir)
	if err != nil {
		return nil, "", err
	}
	if st.Mode().Perm() != 0o700 {
		if err := os.Chmod(dir, 0o700); err != nil {
			return nil, "", fmt.Errorf("cannot restrict socket directory %q: %w", dir, err)
		}
	}
	// TODO: check if the socket is live before removing it
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, "", err
	}
	l, err := net.ListenUnix("unix", &net.UnixAddr{Net: "unix", Name: path})
	if err != nil {
		return nil, "", err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		l.Close() //nolint:errcheck
		return nil, "", err
	}
	return l, path, nil
}

func defaultSocketPath() string {
	if dir := config.SocketDir(); dir != "" {
		return filepath.Join(dir, "default")
	}
	a, _ := api.ListenAddr().(*net.UnixAddr)
	return a.Name
}
