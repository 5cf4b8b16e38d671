//go:build linux

package sys

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/coreos/go-systemd/v22/activation"
	"golang.org/x/sys/unix"
)

var (
	// ErrTooManySockets means the service manager handed us more
	// descriptors than the one listening socket we know what to do with.
	// This is a unit configuration problem, not something to retry.
	ErrTooManySockets = errors.New("too many file descriptors from service manager")
	// ErrWrongSocketKind means the inherited descriptor is not a
	// listening unix stream socket.
	ErrWrongSocketKind = errors.New("inherited descriptor is not a listening unix stream socket")
)

// Activated reports whether the service manager started us with at least
// one pre-opened socket. It only inspects the environment and never
// errors; absence of the protocol just means "no".
func Activated() bool {
	pid, err := strconv.Atoi(os.Getenv("LISTEN_PID"))
	if err != nil || pid != os.Getpid() {
		return false
	}
	nfds, err := strconv.Atoi(os.Getenv("LISTEN_FDS"))
	return err == nil && nfds >= 1
}

// ListenSocket returns the server's listening socket and its bound
// filesystem path. When socket activation is in effect the inherited
// descriptor is validated and adopted; otherwise create is called and its
// result returned unchanged.
func ListenSocket(create func() (*net.UnixListener, string, error)) (*net.UnixListener, string, error) {
	return adoptSocket(activation.Files(false), create)
}

func adoptSocket(files []*os.File, create func() (*net.UnixListener, string, error)) (*net.UnixListener, string, error) {
	if len(files) > 1 {
		return nil, "", fmt.Errorf("systemd socket error: %w", ErrTooManySockets)
	}
	if len(files) == 0 {
		return create()
	}
	f := files[0]
	defer f.Close() //nolint:errcheck // FileListener dups the descriptor

	if err := checkUnixStreamListener(f); err != nil {
		return nil, "", fmt.Errorf("systemd socket error: %w", err)
	}
	l, err := net.FileListener(f)
	if err != nil {
		return nil, "", fmt.Errorf("systemd socket error: %w", err)
	}
	ul, ok := l.(*net.UnixListener)
	if !ok {
		l.Close() //nolint:errcheck
		return nil, "", fmt.Errorf("systemd socket error: %w", ErrWrongSocketKind)
	}
	ua, _ := ul.Addr().(*net.UnixAddr)
	if ua == nil {
		ul.Close() //nolint:errcheck
		return nil, "", fmt.Errorf("systemd socket error: %w", ErrWrongSocketKind)
	}
	return ul, ua.Name, nil
}

// checkUnixStreamListener is the equivalent of sd_is_socket_unix(fd,
// SOCK_STREAM, 1, NULL, 0): the descriptor must be an AF_UNIX stream
// socket with a pending accept queue.
func checkUnixStreamListener(f *os.File) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var domain, typ, accepting int
	var sockErr error
	if err := rc.Control(func(fd uintptr) {
		if domain, sockErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_DOMAIN); sockErr != nil {
			return
		}
		if typ, sockErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_TYPE); sockErr != nil {
			return
		}
		accepting, sockErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ACCEPTCONN)
	}); err != nil {
		return err
	}
	if sockErr != nil {
		// not a socket at all, most likely
		return fmt.Errorf("%w: %w", ErrWrongSocketKind, sockErr)
	}
	if domain != unix.AF_UNIX || typ != unix.SOCK_STREAM || accepting == 0 {
		return ErrWrongSocketKind
	}
	return nil
}
