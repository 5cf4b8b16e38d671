//go:build !linux

package sys

import "net"

// Activated always reports false off Linux: there is no service manager
// descriptor-passing protocol to consume.
func Activated() bool {
	return false
}

// ListenSocket always delegates to create off Linux.
func ListenSocket(create func() (*net.UnixListener, string, error)) (*net.UnixListener, string, error) {
	return create()
}
