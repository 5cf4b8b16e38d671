package api

import (
	"fmt"
	"net"
	"os"
	"strings"

	"fastcat.org/go/muxd/internal"
)

// ListenAddr is the default control socket address. The server may end
// up on a different path when it adopts a socket from the service
// manager; clients can point at that (or any other) socket via
// MUXD_SOCKET.
func ListenAddr() net.Addr {
	if p := os.Getenv(socketEnv()); p != "" {
		return &net.UnixAddr{Net: "unix", Name: p}
	}
	return &net.UnixAddr{
		Net:  "unix",
		Name: fmt.Sprintf("/run/user/%d/%s/default", os.Getuid(), internal.AppName()),
	}
}

func socketEnv() string {
	return strings.ToUpper(internal.AppName()) + "_SOCKET"
}
