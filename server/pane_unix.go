//go:build unix

package server

import (
	"os"
	"syscall"
)

func hangupSignal() os.Signal {
	return syscall.SIGHUP
}
