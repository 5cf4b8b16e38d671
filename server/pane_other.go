//go:build !unix

package server

import "os"

func hangupSignal() os.Signal {
	return os.Kill
}
