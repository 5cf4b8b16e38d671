// muxd keeps commands running in detached panes under a per-user control
// server, integrating with the systemd user instance for socket
// activation and per-pane transient scopes.
package main

import "fastcat.org/go/muxd/cmd"

func main() {
	cmd.Main()
}
