package api

import "time"

// Pane is a detached child process managed by the server, in the
// terminal-multiplexer sense of the word minus the terminal: no pty, the
// process just runs under the server in its own transient scope.
type Pane struct {
	Name string            `json:"name" validate:"required"`
	Cmd  string            `json:"cmd" validate:"required"`
	Args []string          `json:"args"`
	Cwd  string            `json:"cwd,omitzero"`
	Env  map[string]string `json:"env"`
}

type PaneState string

const (
	PaneStarting PaneState = "starting"
	PaneRunning  PaneState = "running"
	PaneExited   PaneState = "exited"
)

type PaneStatus struct {
	State    PaneState `json:"state"`
	Pid      int       `json:"pid,omitzero"`
	ExitCode int       `json:"exitCode"`
	Started  time.Time `json:"started,omitzero"`
}

type PaneWithStatus struct {
	Pane   Pane       `json:"pane"`
	Status PaneStatus `json:"status"`
}

type PaneSummary struct {
	Name  string    `json:"name"`
	State PaneState `json:"state"`
	Pid   int       `json:"pid,omitzero"`
	Cmd   string    `json:"cmd"`
}

// ServerInfo reports the server's identity, notably the filesystem path
// of the socket it actually listens on, which differs from the default
// when the socket was adopted from the service manager.
type ServerInfo struct {
	Pid        int    `json:"pid"`
	SocketPath string `json:"socketPath"`
	Activated  bool   `json:"activated"`
	Version    string `json:"version"`
}
