package server

import (
	"os"
	"os/exec"
	"sync"
	"time"

	"fastcat.org/go/muxd/api"
)

// pane is one managed child process. The child is a re-exec of the muxd
// binary (the hidden __pane command) so that it can move itself into a
// fresh transient scope before exec'ing the real command.
type pane struct {
	def api.Pane

	mu     sync.Mutex
	cmd    *exec.Cmd
	status api.PaneStatus
	done   chan struct{}
}

func newPane(def api.Pane) *pane {
	return &pane{
		def:    def,
		status: api.PaneStatus{State: api.PaneStarting},
		done:   make(chan struct{}),
	}
}

// paneCommand builds the child invocation for a pane definition; tests
// stub it out to avoid re-exec'ing the test binary.
var paneCommand = func(def api.Pane) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	args := append([]string{"__pane", "--", def.Cmd}, def.Args...)
	cmd := exec.Command(exe, args...)
	cmd.Dir = def.Cwd
	if len(def.Env) != 0 {
		cmd.Env = os.Environ()
		for k, v := range def.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	// no pty here: stdio goes to /dev/null, the pane's unit owns its
	// output via the journal when it has one
	return cmd, nil
}

func (p *pane) start() error {
	cmd, err := paneCommand(p.def)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		close(p.done)
		p.mu.Lock()
		p.status = api.PaneStatus{State: api.PaneExited, ExitCode: -1}
		p.mu.Unlock()
		return err
	}
	p.mu.Lock()
	p.cmd = cmd
	p.status = api.PaneStatus{
		State:   api.PaneRunning,
		Pid:     cmd.Process.Pid,
		Started: time.Now(),
	}
	p.mu.Unlock()
	go p.reap()
	return nil
}

func (p *pane) reap() {
	err := p.cmd.Wait()
	p.mu.Lock()
	p.status.State = api.PaneExited
	p.status.ExitCode = p.cmd.ProcessState.ExitCode()
	if err != nil && p.cmd.ProcessState == nil {
		p.status.ExitCode = -1
	}
	p.mu.Unlock()
	close(p.done)
}

// stop asks the pane to exit. Shells tend to ignore SIGTERM, so this
// sends SIGHUP first and escalates to SIGKILL after a grace period.
func (p *pane) stop() {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(hangupSignal())
	select {
	case <-p.done:
	case <-time.After(5 * time.Second):
		_ = cmd.Process.Kill()
	}
}

func (p *pane) Status() api.PaneStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *pane) Wait() {
	<-p.done
}
