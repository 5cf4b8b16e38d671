package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"

	"fastcat.org/go/muxd/api"
	"fastcat.org/go/muxd/internal"
	"fastcat.org/go/muxd/lib/sys"
)

type daemon struct {
	mu    sync.Mutex
	panes map[string]*pane
	// requestShutdown is wired up by NewHTTP to stop the server loop
	requestShutdown func()
}

func NewDaemon() *daemon {
	return &daemon{panes: make(map[string]*pane)}
}

var _ api.API = (*daemon)(nil)

// Ping implements api.API.
func (d *daemon) Ping(ctx context.Context) error {
	return nil
}

// Info implements api.API.
func (d *daemon) Info(ctx context.Context) (api.ServerInfo, error) {
	return api.ServerInfo{
		Pid:        os.Getpid(),
		SocketPath: SocketPath(),
		Activated:  sys.Activated(),
		Version:    internal.Version(),
	}, nil
}

// Summary implements api.API.
func (d *daemon) Summary(ctx context.Context) ([]api.PaneSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ret := make([]api.PaneSummary, 0, len(d.panes))
	for _, p := range d.panes {
		status := p.Status()
		cmd := p.def.Cmd
		if len(p.def.Args) > 0 {
			cmd += " " + strings.Join(p.def.Args, " ")
		}
		ret = append(ret, api.PaneSummary{
			Name:  p.def.Name,
			State: status.State,
			Pid:   status.Pid,
			Cmd:   cmd,
		})
	}
	slices.SortFunc(ret, func(a, b api.PaneSummary) int {
		return strings.Compare(a.Name, b.Name)
	})
	return ret, nil
}

// NewPane implements api.API.
func (d *daemon) NewPane(ctx context.Context, def api.Pane) (api.PaneWithStatus, error) {
	d.mu.Lock()
	if _, ok := d.panes[def.Name]; ok {
		d.mu.Unlock()
		return api.PaneWithStatus{}, internal.WithStatus(http.StatusConflict,
			fmt.Errorf("pane %s already exists", def.Name))
	}
	p := newPane(def)
	d.panes[def.Name] = p
	d.mu.Unlock()

	if err := p.start(); err != nil {
		d.mu.Lock()
		delete(d.panes, def.Name)
		d.mu.Unlock()
		return api.PaneWithStatus{}, fmt.Errorf("cannot start pane %s: %w", def.Name, err)
	}
	go func() {
		p.Wait()
		log.Printf("pane %s exited with code %d", def.Name, p.Status().ExitCode)
		d.mu.Lock()
		delete(d.panes, def.Name)
		d.mu.Unlock()
	}()
	return api.PaneWithStatus{Pane: def, Status: p.Status()}, nil
}

// KillPane implements api.API.
func (d *daemon) KillPane(ctx context.Context, name string) (api.PaneWithStatus, error) {
	d.mu.Lock()
	p, ok := d.panes[name]
	d.mu.Unlock()
	if !ok {
		return api.PaneWithStatus{}, internal.WithStatus(http.StatusNotFound,
			fmt.Errorf("no pane %s", name))
	}
	p.stop()
	p.Wait()
	return api.PaneWithStatus{Pane: p.def, Status: p.Status()}, nil
}

// Shutdown implements api.API.
func (d *daemon) Shutdown(ctx context.Context) error {
	if d.requestShutdown == nil {
		return errors.New("server not running")
	}
	// let the response flush before the listener goes away
	go d.requestShutdown()
	return nil
}

func (d *daemon) terminate() error {
	log.Print("terminating panes")
	d.mu.Lock()
	panes := make([]*pane, 0, len(d.panes))
	for _, p := range d.panes {
		panes = append(panes, p)
	}
	d.mu.Unlock()
	var wg sync.WaitGroup
	for _, p := range panes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.stop()
			p.Wait()
		}()
	}
	wg.Wait()
	return nil
}
