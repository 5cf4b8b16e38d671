//go:build linux

package sys

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"
	godbus "github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"fastcat.org/go/muxd/internal"
)

// systemd's StartTransientUnit reply only confirms the job was accepted,
// not that the unit started: the cgroup exists once the matching
// JobRemoved signal arrives, so we subscribe for it up front and wait for
// it after the call.

const scopeStartTimeout = time.Second

const (
	systemdDest      = "org.freedesktop.systemd1"
	systemdPath      = godbus.ObjectPath("/org/freedesktop/systemd1")
	managerInterface = "org.freedesktop.systemd1.Manager"
	jobRemovedMember = "JobRemoved"
	jobRemovedSignal = managerInterface + "." + jobRemovedMember
)

// ErrScopeTimeout means systemd accepted the transient scope job but did
// not report it finished within the fixed budget.
var ErrScopeTimeout = errors.New("timeout waiting for cgroup allocation")

// MoveSelfIntoNewScope asks the user's systemd instance to create a fresh
// transient scope unit containing the current process, and waits for the
// scope's job to complete. The whole operation is bounded by a one second
// budget measured before the bus connection is opened; callers should
// treat any error as "feature unavailable" rather than fatal.
func MoveSelfIntoNewScope(ctx context.Context, opts ...ScopeOption) error {
	ctx, cancel := context.WithTimeout(ctx, scopeStartTimeout)
	defer cancel()

	conn, err := godbus.ConnectSessionBus(godbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close() //nolint:errcheck

	// subscribe before issuing the call so the completion signal cannot
	// slip past between the reply and the wait loop
	matchOpts := []godbus.MatchOption{
		godbus.WithMatchSender(systemdDest),
		godbus.WithMatchObjectPath(systemdPath),
		godbus.WithMatchInterface(managerInterface),
		godbus.WithMatchMember(jobRemovedMember),
	}
	if err := conn.AddMatchSignalContext(ctx, matchOpts...); err != nil {
		return fmt.Errorf("failed to create match signal: %w", err)
	}
	defer conn.RemoveMatchSignal(matchOpts...) //nolint:errcheck
	sigs := make(chan *godbus.Signal, 16)
	conn.Signal(sigs)
	defer conn.RemoveSignal(sigs)

	req, err := newScopeRequest(opts...)
	if err != nil {
		return err
	}

	call := conn.Object(systemdDest, systemdPath).CallWithContext(
		ctx, managerInterface+".StartTransientUnit", 0,
		req.name, req.mode, req.properties, req.aux)
	if call.Err != nil {
		// a structured bus error carries systemd's own message, which is
		// far more useful than anything we could synthesize around it
		return fmt.Errorf("StartTransientUnit call failed: %w", call.Err)
	}
	watch := &jobWatch{}
	if err := call.Store(&watch.path); err != nil {
		return fmt.Errorf("failed to parse method reply: %w", err)
	}

	return waitForJob(ctx, sigs, watch)
}

// waitForJob pumps the signal channel until the watched job completes,
// the remaining deadline runs out, or the channel closes underneath us.
func waitForJob(ctx context.Context, sigs <-chan *godbus.Signal, watch *jobWatch) error {
	for !watch.done {
		// drain whatever is already buffered before blocking
		select {
		case sig, ok := <-sigs:
			if !ok {
				return fmt.Errorf("failed waiting for cgroup allocation: %w", godbus.ErrClosed)
			}
			watch.observe(sig)
			continue
		default:
		}
		select {
		case sig, ok := <-sigs:
			if !ok {
				return fmt.Errorf("failed waiting for cgroup allocation: %w", godbus.ErrClosed)
			}
			watch.observe(sig)
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrScopeTimeout
			}
			return fmt.Errorf("failed waiting for cgroup allocation: %w", ctx.Err())
		}
	}
	return nil
}

// jobWatch correlates the job object path from the StartTransientUnit
// reply with JobRemoved signals. path stays empty until the reply is
// parsed; signals observed before that must not match anything.
type jobWatch struct {
	path godbus.ObjectPath
	done bool
}

// observe inspects one bus signal. JobRemoved carries (id uint32, job
// object path, unit string, result string); only the path matters here.
// Malformed or unrelated signals are ignored, never an error, since every
// signal on the connection passes through.
func (w *jobWatch) observe(sig *godbus.Signal) {
	if w.path == "" || sig == nil || sig.Name != jobRemovedSignal {
		return
	}
	if len(sig.Body) < 2 {
		return
	}
	path, ok := sig.Body[1].(godbus.ObjectPath)
	if !ok {
		return
	}
	if path == w.path {
		w.done = true
	}
}

type scopeRequest struct {
	name          string
	mode          string
	properties    []dbus.Property
	aux           []dbus.PropertyCollection
	fallbackSlice string
}

// ScopeOption customizes the transient scope request.
type ScopeOption func(*scopeRequest)

// WithFallbackSlice sets the slice to nest the scope under when the
// parent process's own user slice cannot be determined.
func WithFallbackSlice(slice string) ScopeOption {
	return func(req *scopeRequest) {
		req.fallbackSlice = slice
	}
}

func newScopeRequest(opts ...ScopeOption) (*scopeRequest, error) {
	req := &scopeRequest{
		mode:          "fail", // error if a same-named unit is already queued
		aux:           []dbus.PropertyCollection{},
		fallbackSlice: "app-" + internal.AppName() + ".slice",
	}
	for _, opt := range opts {
		opt(req)
	}

	// a random per-invocation name keeps concurrent panes from colliding
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate uuid: %w", err)
	}
	req.name = fmt.Sprintf("%s-spawn-%s.scope", internal.AppName(), id)

	pid, ppid := os.Getpid(), os.Getppid()
	// inherit the slice from the parent's session; that lookup is best
	// effort and a failure just means the fallback
	slice, err := userSlice(ppid)
	if err != nil {
		slice = req.fallbackSlice
	}
	req.properties = []dbus.Property{
		dbus.PropDescription(fmt.Sprintf("%s pane %d launched by process %d",
			internal.AppName(), pid, ppid)),
		// session shells tend to ignore SIGTERM, SIGHUP actually ends them
		{Name: "SendSIGHUP", Value: godbus.MakeVariant(true)},
		dbus.PropSlice(slice),
		dbus.PropPids(uint32(pid)),
		// harvest the scope once it goes inactive, even if it failed
		{Name: "CollectMode", Value: godbus.MakeVariant("inactive-or-failed")},
	}
	return req, nil
}
