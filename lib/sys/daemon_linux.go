//go:build linux

package sys

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/coreos/go-systemd/v22/dbus"
	godbus "github.com/godbus/dbus/v5"

	"fastcat.org/go/muxd/internal"
)

// StartDaemon launches the muxd server as a transient systemd service on
// the user bus, so it outlives the invoking terminal and gets its own
// unit for the journal and resource accounting.
func StartDaemon(
	ctx context.Context,
	name string,
	path string,
	args []string,
	env map[string]string,
) error {
	// systemd requires an abs path for the exec
	if !filepath.IsAbs(path) {
		var pathErr error
		if path, pathErr = exec.LookPath(path); pathErr != nil {
			return fmt.Errorf("cannot resolve daemon path %q: %w", path, pathErr)
		}
		// LookPath won't deal with things like "./foo", so a second pass
		// fixes those up
		if !filepath.IsAbs(path) {
			if path, pathErr = filepath.Abs(path); pathErr != nil {
				return fmt.Errorf("cannot make daemon path %q absolute: %w", path, pathErr)
			}
		}
	}
	conn, err := dbus.NewUserConnectionContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close() //nolint:errcheck
	ch := make(chan string, 1)
	props := []dbus.Property{
		dbus.PropDescription(fmt.Sprintf("%s %s daemon", internal.AppName(), name)),
		{Name: "CollectMode", Value: godbus.MakeVariant("inactive-or-failed")},
		dbus.PropType("exec"),
		dbus.PropExecStart(append([]string{path}, args...), true),
	}
	if len(env) != 0 {
		envs := make([]string, 0, len(env))
		for k, v := range env {
			envs = append(envs, k+"="+v)
		}
		props = append(props, dbus.Property{
			Name:  "Environment",
			Value: godbus.MakeVariant(envs),
		})
	}
	_, err = conn.StartTransientUnitContext(
		ctx,
		fmt.Sprintf("%s-%s.service", internal.AppName(), name),
		"fail", // error if already exists
		props,
		ch,
	)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case status := <-ch:
		if status == "done" {
			return nil
		}
		return fmt.Errorf("daemon start for %s failed: %s", name, status)
	}
}
