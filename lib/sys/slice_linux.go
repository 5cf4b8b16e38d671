//go:build linux

package sys

import (
	"fmt"
	"strings"

	"github.com/containerd/cgroups/v3/cgroup2"
)

// userSlice finds the slice a process sits under inside its user
// manager, the moral equivalent of sd_pid_get_user_slice(3).
func userSlice(pid int) (string, error) {
	group, err := cgroup2.PidGroupPath(pid)
	if err != nil {
		return "", err
	}
	return parseUserSlice(group)
}

// parseUserSlice extracts the innermost *.slice component beyond the
// user@UID.service delegation boundary from a cgroup2 group path like
// /user.slice/user-1000.slice/user@1000.service/app.slice/app-foo.scope.
func parseUserSlice(group string) (string, error) {
	var slice string
	seen := false
	for _, p := range strings.Split(group, "/") {
		if !seen {
			if strings.HasPrefix(p, "user@") && strings.HasSuffix(p, ".service") {
				seen = true
			}
			continue
		}
		if strings.HasSuffix(p, ".slice") {
			slice = p
		}
	}
	if slice == "" {
		return "", fmt.Errorf("no user slice in cgroup %q", group)
	}
	return slice, nil
}
