//go:build linux

package cmd

import (
	"log"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"fastcat.org/go/muxd/config"
	"fastcat.org/go/muxd/lib/sys"
)

func runPane(cmd *cobra.Command, args []string) error {
	if config.PaneScopes() {
		// best effort: a pane that can't get its own scope still runs
		err := sys.MoveSelfIntoNewScope(cmd.Context(),
			sys.WithFallbackSlice(config.DefaultSlice()))
		if err != nil {
			log.Printf("pane scope unavailable: %v", err)
		}
	}
	path, err := exec.LookPath(args[0])
	if err != nil {
		return err
	}
	return unix.Exec(path, args, os.Environ())
}
