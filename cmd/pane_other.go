//go:build !linux

package cmd

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func runPane(cmd *cobra.Command, args []string) error {
	// no exec or transient scopes here: run the command as a child and
	// pass its exit code along
	c := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	return c.Run()
}
