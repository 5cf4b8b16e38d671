package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// paneCmd is the hidden trampoline the server re-execs for each pane: it
// moves itself into a fresh transient scope (best effort) and then execs
// the real command in place.
func paneCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "__pane -- cmd [args...]",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// flag parsing is off, so the leading -- is still present
			if len(args) > 0 && args[0] == "--" {
				args = args[1:]
			}
			if len(args) == 0 {
				return errors.New("__pane requires a command")
			}
			return runPane(cmd, args)
		},
	}
}
