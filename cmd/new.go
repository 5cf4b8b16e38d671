package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fastcat.org/go/muxd/api"
)

func newCmd() *cobra.Command {
	var name, cwd string
	cmd := &cobra.Command{
		Use:   "new [flags] -- cmd [args...]",
		Short: "start a command in a new detached pane",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := autoStart(cmd.Context())
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[0])
			}
			stat, err := c.NewPane(cmd.Context(), api.Pane{
				Name: name,
				Cmd:  args[0],
				Args: args[1:],
				Cwd:  cwd,
			})
			if err != nil {
				return err
			}
			fmt.Printf("pane %s %s (pid %d)\n",
				stat.Pane.Name, stat.Status.State, stat.Status.Pid)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "pane name (default: command base name)")
	cmd.Flags().StringVarP(&cwd, "cwd", "d", "", "working directory for the command")
	return cmd
}
