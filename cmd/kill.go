package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fastcat.org/go/muxd/client"
)

func killCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill <pane...>",
		Short: "stop one or more panes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewHTTP()
			for _, name := range args {
				stat, err := c.KillPane(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("failed to kill %s: %w", name, err)
				}
				fmt.Printf("pane %s exited with code %d\n",
					stat.Pane.Name, stat.Status.ExitCode)
			}
			return nil
		},
	}
}

func killServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill-server",
		Short: "terminate the server and all panes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.NewHTTP()
			if err := c.Shutdown(cmd.Context()); err != nil {
				return fmt.Errorf("server is not running: %w", err)
			}
			return nil
		},
	}
}
