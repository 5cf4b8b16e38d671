package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"fastcat.org/go/muxd/client"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "show the server and its panes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.NewHTTP()
			info, err := c.Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("server is not running: %w", err)
			}
			how := "created"
			if info.Activated {
				how = "socket-activated"
			}
			fmt.Printf("server pid %d (%s) on %s (%s)\n",
				info.Pid, info.Version, info.SocketPath, how)

			summary, err := c.Summary(cmd.Context())
			if err != nil {
				return err
			}
			if len(summary) == 0 {
				fmt.Println("no panes")
				return nil
			}
			tw := table.NewWriter()
			tw.SetStyle(table.StyleColoredBlueWhiteOnBlack)
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Name", "State", "Pid", "Command"})
			tw.AppendSeparator()
			for _, p := range summary {
				tw.AppendRow(table.Row{p.Name, p.State, p.Pid, p.Cmd})
			}
			tw.Render()
			return nil
		},
	}
}
