package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fastcat.org/go/muxd/config"
	"fastcat.org/go/muxd/internal"
)

func Root() *cobra.Command {
	var longDesc strings.Builder
	fmt.Fprintf(&longDesc, "%s version %s\n", internal.AppName(), internal.Version())
	fmt.Fprintf(&longDesc, "A session daemon that keeps commands running in detached panes,\n")
	fmt.Fprintf(&longDesc, "each in its own systemd scope when a user manager is available.")

	root := &cobra.Command{
		Use:           internal.AppName(),
		Short:         "detached session daemon",
		Long:          longDesc.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       internal.Version(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			internal.LockCustomizations()
			return config.Initialize()
		},
	}
	root.AddCommand(
		serverCmd(),
		startCmd(),
		statusCmd(),
		newCmd(),
		killCmd(),
		killServerCmd(),
		paneCmd(),
	)
	return root
}
