package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fastcat.org/go/muxd/api"
	"fastcat.org/go/muxd/client"
	"fastcat.org/go/muxd/internal"
	"fastcat.org/go/muxd/lib/sys"
)

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "start the server as a transient service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.NewHTTP()
			if err := c.Ping(cmd.Context()); err == nil {
				return fmt.Errorf("%s server is already running", internal.AppName())
			}
			return startServer(cmd.Context())
		},
	}
}

func startServer(ctx context.Context) error {
	path := os.Args[0]
	// will become unit {appname}-server.service
	return sys.StartDaemon(ctx, "server", path, []string{"server"}, nil)
}

// autoStart makes sure a server is answering on the control socket,
// launching one if needed, and returns a client for it.
func autoStart(ctx context.Context) (api.API, error) {
	c := client.NewHTTP()
	if err := c.Ping(ctx); err == nil {
		return c, nil
	}
	if err := startServer(ctx); err != nil {
		return nil, fmt.Errorf("cannot start %s server: %w", internal.AppName(), err)
	}
	// the service is up but the socket may take a moment to answer
	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	retry := time.NewTicker(50 * time.Millisecond)
	defer retry.Stop()
	for {
		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%s server did not answer: %w", internal.AppName(), waitCtx.Err())
		case <-retry.C:
			if err := c.Ping(ctx); err == nil {
				return c, nil
			}
		}
	}
}
