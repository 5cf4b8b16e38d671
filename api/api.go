package api

import "context"

type API interface {
	Ping(ctx context.Context) error
	Info(ctx context.Context) (ServerInfo, error)
	Summary(ctx context.Context) ([]PaneSummary, error)
	NewPane(ctx context.Context, pane Pane) (PaneWithStatus, error)
	KillPane(ctx context.Context, name string) (PaneWithStatus, error)
	Shutdown(ctx context.Context) error
}
