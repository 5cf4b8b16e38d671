package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastcat.org/go/muxd/api"
	"fastcat.org/go/muxd/client"
	"fastcat.org/go/muxd/internal"
)

func testClient(t *testing.T, d *daemon) *client.HTTP {
	t.Helper()
	ts := httptest.NewServer(NewHTTPMux(d))
	t.Cleanup(ts.Close)
	base, err := url.Parse(ts.URL)
	require.NoError(t, err)
	return &client.HTTP{Client: ts.Client(), Base: base}
}

func TestHTTP_RoundTrip(t *testing.T) {
	stubPaneCommand(t)
	d := NewDaemon()
	h := testClient(t, d)
	ctx := context.Background()

	require.NoError(t, h.Ping(ctx))

	info, err := h.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), info.Pid)

	res, err := h.NewPane(ctx, api.Pane{Name: "web", Cmd: "sleep", Args: []string{"60"}})
	require.NoError(t, err)
	assert.Equal(t, api.PaneRunning, res.Status.State)
	assert.Equal(t, "web", res.Pane.Name)

	sum, err := h.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, sum, 1)
	assert.Equal(t, "web", sum[0].Name)

	res, err = h.KillPane(ctx, "web")
	require.NoError(t, err)
	assert.Equal(t, api.PaneExited, res.Status.State)

	_, err = h.KillPane(ctx, "nope")
	assert.True(t, api.IsNotFound(err))
}

func TestHTTP_NewPaneValidation(t *testing.T) {
	d := NewDaemon()
	h := testClient(t, d)

	// Cmd is required
	_, err := h.NewPane(context.Background(), api.Pane{Name: "x"})
	var sce internal.StatusCodeErr
	require.ErrorAs(t, err, &sce)
	assert.Equal(t, http.StatusBadRequest, sce.StatusCode())
}

func TestHTTP_ShutdownNotRunning(t *testing.T) {
	d := NewDaemon()
	h := testClient(t, d)

	err := h.Shutdown(context.Background())
	var sce internal.StatusCodeErr
	require.ErrorAs(t, err, &sce)
	assert.Equal(t, http.StatusInternalServerError, sce.StatusCode())
}
