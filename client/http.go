package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"fastcat.org/go/muxd/api"
	"fastcat.org/go/muxd/internal"
)

func NewHTTP() *HTTP {
	t := &http.Transport{
		// select defaults copied from Go 1.24.2
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	t.DialContext = defaultDialer
	c := &http.Client{Transport: t}
	return &HTTP{Client: c}
}

type HTTP struct {
	Client *http.Client
	Base   *url.URL
}

var _ api.API = (*HTTP)(nil)

// Ping implements api.API.
func (h *HTTP) Ping(ctx context.Context) error {
	res, err := h.do(ctx, http.MethodGet, api.PathPing, nil)
	if err != nil {
		return err
	}
	return discard(res)
}

// Info implements api.API.
func (h *HTTP) Info(ctx context.Context) (api.ServerInfo, error) {
	res, err := h.do(ctx, http.MethodGet, api.PathInfo, nil)
	if err != nil {
		return api.ServerInfo{}, err
	}
	return internal.JSONBody[api.ServerInfo](ctx, res.Body, "omitempty")
}

// Summary implements api.API.
func (h *HTTP) Summary(ctx context.Context) ([]api.PaneSummary, error) {
	res, err := h.do(ctx, http.MethodGet, api.PathSummary, nil)
	if err != nil {
		return nil, err
	}
	return internal.JSONBody[[]api.PaneSummary](ctx, res.Body, "omitempty")
}

// NewPane implements api.API.
func (h *HTTP) NewPane(ctx context.Context, pane api.Pane) (api.PaneWithStatus, error) {
	body, err := json.Marshal(pane)
	if err != nil {
		return api.PaneWithStatus{}, err
	}
	res, err := h.do(ctx, http.MethodPost, api.PathPane, bytes.NewReader(body))
	if err != nil {
		return api.PaneWithStatus{}, err
	}
	return internal.JSONBody[api.PaneWithStatus](ctx, res.Body, "omitempty")
}

// KillPane implements api.API.
func (h *HTTP) KillPane(ctx context.Context, name string) (api.PaneWithStatus, error) {
	res, err := h.do(ctx, http.MethodDelete,
		withPathValue(api.PathOnePane, api.PathPaneParamName, name), nil)
	if err != nil {
		return api.PaneWithStatus{}, err
	}
	return internal.JSONBody[api.PaneWithStatus](ctx, res.Body, "omitempty")
}

// Shutdown implements api.API.
func (h *HTTP) Shutdown(ctx context.Context) error {
	res, err := h.do(ctx, http.MethodPost, api.PathShutdown, nil)
	if err != nil {
		return err
	}
	return discard(res)
}

func (h *HTTP) do(ctx context.Context, method, p string, body io.Reader) (*http.Response, error) {
	r, err := http.NewRequestWithContext(ctx, method, h.url(p), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		r.Header.Set("content-type", "application/json")
	}
	res, err := h.c().Do(r)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		res.Body.Close() //nolint:errcheck
		return nil, internal.WithStatus(res.StatusCode,
			fmt.Errorf("%s %s returned http status %d: %s",
				method, p, res.StatusCode, bytes.TrimSpace(msg)))
	}
	return res, nil
}

func discard(res *http.Response) error {
	if res.Body == nil {
		return nil
	}
	defer res.Body.Close() //nolint:errcheck
	_, err := io.Copy(io.Discard, res.Body)
	return err
}

func (h *HTTP) c() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	return http.DefaultClient
}

func withPathValue(
	match string,
	name string, //nolint:unparam // important for future use
	value string,
) string {
	return strings.Replace(match, "{"+name+"}", value, 1)
}

func (h *HTTP) url(p string) string {
	var u *url.URL
	if h.Base != nil {
		u = h.Base
	} else {
		u = &url.URL{
			Scheme: "http",
			Host:   "localhost",
			Path:   "/",
		}
	}
	u = u.ResolveReference(&url.URL{Path: "/./" + p})
	u.Path = path.Clean(u.Path)
	return u.String()
}
