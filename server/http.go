package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	sd "github.com/coreos/go-systemd/v22/daemon"

	"fastcat.org/go/muxd/api"
	"fastcat.org/go/muxd/internal"
	"fastcat.org/go/muxd/lib/sys"
)

type HTTP struct {
	Server   *http.Server
	Listener net.Listener
	daemon   *daemon
	stop     chan struct{}
	stopOnce sync.Once
}

func NewHTTP() (*HTTP, error) {
	l, err := Listen()
	if err != nil {
		return nil, err
	}

	daemon := NewDaemon()
	h := &HTTP{
		Server: &http.Server{
			Addr:    SocketPath(),
			Handler: NewHTTPMux(daemon),
		},
		Listener: l,
		daemon:   daemon,
		stop:     make(chan struct{}),
	}
	daemon.requestShutdown = func() {
		h.stopOnce.Do(func() { close(h.stop) })
	}
	return h, nil
}

func (h *HTTP) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
		case <-h.stop:
		}
		log.Print("stopping server")
		_, _ = sd.SdNotify(false, sd.SdNotifyStopping)
		sdCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if sdErr := h.Server.Shutdown(sdCtx); sdErr != nil {
			// force it to close harder
			_ = h.Server.Close()
		}
	}()
	// tell the service manager we are serving; a no-op without one
	_, _ = sd.SdNotify(false, sd.SdNotifyReady)
	err := h.Server.Serve(h.Listener)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	err2 := h.daemon.terminate()
	// only unlink a socket we created ourselves; an adopted one belongs
	// to the service manager
	if !sys.Activated() {
		if p := SocketPath(); p != "" {
			_ = os.Remove(p)
		}
	}
	wg.Wait()
	return errors.Join(err, err2)
}

func NewHTTPMux(impl api.API) *http.ServeMux {
	m := http.NewServeMux()
	w := &httpWrapper{impl}
	m.HandleFunc("GET /{$}", w.Ping)
	m.HandleFunc("GET "+api.PathInfo, w.Info)
	m.HandleFunc("GET "+api.PathSummary, w.Summary)
	m.HandleFunc("POST "+api.PathPane, w.NewPane)
	m.HandleFunc("DELETE "+api.PathOnePane, w.KillPane)
	m.HandleFunc("POST "+api.PathShutdown, w.Shutdown)
	return m
}

type httpWrapper struct {
	impl api.API
}

func (h *httpWrapper) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.impl.Ping(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpWrapper) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.impl.Info(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, info)
}

func (h *httpWrapper) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.impl.Summary(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, summary)
}

func (h *httpWrapper) NewPane(w http.ResponseWriter, r *http.Request) {
	pane, err := internal.JSONBody[api.Pane](r.Context(), r.Body, "")
	if err != nil {
		writeErr(w, internal.WithStatus(http.StatusBadRequest, err))
		return
	}
	stat, err := h.impl.NewPane(r.Context(), pane)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, stat)
}

func (h *httpWrapper) KillPane(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue(api.PathPaneParamName)
	stat, err := h.impl.KillPane(r.Context(), name)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, stat)
}

func (h *httpWrapper) Shutdown(w http.ResponseWriter, r *http.Request) {
	if err := h.impl.Shutdown(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		// headers are gone already, all we can do is log
		log.Printf("error writing response: %v", err)
	}
}

func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var sce internal.StatusCodeErr
	if errors.As(err, &sce) {
		code = sce.StatusCode()
	}
	w.Header().Set("content-type", "text/plain")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, "%v\n", err)
}
