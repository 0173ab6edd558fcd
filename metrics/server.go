// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package metrics

import (
	"context"
	"html/template"
	"net"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

const (
	serverReadTimeout     = 30 * time.Second
	serverWriteTimeout    = 30 * time.Second
	serverShutdownTimeout = 10 * time.Second
)

var indexTemplate = template.Must(template.New("index").Parse(`<html>
	<body>
		<h3>issue-migrator</h3>
		{{range .}}<div><a href="{{.Path}}">{{.Description}}</a></div>
		{{end}}
	</body>
</html>
`))

// Server exposes the metrics of a running migration, and optionally the
// profiling endpoints, for as long as the migration runs.
type Server struct {
	server   *http.Server
	listener net.Listener

	addr     string
	handlers []Handler
}

// Handler is the representation of an HTTP handler that would be
// used by the metrics server to expose the metrics
type Handler struct {
	Handler     http.Handler
	Path        string
	Description string
}

// NewServer creates the metrics server. A bare port such as "9090" listens
// on all interfaces.
func NewServer(addr string, pprof bool, handlers ...Handler) *Server {
	if pprof {
		handlers = append(handlers, pprofHandlers()...)
	}
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	return &Server{addr: addr, handlers: handlers}
}

func (m *Server) router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", m.handleRoot)
	for _, handler := range m.handlers {
		mlog.Debug("Adding metrics handler", mlog.String("path", handler.Path))
		router.Handle(handler.Path, handler.Handler)
	}
	return router
}

// Start binds the address and serves in the background until Stop is
// called. A port that cannot be bound is reported to the caller.
func (m *Server) Start() error {
	listener, err := net.Listen("tcp", m.addr)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", m.addr)
	}
	m.listener = listener
	m.server = &http.Server{
		Handler:      m.router(),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
	}

	go func() {
		mlog.Info("Metrics and profiling server started", mlog.String("addr", listener.Addr().String()))
		if err := m.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			mlog.Error("Metrics server stopped unexpectedly", mlog.Err(err))
		}
	}()
	return nil
}

// Addr is the bound address once started, the configured one before.
func (m *Server) Addr() string {
	if m.listener != nil {
		return m.listener.Addr().String()
	}
	return m.addr
}

// Stop gracefully stops the server. It is a no-op before Start.
func (m *Server) Stop() {
	if m.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := m.server.Shutdown(ctx); err != nil {
		mlog.Error("Error shutting down the metrics and profiling server", mlog.Err(err))
	}
	mlog.Info("Metrics and profiling server stopped")
}

func (m *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, m.handlers); err != nil {
		mlog.Error("Error rendering metrics page", mlog.Err(err))
	}
}

func pprofHandlers() []Handler {
	profiles := []struct{ name, description string }{
		{"goroutine", "Profiling Goroutines"},
		{"heap", "Profiling Heap"},
		{"allocs", "Profiling Allocations"},
		{"threadcreate", "Profiling Threads"},
		{"block", "Profiling Blockings"},
		{"mutex", "Profiling Mutexes"},
	}

	handlers := []Handler{
		{Path: "/debug/pprof/", Description: "Profiling Root", Handler: http.HandlerFunc(pprof.Index)},
		{Path: "/debug/pprof/cmdline", Description: "Profiling Command Line", Handler: http.HandlerFunc(pprof.Cmdline)},
		{Path: "/debug/pprof/profile", Description: "Profiling CPU", Handler: http.HandlerFunc(pprof.Profile)},
		{Path: "/debug/pprof/symbol", Description: "Profiling Symbols", Handler: http.HandlerFunc(pprof.Symbol)},
	}
	for _, p := range profiles {
		handlers = append(handlers, Handler{Path: "/debug/pprof/" + p.name, Description: p.description, Handler: pprof.Handler(p.name)})
	}
	return handlers
}
