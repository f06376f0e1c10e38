package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultHandlerTimeout = 30 * time.Second

	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 30 * time.Second
)

type HTTPServer struct {
	srv *http.Server
	log *slog.Logger
}

// NewHTTPServer returns a server whose handlers are limited by
// handlerTimeout. Zero timeout means [DefaultHandlerTimeout].
func NewHTTPServer(
	addr string, handler http.Handler, handlerTimeout time.Duration,
) HTTPServer {
	if handlerTimeout <= 0 {
		handlerTimeout = DefaultHandlerTimeout
	}
	return HTTPServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           http.TimeoutHandler(handler, handlerTimeout, "unavailable"),
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		},
		log: slog.With("component", "http_server", "addr", addr),
	}
}

// Run blocks until the server stops. stopFn is called on any exit so a
// failed listener brings the application down.
func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	defer stopFn()

	s.log.Info("listening", "op", op)
	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("unexpected shutdown", "op", op, "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"

	s.log.Info("closing...", "op", op)
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error("failed to shutdown gracefully", "op", op, "err", err)
		return
	}
	s.log.Info("closed", "op", op)
}

func RegisterHealth(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}
