package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/igx/internal/shared"
	"github.com/desertthunder/igx/internal/tasks"
)

const shutdownTimeout = 5 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Opts contains configuration for [New].
type Opts struct {
	Session        *tasks.Session
	Logger         *log.Logger
	Addr           string   // host:port to listen on
	AllowedOrigins []string // CORS origins; empty allows none
}

// Server serves the HTTP controls for a single session.
type Server struct {
	addr     string
	handlers *Handlers
	router   http.Handler
	logger   *log.Logger
}

// New builds a server and its router. Nothing listens until [Server.ListenAndServe].
func New(opts Opts) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	h := NewHandlers(opts.Session, opts.Logger)
	return &Server{
		addr:     opts.Addr,
		handlers: h,
		router:   NewRouter(h, opts.AllowedOrigins, opts.Logger),
		logger:   opts.Logger,
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then stops any active run and shuts down gracefully.
//
// ready, when non-nil, receives the base URL once the listener is bound.
func (s *Server) ListenAndServe(ctx context.Context, ready func(url string)) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln, ready)
}

// Serve is [Server.ListenAndServe] on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, ready func(url string)) error {
	s.handlers.bind(ctx)

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	url := "http://" + ln.Addr().String()
	s.logger.Info("server listening", "url", url)
	if ready != nil {
		ready(url)
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.handlers.session.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
