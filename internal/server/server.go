package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/renato0307/issuetree/internal/config"
	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/services"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// WorktreeProvisioner is the worktree side of the service layer
type WorktreeProvisioner interface {
	ListWorktrees(ctx context.Context, repoPath string) ([]domain.WorktreeRecord, error)
	Open(ctx context.Context, params services.OpenParams) error
	Provision(ctx context.Context, params services.ProvisionParams) (*services.ProvisionResult, error)
}

// TerminalTester runs terminal command templates in capture mode
type TerminalTester interface {
	Test(ctx context.Context, params services.TestParams) (*domain.CommandResult, error)
}

// Options configures a Server
type Options struct {
	Addr     string
	Settings *config.Live
	Version  string
}

// Server is the local HTTP endpoint the browser extension talks to
type Server struct {
	httpServer *http.Server
	settings   *config.Live
	terminals  TerminalTester
	version    string
	worktrees  WorktreeProvisioner
}

// New creates a Server with its own router
func New(worktrees WorktreeProvisioner, terminals TerminalTester, opts Options) *Server {
	settings := opts.Settings
	if settings == nil {
		settings = config.NewLive(config.Resolve(nil))
	}

	s := &Server{
		settings:  settings,
		terminals: terminals,
		version:   opts.Version,
		worktrees: worktrees,
	}
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Handler returns the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /worktree/create", s.handleCreate)
	mux.HandleFunc("GET /worktree/list", s.handleList)
	mux.HandleFunc("POST /worktree/open", s.handleOpen)
	mux.HandleFunc("POST /terminal/test", s.handleTest)

	// Outermost first: request id, panic recovery, access log, CORS
	return withRequestID(recoverPanics(logRequests(s.cors(mux))))
}

// Run listens on the configured address and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logging.Logger.Info("Starting HTTP server", "address", ln.Addr().String(), "version", s.version)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	logging.Logger.Info("HTTP server stopped")
	return nil
}
