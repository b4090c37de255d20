package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/renato0307/issuetree/internal/config"
	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/server"
	"github.com/renato0307/issuetree/internal/theme"
	"github.com/renato0307/issuetree/version"
)

// listenHost keeps the service reachable from this machine only
const listenHost = "127.0.0.1"

// ServeCmd runs the HTTP service
type ServeCmd struct {
	NoReload bool `help:"Do not reload settings when the file changes"`
	Port     int  `help:"Port to listen on (overrides settings and ISSUETREE_PORT)" short:"p"`
	Quiet    bool `help:"Do not log to stderr" short:"q"`
}

// apply layers command flags over the resolved configuration
func (s *ServeCmd) apply(cfg config.ServerConfig) config.ServerConfig {
	if s.Port != 0 {
		cfg.Port = s.Port
	}
	return cfg
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	if !s.Quiet {
		logging.AttachConsole(os.Stderr, slog.LevelInfo)
	}

	cfg := s.apply(cli.config)
	container := NewContainer(cfg)
	addr := net.JoinHostPort(listenHost, strconv.Itoa(cfg.Port))

	srv := server.New(container.WorktreeService, container.TerminalService, server.Options{
		Addr:     addr,
		Settings: container.Live,
		Version:  version.Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if !s.NoReload {
		g.Go(func() error {
			return config.Watch(ctx, config.GetSettingsPath(), func(settings *config.Settings) {
				s.reload(cli, container.Live, settings)
			})
		})
	}

	fmt.Fprintf(os.Stderr, "%s listening on %s\n",
		theme.TitleStyle.Render("issuetree"), theme.PathStyle.Render("http://"+addr))

	return g.Wait()
}

// reload applies a changed settings file. Only allowed origins and the test
// timeout take effect; the port and git binary need a restart.
func (s *ServeCmd) reload(cli *CLI, live *config.Live, settings *config.Settings) {
	next, err := cli.resolve(settings)
	if err != nil {
		logging.Logger.Warn("Ignoring reloaded settings", "error", err)
		return
	}
	next = s.apply(next)

	current := live.Get()
	if next.Port != current.Port || next.GitBinary != current.GitBinary {
		logging.Logger.Warn("Port and git binary changes apply after restart")
	}
	current.AllowedOrigins = next.AllowedOrigins
	current.TestTimeout = next.TestTimeout
	live.Set(current)

	logging.Logger.Info("Applied reloaded settings",
		"allowed_origins", current.AllowedOrigins, "test_timeout", current.TestTimeout)
}
