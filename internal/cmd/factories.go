package cmd

import (
	adaptergit "github.com/renato0307/issuetree/internal/adapters/git"
	adapterprocess "github.com/renato0307/issuetree/internal/adapters/process"
	"github.com/renato0307/issuetree/internal/config"
	"github.com/renato0307/issuetree/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Live is the hot-reloadable part of the configuration
	Live *config.Live

	// Services
	TerminalService *services.TerminalService
	WorktreeService *services.WorktreeService
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(cfg config.ServerConfig, launcherOpts ...adapterprocess.LauncherOption) *Container {
	live := config.NewLive(cfg)

	// Create adapters
	executor := adapterprocess.NewExecutor()
	launcher := adapterprocess.NewLauncher(launcherOpts...)
	gitRepo := adaptergit.NewCLIRepository(executor, cfg.GitBinary)

	// Create services
	terminalService := services.NewTerminalService(launcher, live.TestTimeout)
	worktreeService := services.NewWorktreeService(gitRepo, terminalService)

	return &Container{
		Live:            live,
		TerminalService: terminalService,
		WorktreeService: worktreeService,
	}
}
