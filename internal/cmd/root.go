package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/renato0307/issuetree/internal/config"
	"github.com/renato0307/issuetree/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Serve    ServeCmd    `cmd:"" help:"Run the local worktree service (default)" default:"1"`
	Worktree WorktreeCmd `cmd:"worktree" help:"Create, open and list issue worktrees"`
	Terminal TerminalCmd `cmd:"terminal" help:"Try out terminal command templates"`
	Settings SettingsCmd `cmd:"settings" help:"Show settings file location and effective configuration"`

	// Internal fields (not flags)
	config   config.ServerConfig `kong:"-"`
	settings *config.Settings    `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and resolves configuration
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings file > defaults.
	// A settings value only applies while the flag is at its default and the env var is unset.
	if c.settings != nil {
		if c.MaxLogFiles == logging.DefaultMaxLogFiles {
			if _, hasEnv := os.LookupEnv("ISSUETREE_MAX_LOG_FILES"); !hasEnv && c.settings.MaxLogFiles != nil {
				c.MaxLogFiles = *c.settings.MaxLogFiles
			}
		}
		if !c.Debug {
			if _, hasEnv := os.LookupEnv("ISSUETREE_DEBUG"); !hasEnv && c.settings.Debug != nil {
				c.Debug = *c.settings.Debug
			}
		}
	}

	if _, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles); err != nil {
		return err
	}

	cfg, err := c.resolve(c.settings)
	if err != nil {
		return err
	}
	c.config = cfg

	logging.Logger.Debug("Configuration resolved",
		"port", cfg.Port, "worktree_root", cfg.WorktreeRoot, "allowed_origins", cfg.AllowedOrigins,
		"test_timeout", cfg.TestTimeout, "git_binary", cfg.GitBinary)
	return nil
}

// resolve layers environment overrides over settings and defaults
func (c *CLI) resolve(settings *config.Settings) (config.ServerConfig, error) {
	cfg, err := config.ApplyEnv(config.Resolve(settings))
	if err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}
