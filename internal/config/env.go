package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables overriding the settings file
const (
	EnvAllowedOrigins     = "ISSUETREE_ALLOWED_ORIGINS"
	EnvGitBinary          = "ISSUETREE_GIT_BINARY"
	EnvPort               = "ISSUETREE_PORT"
	EnvTestTimeoutSeconds = "ISSUETREE_TEST_TIMEOUT_SECONDS"
	EnvWorktreeRoot       = "ISSUETREE_WORKTREE_ROOT"
)

// ApplyEnv overrides cfg with any ISSUETREE_* variables that are set
func ApplyEnv(cfg ServerConfig) (ServerConfig, error) {
	if v, ok := os.LookupEnv(EnvAllowedOrigins); ok && v != "" {
		cfg.AllowedOrigins = parseCommaSeparated(v)
	}
	if v, ok := os.LookupEnv(EnvGitBinary); ok && v != "" {
		cfg.GitBinary = ExpandPath(v)
	}
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return cfg, fmt.Errorf("invalid %s %q: must be a port number", EnvPort, v)
		}
		cfg.Port = port
	}
	if v, ok := os.LookupEnv(EnvTestTimeoutSeconds); ok && v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds < 1 {
			return cfg, fmt.Errorf("invalid %s %q: must be a positive number of seconds", EnvTestTimeoutSeconds, v)
		}
		cfg.TestTimeout = time.Duration(seconds) * time.Second
	}
	if v, ok := os.LookupEnv(EnvWorktreeRoot); ok && v != "" {
		cfg.WorktreeRoot = ExpandPath(v)
	}
	return cfg, nil
}
