package ports

import (
	"context"
	"time"

	"github.com/renato0307/issuetree/internal/domain"
)

// CommandRunner executes a program to completion and returns its output.
// A non-zero exit is reported through err (an *exec.ExitError).
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// ProcessLauncher starts interactive programs from an expanded argv
type ProcessLauncher interface {
	// Launch starts args detached and returns as soon as the process is running
	Launch(ctx context.Context, args []string, dir string) error
	// RunWithCapture waits for args to exit (at most timeout) and returns its output
	RunWithCapture(ctx context.Context, args []string, dir string, timeout time.Duration) (*domain.CommandResult, error)
}
