package process

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/ports"
)

// Executor implements ports.CommandRunner with os/exec.
// Arguments are passed straight to the program; no shell is involved.
type Executor struct{}

// Compile-time interface verification
var _ ports.CommandRunner = (*Executor)(nil)

// NewExecutor creates a new Executor
func NewExecutor() *Executor {
	return &Executor{}
}

// Run executes name with args in dir and waits for it to finish
func (e *Executor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	logging.Logger.Debug("Command finished",
		"program", name, "args", args, "dir", dir, "exit_code", cmd.ProcessState.ExitCode(), "error", err)

	return stdout.Bytes(), stderr.Bytes(), err
}
