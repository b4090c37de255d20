package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/ports"
)

const (
	// maxCapturedBytes caps each stream captured in test mode
	maxCapturedBytes = 1 << 20
	// maxLoggedLines caps how many output lines of a launched terminal reach the log
	maxLoggedLines = 200
	maxLineBytes   = 64 * 1024
	// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
	waitDelay = 2 * time.Second
)

// Launcher implements ports.ProcessLauncher
type Launcher struct {
	discardOutput bool
}

// Compile-time interface verification
var _ ports.ProcessLauncher = (*Launcher)(nil)

// LauncherOption configures a Launcher
type LauncherOption func(*Launcher)

// WithDiscardedOutput sends the output of launched processes to the null
// device instead of the log. Use it when the caller exits right after
// launching: a pipe without a reader would kill the child on its next write.
func WithDiscardedOutput() LauncherOption {
	return func(l *Launcher) {
		l.discardOutput = true
	}
}

// NewLauncher creates a new process launcher
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts args in its own session and returns once the process is
// running. Output is drained into the debug log and the exit status is only
// logged. The process is not bound to ctx: it must outlive the request.
func (l *Launcher) Launch(ctx context.Context, args []string, dir string) error {
	if len(args) == 0 || args[0] == "" {
		return domain.ErrEmptyCommand
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	detach(cmd)

	if l.discardOutput {
		if err := cmd.Start(); err != nil {
			logging.Logger.Error("Failed to start terminal", "program", args[0], "dir", dir, "error", err)
			return domain.NewLaunchError(fmt.Sprintf("failed to start %s", args[0]), err)
		}
		logging.Logger.Info("Terminal launched", "program", args[0], "pid", cmd.Process.Pid, "dir", dir)
		go reap(cmd)
		return nil
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return domain.NewLaunchError("failed to attach stdout", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return domain.NewLaunchError("failed to attach stderr", err)
	}

	if err := cmd.Start(); err != nil {
		logging.Logger.Error("Failed to start terminal", "program", args[0], "dir", dir, "error", err)
		return domain.NewLaunchError(fmt.Sprintf("failed to start %s", args[0]), err)
	}

	logging.Logger.Info("Terminal launched", "program", args[0], "pid", cmd.Process.Pid, "dir", dir)
	go supervise(cmd, stdout, stderr)
	return nil
}

// supervise drains the output of a launched process and reaps it
func supervise(cmd *exec.Cmd, stdout, stderr io.Reader) {
	program := cmd.Path
	pid := cmd.Process.Pid

	defer func() {
		if r := recover(); r != nil {
			logging.Logger.Error("Recovered panic while supervising process", "program", program, "pid", pid, "panic", r)
		}
	}()

	sink := &logSink{program: program, pid: pid, limit: maxLoggedLines}
	var g errgroup.Group
	g.Go(func() error { return sink.drain("stdout", stdout) })
	g.Go(func() error { return sink.drain("stderr", stderr) })
	if err := g.Wait(); err != nil {
		logging.Logger.Warn("Failed to drain process output", "program", program, "pid", pid, "error", err)
	}

	// Wait only after both pipes hit EOF
	if err := cmd.Wait(); err != nil {
		logging.Logger.Warn("Launched process exited with error", "program", program, "pid", pid, "error", err)
		return
	}
	logging.Logger.Info("Launched process exited", "program", program, "pid", pid)
}

// reap waits for a launched process whose output is not captured
func reap(cmd *exec.Cmd) {
	if err := cmd.Wait(); err != nil {
		logging.Logger.Warn("Launched process exited with error", "program", cmd.Path, "pid", cmd.Process.Pid, "error", err)
		return
	}
	logging.Logger.Info("Launched process exited", "program", cmd.Path, "pid", cmd.Process.Pid)
}

// logSink forwards a bounded number of output lines to the debug log
type logSink struct {
	limit   int
	pid     int
	program string
}

func (s *logSink) drain(stream string, r io.Reader) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while draining %s: %v", stream, rec)
			// Keep reading so the child never blocks on a full pipe
			_, _ = io.Copy(io.Discard, r)
		}
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	logged, dropped := 0, 0
	for scanner.Scan() {
		if logged >= s.limit {
			dropped++
			continue
		}
		logged++
		logging.Logger.Debug("Process output",
			"program", s.program, "pid", s.pid, "stream", stream, "line", scanner.Text())
	}
	if dropped > 0 {
		logging.Logger.Debug("Process output truncated",
			"program", s.program, "pid", s.pid, "stream", stream, "dropped_lines", dropped)
	}

	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return fmt.Errorf("failed to read %s: %w", stream, err)
	}
	return nil
}

// RunWithCapture runs args in its own process group and waits for it to exit.
// A non-zero exit is part of the result. When timeout elapses the whole group
// is killed and a timeout error is returned.
func (l *Launcher) RunWithCapture(ctx context.Context, args []string, dir string, timeout time.Duration) (*domain.CommandResult, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, domain.ErrEmptyCommand
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := newCappedBuffer(maxCapturedBytes)
	stderr := newCappedBuffer(maxCapturedBytes)

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = waitDelay

	logging.Logger.Debug("Running command with capture", "args", args, "dir", dir, "timeout", timeout)
	err := cmd.Run()

	result := &domain.CommandResult{
		Args:   args,
		Stderr: stderr.String(),
		Stdout: stdout.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.Is(err, exec.ErrWaitDelay):
		result.ExitCode = 0
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		logging.Logger.Warn("Command timed out", "program", args[0], "timeout", timeout)
		return nil, domain.NewTimeoutError(args[0], timeout)
	case ctx.Err() != nil:
		return nil, domain.NewLaunchError("command canceled", ctx.Err())
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		logging.Logger.Error("Failed to run command", "program", args[0], "error", err)
		return nil, domain.NewLaunchError(fmt.Sprintf("failed to start %s", args[0]), err)
	}

	if stdout.Truncated() || stderr.Truncated() {
		logging.Logger.Warn("Captured output truncated", "program", args[0], "limit_bytes", maxCapturedBytes)
	}
	logging.Logger.Debug("Command completed", "program", args[0], "exit_code", result.ExitCode)
	return result, nil
}

// cappedBuffer keeps the first limit bytes written and discards the rest.
// Writes never fail so the child is not killed by a broken pipe.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.limit - len(b.buf)
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

// Truncated reports whether any output was discarded
func (b *cappedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
