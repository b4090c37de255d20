package services

import (
	"context"
	"os"
	"time"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/ports"
)

// Placeholder values used by TerminalService.Test when the caller omits them
const (
	TestIssueID    = "TEST-123"
	TestBranchName = "test-branch"
)

// TerminalService expands terminal command templates and starts them
type TerminalService struct {
	launcher    ports.ProcessLauncher
	testTimeout func() time.Duration
}

// NewTerminalService creates a new TerminalService.
// testTimeout is read on every Test call so reloaded settings apply.
func NewTerminalService(launcher ports.ProcessLauncher, testTimeout func() time.Duration) *TerminalService {
	return &TerminalService{
		launcher:    launcher,
		testTimeout: testTimeout,
	}
}

// Open expands template with tokens and launches the result detached.
// The process starts in tokens.Directory when that is an existing directory.
func (s *TerminalService) Open(ctx context.Context, template string, tokens domain.TemplateTokens) error {
	cmd, err := domain.ExpandCommand(template, tokens)
	if err != nil {
		return err
	}

	logging.Logger.Info("Opening terminal",
		"program", cmd.Program(), "directory", tokens.Directory, "issue_id", tokens.IssueID)
	return s.launcher.Launch(ctx, cmd.Args, workingDir(tokens.Directory))
}

// Test runs template once in capture mode and returns its output.
// A non-zero exit is part of the result, not an error.
func (s *TerminalService) Test(ctx context.Context, params TestParams) (*domain.CommandResult, error) {
	tokens := domain.TemplateTokens{
		BranchName: params.BranchName,
		Directory:  params.Directory,
		IssueID:    params.IssueID,
	}
	if tokens.Directory == "" {
		if home, err := os.UserHomeDir(); err == nil {
			tokens.Directory = home
		}
	}
	if tokens.IssueID == "" {
		tokens.IssueID = TestIssueID
	}
	if tokens.BranchName == "" {
		tokens.BranchName = TestBranchName
	}

	if params.TerminalCommand == "" {
		return nil, domain.NewValidationError("terminalCommand is required")
	}
	cmd, err := domain.ExpandCommand(params.TerminalCommand, tokens)
	if err != nil {
		return nil, err
	}

	timeout := params.Timeout
	if timeout <= 0 && s.testTimeout != nil {
		timeout = s.testTimeout()
	}

	logging.Logger.Info("Testing terminal command", "command", cmd.Text, "timeout", timeout)
	result, err := s.launcher.RunWithCapture(ctx, cmd.Args, workingDir(tokens.Directory), timeout)
	if err != nil {
		return nil, err
	}
	result.ExpandedCommand = cmd.Text
	return result, nil
}

// workingDir returns dir when it is an existing directory, otherwise "" so the
// process inherits the service's working directory
func workingDir(dir string) string {
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}
