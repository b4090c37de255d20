package services

import (
	"context"
	"os"
	"path/filepath"

	"github.com/renato0307/issuetree/internal/config"
	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/ports"
)

// WorktreeService provisions issue worktrees and opens terminals in them
type WorktreeService struct {
	gitRepo   ports.GitRepository
	terminals *TerminalService
}

// NewWorktreeService creates a new WorktreeService
func NewWorktreeService(gitRepo ports.GitRepository, terminals *TerminalService) *WorktreeService {
	return &WorktreeService{
		gitRepo:   gitRepo,
		terminals: terminals,
	}
}

// GetRepoName returns the last path segment of repoPath
func GetRepoName(repoPath string) string {
	if repoPath == "" {
		return ""
	}
	return filepath.Base(repoPath)
}

// BuildWorktreePath returns root/repoName/branchName by plain concatenation.
// Nothing is cleaned or checked; an unusable path fails later in git.
func BuildWorktreePath(root, repoPath, branchName string) string {
	return root + "/" + GetRepoName(repoPath) + "/" + branchName
}

// Create adds a worktree for newBranch, branched from baseBranch, at directory.
// Conflicts are checked in order: existing worktree, existing branch, missing base.
func (s *WorktreeService) Create(ctx context.Context, repoPath, newBranch, baseBranch, directory string) (string, error) {
	if s.gitRepo.WorktreeExists(directory) {
		logging.Logger.Info("Worktree already exists", "directory", directory)
		return "", domain.NewWorktreeExistsError(directory)
	}
	if s.gitRepo.BranchExists(ctx, repoPath, newBranch) {
		logging.Logger.Info("Branch already exists", "repo_path", repoPath, "branch", newBranch)
		return "", domain.NewBranchExistsError(newBranch)
	}
	if !s.gitRepo.BranchExists(ctx, repoPath, baseBranch) {
		logging.Logger.Info("Base branch does not exist", "repo_path", repoPath, "base_branch", baseBranch)
		return "", domain.NewValidationError("base branch '%s' does not exist", baseBranch)
	}

	if err := s.gitRepo.AddWorktree(ctx, repoPath, newBranch, directory, baseBranch); err != nil {
		return "", err
	}
	return directory, nil
}

// VerifyWorktree checks that directory exists and is a linked worktree
func (s *WorktreeService) VerifyWorktree(directory string) error {
	if directory == "" {
		return domain.NewValidationError("directory is required")
	}
	if _, err := os.Stat(directory); err != nil {
		return domain.NewValidationError("directory does not exist: %s", directory)
	}
	if !s.gitRepo.WorktreeExists(directory) {
		return domain.NewValidationError("directory is not a git worktree: %s", directory)
	}
	return nil
}

// Provision validates params, creates the worktree and opens a terminal in it.
// A terminal that fails to start after a successful create does not fail the
// call; it is reported in ProvisionResult.LaunchErr.
func (s *WorktreeService) Provision(ctx context.Context, params ProvisionParams) (*ProvisionResult, error) {
	switch {
	case params.RepoPath == "":
		return nil, domain.NewValidationError("repoPath is required")
	case params.BranchName == "":
		return nil, domain.NewValidationError("branchName is required")
	case params.BaseBranch == "":
		return nil, domain.NewValidationError("baseBranch is required")
	case params.IssueID == "":
		return nil, domain.NewValidationError("issueId is required")
	case params.WorktreeRoot == "":
		return nil, domain.NewValidationError("worktreeRoot is required")
	case params.TerminalCommand == "" && !params.SkipLaunch:
		return nil, domain.NewValidationError("terminalCommand is required")
	}
	if err := s.gitRepo.ValidateBranchName(params.BranchName); err != nil {
		return nil, err
	}

	repoPath := config.ExpandPath(params.RepoPath)
	if !s.gitRepo.IsRepository(ctx, repoPath) {
		return nil, domain.NewValidationError("not a git repository: %s", params.RepoPath)
	}

	directory := BuildWorktreePath(config.ExpandPath(params.WorktreeRoot), repoPath, params.BranchName)

	logging.Logger.Info("Provisioning worktree",
		"issue_id", params.IssueID, "repo_path", repoPath, "branch", params.BranchName,
		"base_branch", params.BaseBranch, "directory", directory)

	directory, err := s.Create(ctx, repoPath, params.BranchName, params.BaseBranch, directory)
	if err != nil {
		logging.Logger.Warn("Worktree provisioning failed", "issue_id", params.IssueID, "error", err)
		return nil, err
	}

	result := &ProvisionResult{Directory: directory}
	if params.SkipLaunch {
		return result, nil
	}

	tokens := domain.TemplateTokens{
		BranchName: params.BranchName,
		Directory:  directory,
		IssueID:    params.IssueID,
	}
	if err := s.terminals.Open(ctx, params.TerminalCommand, tokens); err != nil {
		logging.Logger.Error("Worktree created but terminal failed to start",
			"directory", directory, "error", err)
		result.LaunchErr = err
	}
	return result, nil
}

// Open launches a terminal in an existing worktree
func (s *WorktreeService) Open(ctx context.Context, params OpenParams) error {
	switch {
	case params.Directory == "":
		return domain.NewValidationError("directory is required")
	case params.TerminalCommand == "":
		return domain.NewValidationError("terminalCommand is required")
	case params.IssueID == "":
		return domain.NewValidationError("issueId is required")
	case params.BranchName == "":
		return domain.NewValidationError("branchName is required")
	}
	directory := config.ExpandPath(params.Directory)
	if err := s.VerifyWorktree(directory); err != nil {
		return err
	}

	return s.terminals.Open(ctx, params.TerminalCommand, domain.TemplateTokens{
		BranchName: params.BranchName,
		Directory:  directory,
		IssueID:    params.IssueID,
	})
}

// ListWorktrees returns the worktrees registered in repoPath
func (s *WorktreeService) ListWorktrees(ctx context.Context, repoPath string) ([]domain.WorktreeRecord, error) {
	if repoPath == "" {
		return nil, domain.NewValidationError("repoPath is required")
	}
	repoPath = config.ExpandPath(repoPath)
	if !s.gitRepo.IsRepository(ctx, repoPath) {
		return nil, domain.NewValidationError("not a git repository: %s", repoPath)
	}
	return s.gitRepo.ListWorktrees(ctx, repoPath)
}

// DeriveBranchName turns an issue identifier or title into a branch name
func (s *WorktreeService) DeriveBranchName(issue string) (string, error) {
	return s.gitRepo.SanitizeBranchName(issue)
}
