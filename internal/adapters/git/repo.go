package git

import (
	"context"
	"os"
	"path/filepath"

	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/ports"
)

// CLIRepository implements ports.GitRepository using the local git binary
type CLIRepository struct {
	gitBinary string
	runner    ports.CommandRunner
}

// Verify interface compliance at compile time
var _ ports.GitRepository = (*CLIRepository)(nil)

// NewCLIRepository creates a new CLIRepository.
// An empty gitBinary falls back to "git" on PATH.
func NewCLIRepository(runner ports.CommandRunner, gitBinary string) *CLIRepository {
	if gitBinary == "" {
		gitBinary = "git"
	}
	return &CLIRepository{gitBinary: gitBinary, runner: runner}
}

// git runs a git subcommand with repoPath as working directory
func (r *CLIRepository) git(ctx context.Context, repoPath string, args ...string) ([]byte, []byte, error) {
	return r.runner.Run(ctx, repoPath, r.gitBinary, args...)
}

// IsRepository implements RepoInspector.IsRepository
func (r *CLIRepository) IsRepository(ctx context.Context, path string) bool {
	logging.Logger.Debug("Checking if directory is git repo", "path", path)

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		logging.Logger.Debug("Repository path is not a directory", "path", path)
		return false
	}

	if _, stderr, err := r.git(ctx, path, "rev-parse", "--git-dir"); err != nil {
		logging.Logger.Debug("Not a git repository", "path", path, "stderr", string(stderr))
		return false
	}
	return true
}

// BranchExists implements RepoInspector.BranchExists.
// Only local branches count; the match is exact.
func (r *CLIRepository) BranchExists(ctx context.Context, repoPath, branchName string) bool {
	if branchName == "" {
		return false
	}
	_, _, err := r.git(ctx, repoPath, "show-ref", "--verify", "--quiet", "refs/heads/"+branchName)
	exists := err == nil
	logging.Logger.Debug("Branch existence check", "repo_path", repoPath, "branch", branchName, "exists", exists)
	return exists
}

// WorktreeExists implements RepoInspector.WorktreeExists.
// A linked worktree has a .git file pointing back at the main repository,
// so a plain directory or a full clone (with a .git directory) does not count.
func (r *CLIRepository) WorktreeExists(directory string) bool {
	if directory == "" {
		return false
	}
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return false
	}
	gitInfo, err := os.Stat(filepath.Join(directory, ".git"))
	if err != nil {
		return false
	}
	return gitInfo.Mode().IsRegular()
}

// ValidateBranchName implements BranchValidator.ValidateBranchName
func (r *CLIRepository) ValidateBranchName(name string) error {
	return validateBranchName(name)
}

// SanitizeBranchName implements BranchValidator.SanitizeBranchName
func (r *CLIRepository) SanitizeBranchName(name string) (string, error) {
	return sanitizeBranchName(name)
}
