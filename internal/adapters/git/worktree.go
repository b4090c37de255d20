package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
)

const branchRefPrefix = "refs/heads/"

// AddWorktree implements WorktreeCreator.AddWorktree.
// It runs exactly one `git worktree add -b <branch> <path> <base>` and maps
// git's "already exists" diagnostics to the matching conflict error.
func (r *CLIRepository) AddWorktree(ctx context.Context, repoPath, branchName, worktreePath, baseBranch string) error {
	logging.Logger.Info("Creating worktree",
		"repo_path", repoPath, "worktree_path", worktreePath, "branch_name", branchName, "base_branch", baseBranch)

	// Ensure the repository folder under the worktree root exists
	parent := filepath.Dir(worktreePath)
	topCreated := firstMissingDir(parent)
	if err := os.MkdirAll(parent, 0755); err != nil {
		logging.Logger.Error("Failed to create worktree parent directory", "error", err, "path", parent)
		return domain.NewGitOperationError("failed to create worktree parent directory", "", err)
	}

	stdout, stderr, err := r.git(ctx, repoPath, "worktree", "add", "-b", branchName, worktreePath, baseBranch)
	if err != nil {
		output := strings.TrimSpace(string(stderr) + string(stdout))
		logging.Logger.Error("Git worktree add failed", "error", err, "output", output)
		removeCreatedDirs(parent, topCreated)
		return classifyAddFailure(output, branchName, worktreePath, err)
	}

	logging.Logger.Info("Git worktree created successfully", "path", worktreePath, "branch", branchName)
	return nil
}

// firstMissingDir returns the topmost ancestor of dir (dir included) that does
// not exist yet, or "" when dir already exists.
func firstMissingDir(dir string) string {
	missing := ""
	for {
		if _, err := os.Stat(dir); err == nil {
			return missing
		}
		missing = dir
		next := filepath.Dir(dir)
		if next == dir {
			return missing
		}
		dir = next
	}
}

// removeCreatedDirs undoes MkdirAll from dir up to top. os.Remove only deletes
// empty directories, so anything git or another request put there stays.
func removeCreatedDirs(dir, top string) {
	if top == "" {
		return
	}
	for {
		if err := os.Remove(dir); err != nil {
			logging.Logger.Debug("Leaving worktree parent in place", "path", dir, "error", err)
			return
		}
		if dir == top {
			return
		}
		next := filepath.Dir(dir)
		if next == dir {
			return
		}
		dir = next
	}
}

// classifyAddFailure turns the output of a failed `git worktree add` into a
// domain error. A conflict that appeared after the pre-checks passed is
// reported the same way the pre-checks would have reported it.
func classifyAddFailure(output, branchName, worktreePath string, err error) error {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "a branch named") && strings.Contains(lower, "already exists"):
		return domain.NewBranchExistsError(branchName)
	case strings.Contains(lower, "already exists"):
		return domain.NewWorktreeExistsError(worktreePath)
	default:
		return domain.NewGitOperationError("failed to create worktree", output, err)
	}
}

// ListWorktrees implements RepoInspector.ListWorktrees
func (r *CLIRepository) ListWorktrees(ctx context.Context, repoPath string) ([]domain.WorktreeRecord, error) {
	logging.Logger.Debug("Listing worktrees", "repo_path", repoPath)

	stdout, stderr, err := r.git(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		logging.Logger.Error("Failed to list worktrees", "error", err)
		return nil, domain.NewGitOperationError("failed to list worktrees", strings.TrimSpace(string(stderr)), err)
	}

	worktrees := parseWorktreeList(string(stdout))
	logging.Logger.Debug("Found worktrees", "count", len(worktrees))
	return worktrees, nil
}

// parseWorktreeList parses `git worktree list --porcelain` output.
// Records are separated by blank lines; the last one may not be terminated.
func parseWorktreeList(output string) []domain.WorktreeRecord {
	var (
		worktrees []domain.WorktreeRecord
		current   *domain.WorktreeRecord
	)

	flush := func() {
		if current != nil && current.Path != "" {
			worktrees = append(worktrees, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		if key == "worktree" {
			flush()
			current = &domain.WorktreeRecord{Path: value}
			continue
		}
		if current == nil {
			continue
		}

		switch key {
		case "HEAD":
			current.Head = value
		case "branch":
			current.Branch = strings.TrimPrefix(value, branchRefPrefix)
		case "bare":
			current.Bare = true
		case "detached":
			current.Detached = true
		case "locked":
			current.Locked = true
		case "prunable":
			current.Prunable = true
		}
	}
	flush()

	return worktrees
}
